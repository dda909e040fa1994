// Package usecase contains application business logic.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// OrchestratorDeps are the collaborators of an Orchestrator.
// LockVerifier is optional; the rest are required.
type OrchestratorDeps struct {
	Profile      domain.PlatformProfile
	Elevated     bool
	Catalog      domain.ActionCatalog
	Executor     domain.CommandExecutor
	Prober       domain.StateProber
	Refresher    domain.InterfaceRefresher
	Confirmer    domain.Confirmer
	Audit        domain.AuditLog
	LockVerifier domain.LockVerifier

	// CountdownSeconds overrides the countdown length; zero keeps the default.
	CountdownSeconds int
}

// interfaceSelector is implemented by refreshers that track the selected interface.
type interfaceSelector interface {
	SetInterface(name string)
}

// Orchestrator implements domain.ActionOrchestrator.
// One action runs at a time; a concurrent request is refused.
type Orchestrator struct {
	deps   OrchestratorDeps
	logger *zap.Logger
	newID  func() string

	busy sync.Mutex

	mu       sync.RWMutex
	selected string
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(deps OrchestratorDeps, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		deps:   deps,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Profile returns the platform resolved at startup.
func (o *Orchestrator) Profile() domain.PlatformProfile {
	return o.deps.Profile
}

// Elevated reports whether the process has admin/root rights.
func (o *Orchestrator) Elevated() bool {
	return o.deps.Elevated
}

// ListInterfaces returns the interfaces the user may select.
func (o *Orchestrator) ListInterfaces(ctx context.Context) []string {
	return o.deps.Prober.ListInterfaces(ctx)
}

// Select makes name the target of interface intents. An empty name clears the selection.
func (o *Orchestrator) Select(ctx context.Context, name string) error {
	if name != "" && !contains(o.deps.Prober.ListInterfaces(ctx), name) {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownInterface)
	}

	o.mu.Lock()
	o.selected = name
	o.mu.Unlock()

	if s, ok := o.deps.Refresher.(interfaceSelector); ok {
		s.SetInterface(name)
	}
	o.logger.Info("interface selected", zap.String("interface", name))
	return nil
}

// Selected returns the selected interface, or "".
func (o *Orchestrator) Selected() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.selected
}

// CurrentSnapshot probes name; an empty name yields the empty snapshot.
func (o *Orchestrator) CurrentSnapshot(ctx context.Context, name string) domain.InterfaceSnapshot {
	if name == "" {
		return domain.EmptyInterfaceSnapshot()
	}
	return o.deps.Prober.Snapshot(ctx, name)
}

// SystemSummary describes the host.
func (o *Orchestrator) SystemSummary(ctx context.Context) domain.SystemSnapshot {
	return o.deps.Prober.SystemSummary(ctx)
}

// AuditLogText returns the full audit trail.
func (o *Orchestrator) AuditLogText() (string, error) {
	return o.deps.Audit.ReadAll()
}

// RequestAction runs Perform in the background and streams its events.
func (o *Orchestrator) RequestAction(ctx context.Context, intent domain.Intent, answers <-chan domain.Answer) <-chan domain.ActionEvent {
	events := make(chan domain.ActionEvent, o.eventBufferSize())

	go func() {
		defer close(events)

		outcome, err := o.Perform(ctx, intent, answers, events)
		final := domain.ActionEvent{
			Kind:    domain.EventCompleted,
			Intent:  intent,
			Outcome: outcome,
			Err:     err,
		}
		if outcome != nil {
			final.RequestID = outcome.RequestID
			final.Intent = outcome.Intent
		}
		deliver(ctx, events, final)
	}()

	return events
}

// eventBufferSize fits every tick of a countdown plus the resolved, message
// and completed events.
func (o *Orchestrator) eventBufferSize() int {
	seconds := domain.DefaultCountdownSeconds
	if o.deps.CountdownSeconds > seconds {
		seconds = o.deps.CountdownSeconds
	}
	return seconds + 4
}

// Perform drives intent through confirmation, execution, refresh and audit.
// A nil error with a non-executed outcome means the user declined or the
// platform has no command for the intent.
func (o *Orchestrator) Perform(
	ctx context.Context,
	intent domain.Intent,
	answers <-chan domain.Answer,
	events chan<- domain.ActionEvent,
) (*domain.ActionOutcome, error) {
	if !o.busy.TryLock() {
		return nil, domain.ErrActionInProgress
	}
	defer o.busy.Unlock()

	start := time.Now()
	reqID := o.newID()
	log := o.logger.With(zap.String("request_id", reqID))

	selected := o.Selected()
	if intent.TargetsInterface() && intent.Interface == "" {
		intent = intent.WithInterface(selected)
	}
	outcome := &domain.ActionOutcome{Intent: intent, RequestID: reqID}
	emitter := eventEmitter{ctx: ctx, events: events, requestID: reqID, intent: intent}

	log.Info("action requested", zap.String("intent", intent.String()))

	if intent.TargetsInterface() && selected == "" {
		outcome.Message = &domain.UserMessage{
			Severity: domain.SeverityWarning,
			Title:    "No interface selected",
			Body:     "Select a network interface first.",
		}
		emitter.message(outcome.Message)
		return outcome, domain.ErrNoInterfaceSelected
	}

	// Resolve early so an invalid name fails before the prompt.
	spec, resolveErr := o.deps.Catalog.Resolve(intent, o.deps.Profile)
	if errors.Is(resolveErr, domain.ErrInvalidInterfaceName) {
		outcome.Message = &domain.UserMessage{
			Severity: domain.SeverityError,
			Title:    "Invalid interface",
			Body:     resolveErr.Error(),
		}
		emitter.message(outcome.Message)
		return outcome, resolveErr
	}

	// The selection was checked by Select; any other name must be listed.
	if intent.TargetsInterface() && intent.Interface != selected &&
		!contains(o.deps.Prober.ListInterfaces(ctx), intent.Interface) {
		outcome.Message = &domain.UserMessage{
			Severity: domain.SeverityError,
			Title:    "Unknown interface",
			Body:     fmt.Sprintf("Interface '%s' was not found.", intent.Interface),
		}
		emitter.message(outcome.Message)
		return outcome, fmt.Errorf("%q: %w", intent.Interface, domain.ErrUnknownInterface)
	}

	req := domain.NewConfirmationRequest(reqID, intent.Title(), intent.Prompt(), intent.RequiresCountdown())
	if req.RequiresCountdown && o.deps.CountdownSeconds > 0 {
		req.CountdownSeconds = o.deps.CountdownSeconds
	}

	state, confirmErr := o.deps.Confirmer.Confirm(ctx, req, answers, emitter.tick)
	outcome.Confirmation = state
	if confirmErr != nil && !errors.Is(confirmErr, domain.ErrTimerFailed) {
		log.Warn("confirmation refused", zap.Error(confirmErr))
		return outcome, confirmErr
	}
	emitter.resolved(state)

	if state != domain.ConfirmationApproved {
		log.Info("action not confirmed", zap.String("state", string(state)))
		if confirmErr != nil {
			outcome.Message = &domain.UserMessage{
				Severity: domain.SeverityWarning,
				Title:    "Countdown failed",
				Body:     fmt.Sprintf("The countdown timer failed; '%s' was cancelled.", intent.Title()),
			}
			emitter.message(outcome.Message)
		}
		return outcome, nil
	}

	if errors.Is(resolveErr, domain.ErrUnsupportedOnPlatform) {
		outcome.Unsupported = true
		outcome.Message = &domain.UserMessage{
			Severity: domain.SeverityInfo,
			Title:    "Not supported",
			Body:     fmt.Sprintf("'%s' is not supported on this platform (%s).", intent.Title(), o.deps.Profile),
		}
		emitter.message(outcome.Message)
		log.Info("action unsupported on platform", zap.String("profile", string(o.deps.Profile)))
		return outcome, nil
	}
	if resolveErr != nil {
		return outcome, resolveErr
	}

	if intent.RequiresPrivilege() && !o.deps.Elevated {
		emitter.message(&domain.UserMessage{
			Severity: domain.SeverityWarning,
			Title:    "Not elevated",
			Body:     fmt.Sprintf("'%s' usually needs administrator rights and may fail.", intent.Title()),
		})
	}

	// Once started, a command runs to completion even if the caller goes away.
	result := o.deps.Executor.Execute(context.WithoutCancel(ctx), spec)
	outcome.Executed = true
	outcome.Result = &result

	var execErr error
	if result.Succeeded {
		o.appendAudit(log, intent.CompletedDescription())
		if intent.Kind == domain.IntentLock {
			o.verifyLock(ctx, log, outcome, &emitter)
		}
	} else {
		execErr = result.Err()
		o.appendAudit(log, fmt.Sprintf("Action '%s' failed: %s", intent.Title(), describeFailure(result)))
		outcome.Message = &domain.UserMessage{
			Severity: domain.SeverityError,
			Title:    fmt.Sprintf("%s failed", intent.Title()),
			Body:     execErr.Error(),
		}
		emitter.message(outcome.Message)
	}

	if intent.AffectsNetwork() {
		snap := o.deps.Refresher.Refresh(ctx, intent.Interface)
		outcome.Snapshot = &snap
		log.Debug("interface refreshed",
			zap.String("interface", snap.Name),
			zap.String("state", string(snap.AdminState)))
	}

	log.Info("action completed",
		zap.String("intent", intent.String()),
		zap.String("command", result.Command),
		zap.Bool("succeeded", result.Succeeded),
		zap.Int("exit_code", result.ExitCode),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return outcome, execErr
}

// verifyLock audits a lock whose screen locker never appeared. The command's
// success stays recorded either way.
func (o *Orchestrator) verifyLock(ctx context.Context, log *zap.Logger, outcome *domain.ActionOutcome, emitter *eventEmitter) {
	if o.deps.LockVerifier == nil {
		return
	}
	if o.deps.LockVerifier.VerifyLocked(ctx) {
		return
	}
	o.appendAudit(log, "Action 'Lock' completed but lock not verified.")
	outcome.Message = &domain.UserMessage{
		Severity: domain.SeverityWarning,
		Title:    "Lock not verified",
		Body:     "The lock command succeeded but no screen locker was found running.",
	}
	emitter.message(outcome.Message)
}

func (o *Orchestrator) appendAudit(log *zap.Logger, desc string) {
	if err := o.deps.Audit.Append(desc); err != nil {
		log.Warn("failed to write audit entry", zap.String("entry", desc), zap.Error(err))
	}
}

// describeFailure renders "<kind> (exit N): <stderr>".
func describeFailure(r domain.ExecutionResult) string {
	desc := fmt.Sprintf("%s (exit %d)", r.ErrorKind, r.ExitCode)
	if stderr := strings.TrimSpace(r.Stderr); stderr != "" {
		desc += ": " + stderr
	}
	return desc
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// eventEmitter sends events unless the subscriber's context is gone.
type eventEmitter struct {
	ctx       context.Context
	events    chan<- domain.ActionEvent
	requestID string
	intent    domain.Intent
}

func (e *eventEmitter) send(ev domain.ActionEvent) {
	if e.events == nil {
		return
	}
	ev.RequestID = e.requestID
	ev.Intent = e.intent
	deliver(e.ctx, e.events, ev)
}

// deliver sends ev unless ctx ends first. It reports whether ev was sent.
func deliver(ctx context.Context, events chan<- domain.ActionEvent, ev domain.ActionEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (e *eventEmitter) tick(remaining int) {
	e.send(domain.ActionEvent{Kind: domain.EventTick, SecondsRemaining: remaining})
}

func (e *eventEmitter) resolved(state domain.ConfirmationState) {
	e.send(domain.ActionEvent{Kind: domain.EventResolved, State: state})
}

func (e *eventEmitter) message(msg *domain.UserMessage) {
	e.send(domain.ActionEvent{Kind: domain.EventMessage, Message: msg})
}

// Ensure Orchestrator implements domain.ActionOrchestrator.
var _ domain.ActionOrchestrator = (*Orchestrator)(nil)
