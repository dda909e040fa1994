// Package confirm gates irreversible actions behind a yes/no prompt or a
// cancellable countdown.
//
// The two modes resolve differently when nobody answers: a simple prompt that
// can never be answered expires (no consent), while a countdown that runs out
// approves.
package confirm

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

// DefaultTickInterval is one countdown second.
const DefaultTickInterval = time.Second

// Engine implements domain.Confirmer. Only one confirmation may be active.
type Engine struct {
	audit    domain.AuditLog
	clock    Clock
	interval time.Duration
	logger   *zap.Logger
	active   atomic.Bool
}

// NewEngine creates an engine ticking once per second.
func NewEngine(audit domain.AuditLog, logger *zap.Logger) *Engine {
	return NewEngineWithClock(audit, RealClock(), DefaultTickInterval, logger)
}

// NewEngineWithClock creates an engine with a custom clock and interval (for testing).
func NewEngineWithClock(audit domain.AuditLog, clock Clock, interval time.Duration, logger *zap.Logger) *Engine {
	return &Engine{
		audit:    audit,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Busy reports whether a confirmation is currently pending.
func (e *Engine) Busy() bool {
	return e.active.Load()
}

// Confirm blocks until req resolves and returns the final state.
// Non-approved outcomes are written to the audit log here.
// The returned error is ErrTimerFailed when a countdown could not tick,
// or a refusal (ErrConfirmationInProgress, ErrAlreadyResolved).
func (e *Engine) Confirm(
	ctx context.Context,
	req *domain.ConfirmationRequest,
	answers <-chan domain.Answer,
	onTick func(remaining int),
) (domain.ConfirmationState, error) {
	if !e.active.CompareAndSwap(false, true) {
		return req.State(), domain.ErrConfirmationInProgress
	}
	defer e.active.Store(false)

	if req.State() != domain.ConfirmationPending {
		return req.State(), domain.ErrAlreadyResolved
	}

	var (
		state domain.ConfirmationState
		err   error
	)
	if req.RequiresCountdown {
		state, err = e.countdown(ctx, req, answers, onTick)
	} else {
		state = e.simple(ctx, answers)
	}

	if rerr := req.Resolve(state); rerr != nil {
		return req.State(), rerr
	}

	e.logger.Info("confirmation resolved",
		zap.String("request_id", req.ID),
		zap.String("title", req.Title),
		zap.Bool("countdown", req.RequiresCountdown),
		zap.String("state", string(state)))

	if state != domain.ConfirmationApproved {
		e.auditCancellation(req, err)
	}
	return state, err
}

func (e *Engine) simple(ctx context.Context, answers <-chan domain.Answer) domain.ConfirmationState {
	for {
		select {
		case <-ctx.Done():
			return domain.ConfirmationExpired
		case a, ok := <-answers:
			if !ok {
				return domain.ConfirmationExpired
			}
			switch a {
			case domain.AnswerYes:
				return domain.ConfirmationApproved
			case domain.AnswerNo, domain.AnswerCancel:
				return domain.ConfirmationCancelled
			}
		}
	}
}

// countdown runs a single select loop, so ticks are handled strictly one at a time.
func (e *Engine) countdown(
	ctx context.Context,
	req *domain.ConfirmationRequest,
	answers <-chan domain.Answer,
	onTick func(remaining int),
) (domain.ConfirmationState, error) {
	remaining := req.CountdownSeconds
	if remaining <= 0 {
		remaining = domain.DefaultCountdownSeconds
	}

	ticker, err := e.clock.NewTicker(e.interval)
	if err != nil {
		e.logger.Warn("countdown timer could not start", zap.String("request_id", req.ID), zap.Error(err))
		return domain.ConfirmationCancelled, fmt.Errorf("%w: %v", domain.ErrTimerFailed, err)
	}
	defer ticker.Stop()

	notify(onTick, remaining)

	for {
		select {
		case <-ctx.Done():
			return domain.ConfirmationCancelled, nil

		case a, ok := <-answers:
			if !ok {
				// Nobody can cancel any more; the countdown still runs out.
				answers = nil
				continue
			}
			switch a {
			case domain.AnswerYes:
				return domain.ConfirmationApproved, nil
			case domain.AnswerNo, domain.AnswerCancel:
				return domain.ConfirmationCancelled, nil
			}

		case _, ok := <-ticker.C():
			if !ok {
				e.logger.Warn("countdown timer stopped", zap.String("request_id", req.ID))
				return domain.ConfirmationCancelled, domain.ErrTimerFailed
			}
			remaining--
			if remaining <= 0 {
				return domain.ConfirmationApproved, nil
			}
			notify(onTick, remaining)
		}
	}
}

func notify(onTick func(int), remaining int) {
	if onTick != nil {
		onTick(remaining)
	}
}

func (e *Engine) auditCancellation(req *domain.ConfirmationRequest, cause error) {
	desc := fmt.Sprintf("Action '%s' cancelled by user.", req.Title)
	if cause != nil {
		desc = fmt.Sprintf("Action '%s' cancelled: countdown timer failed.", req.Title)
	}
	if err := e.audit.Append(desc); err != nil {
		e.logger.Warn("failed to write audit entry", zap.String("request_id", req.ID), zap.Error(err))
	}
}

// Ensure Engine implements domain.Confirmer.
var _ domain.Confirmer = (*Engine)(nil)
