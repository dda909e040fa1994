package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/syscmd/internal/catalog"
	"github.com/eliteGoblin/syscmd/internal/config"
	"github.com/eliteGoblin/syscmd/internal/confirm"
	"github.com/eliteGoblin/syscmd/internal/daemon"
	"github.com/eliteGoblin/syscmd/internal/domain"
	"github.com/eliteGoblin/syscmd/internal/infra"
	"github.com/eliteGoblin/syscmd/internal/usecase"
)

// app holds the wired components for one CLI invocation.
type app struct {
	rt        *infra.RuntimeInfo
	cfg       *config.Config
	logger    *zap.Logger
	audit     domain.AuditLog
	auditPath string
	poller    *daemon.Poller
	orch      *usecase.Orchestrator
	closers   []func() error
}

func newApp(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rt := infra.DetectRuntime()

	cfg, err := config.Load(rt.DataDir)
	if err != nil {
		return nil, err
	}

	logger := createLogger(cfg)
	a := &app{rt: rt, cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() error { _ = logger.Sync(); return nil })

	if err := a.openAudit(); err != nil {
		a.close()
		return nil, err
	}

	cat := catalog.New()
	executor := infra.NewCommandExecutor(cfg.CommandTimeout, logger)
	prober := infra.NewStateProber(rt.Profile, cat, executor, infra.NewGopsutilHost(), cfg.DiskPath, logger)
	a.poller = daemon.NewPoller(daemon.PollerConfig{Interval: cfg.PollInterval}, prober, logger)

	deps := usecase.OrchestratorDeps{
		Profile:          rt.Profile,
		Elevated:         rt.Elevated,
		Catalog:          cat,
		Executor:         executor,
		Prober:           prober,
		Refresher:        a.poller,
		Confirmer:        newPromptConfirmer(confirm.NewEngine(a.audit, logger), stdout()),
		Audit:            a.audit,
		CountdownSeconds: cfg.CountdownSeconds,
	}
	if cfg.VerifyLock {
		deps.LockVerifier = infra.NewProcessLockVerifier(infra.NewProcessManager(), rt.Profile, logger)
	}
	a.orch = usecase.NewOrchestrator(deps, logger)

	selected := cfg.Interface
	if ifaceFlag != "" {
		selected = ifaceFlag
	}
	if selected != "" {
		if err := a.orch.Select(ctx, selected); err != nil {
			a.close()
			return nil, err
		}
	}

	logger.Debug("syscmd started",
		zap.String("version", Version),
		zap.String("profile", string(rt.Profile)),
		zap.String("mode", rt.Mode.String()),
		zap.String("data_dir", cfg.DataDir),
		zap.String("audit_backend", string(cfg.AuditBackend)))
	return a, nil
}

func (a *app) openAudit() error {
	switch a.cfg.AuditBackend {
	case config.AuditBackendEncrypted:
		key, err := infra.EnsureKey(infra.NewFileKeyProvider(a.cfg.DataDir))
		if err != nil {
			return fmt.Errorf("failed to load audit key: %w", err)
		}
		log, err := infra.NewEncryptedAuditLog(a.cfg.DataDir, key)
		if err != nil {
			return err
		}
		a.audit = log
		a.auditPath = log.Path()
		a.closers = append(a.closers, log.Close)
	default:
		log := infra.NewFileAuditLog(a.cfg.AuditLogPath)
		a.audit = log
		a.auditPath = log.Path()
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
}

// createLogger logs JSON to SYSCMD_LOG_FILE, or to stderr when unset.
func createLogger(cfg *config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = level
	}
	if cfg.LogFile != "" {
		zcfg.OutputPaths = []string{cfg.LogFile}
		zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	}
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}
