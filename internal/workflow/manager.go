package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"docverify/internal/config"
	"docverify/internal/logging"
	"docverify/internal/queue"
	"docverify/internal/stage"
)

const heartbeatInterval = 15 * time.Second

// pipelineStage binds a handler to the statuses it moves persons between.
type pipelineStage struct {
	name             string
	handler          stage.Handler
	claimStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration

	stages []pipelineStage

	claimMu sync.Mutex

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// NewManager constructs a workflow manager. Stages are registered with
// ConfigureStages before Start.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	pollInterval := time.Duration(cfg.Workflow.QueuePollInterval) * time.Second
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger.With(logging.String("component", "workflow")),
		pollInterval: pollInterval,
	}
}

// ConfigureStages registers the extraction and verification handlers.
func (m *Manager) ConfigureStages(extractor, verifier stage.Handler) {
	m.stages = []pipelineStage{
		{
			name:             "extraction",
			handler:          extractor,
			claimStatus:      queue.StatusPending,
			processingStatus: queue.StatusExtracting,
			doneStatus:       queue.StatusExtracted,
		},
		{
			name:             "verification",
			handler:          verifier,
			claimStatus:      queue.StatusExtracted,
			processingStatus: queue.StatusVerifying,
			doneStatus:       queue.StatusCompleted,
		},
	}
}

// Start begins background processing with the configured worker pool.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.stages) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}

	if reset, err := m.store.ResetStuckProcessing(ctx); err != nil {
		m.mu.Unlock()
		return err
	} else if reset > 0 {
		m.logger.Info("reset stuck persons from previous run", logging.Int64("count", reset))
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	workers := m.cfg.Workflow.PersonWorkers
	if workers <= 0 {
		workers = 1
	}
	m.wg.Add(workers)
	m.mu.Unlock()

	for i := 0; i < workers; i++ {
		go m.runWorker(runCtx)
	}
	return nil
}

// Stop terminates background processing and waits for in-flight persons.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Running reports whether the manager is processing.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// LastError returns the most recent processing error, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

// Health aggregates stage readiness checks.
func (m *Manager) Health(ctx context.Context) []stage.Health {
	checks := make([]stage.Health, 0, len(m.stages))
	for _, s := range m.stages {
		if s.handler == nil {
			checks = append(checks, stage.Unhealthy(s.name, "missing handler"))
			continue
		}
		checks = append(checks, s.handler.HealthCheck(ctx))
	}
	return checks
}

func (m *Manager) runWorker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		person, ps, err := m.claimNext(ctx)
		if err != nil {
			m.setLastError(err)
			m.logger.Error("failed to claim next person", logging.Error(err))
			m.waitOrShutdown(ctx)
			continue
		}
		if person == nil {
			m.waitOrShutdown(ctx)
			continue
		}

		if err := m.runStage(ctx, ps, person); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

// claimNext atomically picks the oldest claimable person and transitions it
// into the stage's processing status so no other worker can pick it up.
func (m *Manager) claimNext(ctx context.Context) (*queue.Person, pipelineStage, error) {
	m.claimMu.Lock()
	defer m.claimMu.Unlock()

	for _, ps := range m.stages {
		person, err := m.store.NextForStatuses(ctx, ps.claimStatus)
		if err != nil {
			return nil, pipelineStage{}, err
		}
		if person == nil {
			continue
		}
		now := time.Now().UTC()
		person.Status = ps.processingStatus
		person.ErrorMessage = ""
		person.LastHeartbeat = &now
		if err := m.store.Update(ctx, person); err != nil {
			return nil, pipelineStage{}, err
		}
		return person, ps, nil
	}
	return nil, pipelineStage{}, nil
}

func (m *Manager) runStage(ctx context.Context, ps pipelineStage, person *queue.Person) error {
	stageLogger := m.logger.With(
		logging.String(logging.FieldStage, ps.name),
		logging.String(logging.FieldPersonID, person.PersonKey),
	)
	stageStart := time.Now()
	stageLogger.Info("stage started")

	if ps.handler == nil {
		person.SetFailed("stage " + ps.name + " missing handler")
		if err := m.store.Update(ctx, person); err != nil {
			stageLogger.Error("failed to persist missing handler failure", logging.Error(err))
		}
		err := errors.New("stage handler unavailable")
		m.setLastError(err)
		return err
	}

	if err := ps.handler.Prepare(ctx, person); err != nil {
		m.failPerson(ctx, stageLogger, person, err)
		return err
	}
	if err := m.store.Update(ctx, person); err != nil {
		stageLogger.Error("failed to persist stage preparation", logging.Error(err))
		m.setLastError(err)
		return err
	}

	execErr := m.executeWithHeartbeat(ctx, ps.handler, person)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			// Leave the person in its processing status so the next start
			// requeues it, but record why it was cut short.
			person.ErrorMessage = queue.DaemonStopReason
			if err := m.store.Update(context.WithoutCancel(ctx), person); err != nil {
				stageLogger.Error("failed to record shutdown interruption", logging.Error(err))
			}
			return execErr
		}
		m.failPerson(ctx, stageLogger, person, execErr)
		return execErr
	}

	person.Status = ps.doneStatus
	person.LastHeartbeat = nil
	if err := m.store.Update(ctx, person); err != nil {
		stageLogger.Error("failed to persist stage result", logging.Error(err))
		m.setLastError(err)
		return err
	}
	stageLogger.Info("stage completed",
		logging.String("next_status", string(person.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, handler stage.Handler, person *queue.Person) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go func() {
		defer hbWG.Done()
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-hbCtx.Done():
				return
			case <-ticker.C:
				if err := m.store.UpdateHeartbeat(hbCtx, person.ID); err != nil && hbCtx.Err() == nil {
					m.logger.Warn("heartbeat update failed",
						logging.String(logging.FieldPersonID, person.PersonKey),
						logging.Error(err),
					)
				}
			}
		}
	}()

	execErr := handler.Execute(ctx, person)
	hbCancel()
	hbWG.Wait()
	return execErr
}

// failPerson records a stage failure. Failures are per person: the worker
// moves on to the next claimable person afterwards.
func (m *Manager) failPerson(ctx context.Context, logger *slog.Logger, person *queue.Person, cause error) {
	logger.Error("stage failed", logging.Error(cause))
	m.setLastError(cause)
	person.SetFailed(cause.Error())
	if err := m.store.Update(ctx, person); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}
}

func (m *Manager) waitOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(m.pollInterval):
	}
}
