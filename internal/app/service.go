// Package service provides the core business service that implements the
// dependencies required by the HTTP API. It owns the session store, the
// state machine, the per-session lock registry, and the synthesis backend.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	genaiadapter "github.com/okian/calibra/internal/adapters/genai"
	"github.com/okian/calibra/internal/adapters/repository"
	"github.com/okian/calibra/internal/config"
	"github.com/okian/calibra/internal/domain/machine"
	"github.com/okian/calibra/internal/domain/session"
	"github.com/okian/calibra/internal/domain/sessionlock"
	"github.com/okian/calibra/internal/domain/synthesis"
	"github.com/okian/calibra/pkg/logger"
	"github.com/okian/calibra/pkg/metrics"
)

// Service implements the API dependencies for the calibration system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	machine   *machine.Machine
	locks     sessionlock.Locker
	generator synthesis.Generator

	// Configuration
	storeKind     string
	sqlitePath    string
	generatorKind string
	geminiAPIKey  string
	geminiModel   string
	genTimeout    time.Duration
	lockCapacity  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a session store, overriding the configured kind.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGenerator injects a synthesis generator, overriding the configured
// kind. Tests use this to script generation outcomes.
func WithGenerator(g synthesis.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithStoreKind selects the store backend by config constant.
func WithStoreKind(kind, sqlitePath string) Option {
	return func(s *Service) {
		if kind != "" {
			s.storeKind = kind
		}
		if sqlitePath != "" {
			s.sqlitePath = sqlitePath
		}
	}
}

// WithGeneratorKind selects the generation backend by config constant.
func WithGeneratorKind(kind, apiKey, model string) Option {
	return func(s *Service) {
		if kind != "" {
			s.generatorKind = kind
		}
		s.geminiAPIKey = apiKey
		if model != "" {
			s.geminiModel = model
		}
	}
}

// WithGenerationTimeout bounds each generative call.
func WithGenerationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.genTimeout = d
		}
	}
}

// WithLockCapacity sets the per-session lock registry capacity.
func WithLockCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.lockCapacity = capacity
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeKind:     config.StoreMemory,
		generatorKind: config.GeneratorTemplate,
		geminiModel:   "gemini-2.5-pro",
		genTimeout:    20 * time.Second,
		lockCapacity:  50000,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting calibration service...")

	if s.store == nil {
		switch s.storeKind {
		case config.StoreSQLite:
			store, err := repository.NewSQLiteStore(ctx, s.sqlitePath)
			if err != nil {
				return err
			}
			s.store = store
			s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
		default:
			s.store = repository.NewMemStore()
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	if s.generator == nil {
		switch s.generatorKind {
		case config.GeneratorGemini:
			gen, err := genaiadapter.NewGenerator(ctx, s.geminiAPIKey,
				genaiadapter.WithModel(s.geminiModel),
				genaiadapter.WithTimeout(s.genTimeout),
			)
			if err != nil {
				return err
			}
			s.generator = gen
			s.logger.Info(ctx, "using gemini generator", logger.String("model", s.geminiModel))
		default:
			s.generator = synthesis.NewTemplateGenerator()
			s.logger.Info(ctx, "using template generator")
		}
	}

	s.locks = sessionlock.NewRegistry(
		sessionlock.WithCapacity(s.lockCapacity),
	)
	s.machine = machine.NewMachine(
		machine.WithLogger(s.logger),
		machine.WithRunner(synthesis.NewRunner(
			synthesis.WithGenerator(s.generator),
			synthesis.WithLogger(s.logger),
		)),
	)

	metrics.UpdateTitleBankSize(machine.TitleBankSize())

	s.started = true
	s.logger.Info(ctx, "calibration service started",
		logger.String("store", s.storeKind),
		logger.String("generator", s.generatorKind),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping calibration service...")
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(context.Background(), "store close failed", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "calibration service stopped")
}

// Dispatch applies one calibration event end to end: per-session lock,
// load, state machine, persist. The updated session is stored only when
// the machine succeeds, so a failed dispatch never corrupts stored state.
// Panics are recovered and reported as INTERNAL without leaking details.
func (s *Service) Dispatch(ctx context.Context, ev session.Event) (sess *session.Session, derr *machine.Error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "panic during dispatch", logger.Any("panic", r))
			sess = nil
			derr = &machine.Error{Code: machine.CodeInternal, Message: "internal error"}
		}
		result := "ok"
		if derr != nil {
			result = "error"
			metrics.RecordDispatchError(derr.Code)
			switch derr.Code {
			case machine.CodeMissingJobText, machine.CodeUnableToExtractAnySignal, machine.CodeIncompleteDimensionCoverage:
				metrics.RecordJobIngestFailure(derr.Code)
			}
		}
		metrics.RecordDispatch(ev.Type(), result)
		metrics.RecordDispatchLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if _, ok := ev.(session.CreateSession); ok {
		next, merr := s.machine.Dispatch(ctx, nil, ev)
		if merr != nil {
			return nil, merr
		}
		if err := s.store.Set(ctx, next); err != nil {
			s.logger.Error(ctx, "session store write failed", logger.Error(err))
			return nil, &machine.Error{Code: machine.CodeInternal, Message: "internal error"}
		}
		metrics.RecordSessionCreated()
		return next, nil
	}

	id := ev.SessionID()
	release := s.locks.Acquire(ctx, id)
	defer release()

	current, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &machine.Error{Code: machine.CodeSessionNotFound, Message: "session " + id + " not found"}
		}
		s.logger.Error(ctx, "session store read failed", logger.Error(err))
		return nil, &machine.Error{Code: machine.CodeInternal, Message: "internal error"}
	}

	next, merr := s.machine.Dispatch(ctx, current, ev)
	if merr != nil {
		return nil, merr
	}

	if err := s.store.Set(ctx, next); err != nil {
		s.logger.Error(ctx, "session store write failed", logger.Error(err))
		return nil, &machine.Error{Code: machine.CodeInternal, Message: "internal error"}
	}

	if next.State == session.StateTerminalComplete && current.State != session.StateTerminalComplete {
		metrics.RecordSessionCompleted()
	}
	return next, nil
}

// GetSession returns the stored session for id.
func (s *Service) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// Stats is the monitoring snapshot exposed by GetStats.
type Stats struct {
	Started         bool                  `json:"started"`
	Store           string                `json:"store"`
	Generator       string                `json:"generator"`
	TotalSessions   int                   `json:"totalSessions"`
	TrackedLocks    int64                 `json:"trackedLocks"`
	SessionsByState map[session.State]int `json:"sessionsByState,omitempty"`
}

// GetStats returns service statistics for monitoring and refreshes the
// store session gauges as a side effect.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Started:   s.started,
		Store:     s.storeKind,
		Generator: s.generatorKind,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	stats.TotalSessions = s.store.Count(ctx)
	stats.TrackedLocks = s.locks.Size()
	stats.SessionsByState = s.store.CountByState(ctx)

	metrics.UpdateStoreSessions(stats.TotalSessions)
	// Set every known state, zeroing the ones no session occupies, so the
	// gauge never reports a state a session has already left.
	for _, state := range session.States() {
		metrics.UpdateSessionsByState(string(state), stats.SessionsByState[state])
	}
	return stats
}
