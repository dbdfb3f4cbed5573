package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/dmorgan81/autologo/internal/log"
	"github.com/dmorgan81/autologo/internal/prompt"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const generationFailedMessage = "Failed to generate logo. Please try again."

// ErrBusy is returned when a generation is requested while another one is
// still in flight.
var ErrBusy = errors.New("generation already in progress")

type Status int

const (
	StatusIdle Status = iota
	StatusPending
)

func (s Status) String() string {
	return lo.Ternary(s == StatusPending, "pending", "idle")
}

// GeneratedLogo is one successful generation. It is never modified after
// creation.
type GeneratedLogo struct {
	ID             string    `json:"id"`
	ImageReference string    `json:"imageReference"`
	Prompt         string    `json:"prompt"`
	Timestamp      time.Time `json:"timestamp"`
}

// Generator turns a brand configuration into an opaque image reference.
type Generator interface {
	Generate(context.Context, brand.Config) (string, error)
}

// GenerationError wraps a failure reported by the Generator.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return generationFailedMessage
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// State is a point in time copy of the session.
type State struct {
	Status    Status
	History   []GeneratedLogo
	Current   *GeneratedLogo
	LastError string
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithIDSource(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// Session serializes generation requests and keeps the newest-first
// history of their results. Current is held as a copy, independent of
// history membership.
type Session struct {
	generator Generator
	now       func() time.Time
	newID     func() string

	mu        sync.Mutex
	status    Status
	history   []GeneratedLogo
	current   *GeneratedLogo
	lastError string

	observersMu sync.Mutex
	observers   map[int]func(State)
	nextObs     int
}

func New(generator Generator, opts ...Option) *Session {
	s := &Session{
		generator: generator,
		now:       time.Now,
		newID:     func() string { return uuid.Must(uuid.NewV7()).String() },
		observers: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewSession(i *do.Injector) (*Session, error) {
	return New(do.MustInvoke[Generator](i)), nil
}

// RequestGeneration validates cfg, invokes the generator once and records
// the result. At most one generation runs at a time; a concurrent call
// returns ErrBusy without touching the session.
func (s *Session) RequestGeneration(ctx context.Context, cfg brand.Config) (GeneratedLogo, error) {
	logger := log.FromContextOrDiscard(ctx).WithGroup("session")

	s.mu.Lock()
	if s.status == StatusPending {
		s.mu.Unlock()
		logger.Warn("generation rejected, another one is in flight")
		return GeneratedLogo{}, ErrBusy
	}
	if err := cfg.Validate(); err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		logger.Info("generation rejected", "reason", err.Error())
		s.notify()
		return GeneratedLogo{}, err
	}
	cfg = cfg.Clone()
	s.status = StatusPending
	s.lastError = ""
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.status = StatusIdle
		s.mu.Unlock()
		s.notify()
	}()

	text := prompt.Build(cfg)
	logger = logger.With("prompt", text)
	logger.Info("requesting generation")

	ref, err := s.generator.Generate(ctx, cfg)
	if err != nil {
		logger.Error("generation failed", "error", err)
		s.mu.Lock()
		s.lastError = generationFailedMessage
		s.mu.Unlock()
		return GeneratedLogo{}, &GenerationError{Err: err}
	}

	logo := GeneratedLogo{
		ID:             s.newID(),
		ImageReference: ref,
		Prompt:         text,
		Timestamp:      s.now(),
	}

	s.mu.Lock()
	s.history = append([]GeneratedLogo{logo}, s.history...)
	current := logo
	s.current = &current
	s.mu.Unlock()

	logger.Info("generation succeeded", "id", logo.ID)
	return logo, nil
}

// SelectFromHistory makes the record with the given id current. Unknown ids
// are ignored.
func (s *Session) SelectFromHistory(id string) bool {
	s.mu.Lock()
	logo, ok := lo.Find(s.history, func(l GeneratedLogo) bool {
		return l.ID == id
	})
	if ok {
		s.current = &logo
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
	return ok
}

// ClearHistory drops every record. The current preview stays visible.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Session) History() []GeneratedLogo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]GeneratedLogo(nil), s.history...)
}

func (s *Session) Current() (GeneratedLogo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return GeneratedLogo{}, false
	}
	return *s.current, true
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusPending
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	state := State{
		Status:    s.status,
		History:   append([]GeneratedLogo(nil), s.history...),
		LastError: s.lastError,
	}
	if s.current != nil {
		current := *s.current
		state.Current = &current
	}
	return state
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned function removes the subscription.
func (s *Session) Subscribe(fn func(State)) func() {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Session) notify() {
	state := s.Snapshot()

	s.observersMu.Lock()
	fns := lo.Values(s.observers)
	s.observersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
