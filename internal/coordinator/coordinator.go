package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/Afrawles/dataproc/internal/bfhl"
	"github.com/Afrawles/dataproc/internal/input"
)

var (
	ErrBusy   = errors.New("a request is already in progress")
	ErrClosed = errors.New("coordinator is closed")
)

// Processor performs the remote call for a tokenized input.
type Processor interface {
	Process(ctx context.Context, data []string) (*bfhl.Response, error)
}

var _ Processor = (*bfhl.Client)(nil)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is a snapshot of the request lifecycle. Result is set only for
// StatusSuccess and Err only for StatusFailed.
type State struct {
	Status Status
	Result *bfhl.Response
	Err    *bfhl.Error
}

func (s State) Loading() bool {
	return s.Status == StatusLoading
}

// Message is the error text for a failed state.
func (s State) Message() string {
	if s.Err == nil {
		return ""
	}
	return bfhl.Message(s.Err)
}

type Coordinator struct {
	proc    Processor
	logger  *slog.Logger
	limiter *rate.Limiter

	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	closed    bool
	nextID    int
	listeners map[int]func(State)
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithLimiter throttles submissions that reach the network.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Coordinator) {
		c.limiter = l
	}
}

func New(proc Processor, opts ...Option) *Coordinator {
	c := &Coordinator{
		proc:      proc,
		logger:    slog.Default(),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to be called after every notified transition.
func (c *Coordinator) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Submit runs one request for raw. Request failures are reported through
// the returned Failed state; the error is non-nil only when the submission
// was rejected (ErrBusy, ErrClosed) or abandoned by cancellation. A cancelled
// ctx notifies listeners of the return to Idle; Close does not.
func (c *Coordinator) Submit(ctx context.Context, raw string) (State, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return State{}, ErrClosed
	}
	if c.state.Status == StatusLoading {
		st := c.state
		c.mu.Unlock()
		return st, ErrBusy
	}

	if input.IsBlank(raw) {
		c.logger.Warn("rejected empty input")
		st := c.setLocked(State{Status: StatusFailed, Err: bfhl.NewValidationError(bfhl.MsgEmptyInput)})
		return st, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.setLocked(State{Status: StatusLoading})

	data := input.Split(raw)
	c.logger.Info("submitting data", "tokens", len(data))

	resp, err := c.process(ctx, data)
	if err == nil && resp == nil {
		err = bfhl.NewUnexpectedError(errors.New("empty response"))
	}
	ctxErr := ctx.Err()
	cancel()

	c.mu.Lock()
	c.cancel = nil

	if c.closed {
		c.state = State{Status: StatusIdle}
		c.mu.Unlock()
		c.logger.Info("request abandoned", "closed", true)
		return State{}, ErrClosed
	}

	if errors.Is(ctxErr, context.Canceled) && errors.Is(err, context.Canceled) {
		c.logger.Info("request abandoned", "closed", false)
		st := c.setLocked(State{Status: StatusIdle})
		return st, ctxErr
	}

	if err != nil {
		e := bfhl.AsError(err)
		c.logger.Error("request failed",
			"kind", e.Kind.String(),
			"transport", e.Transport.String(),
			"status", e.StatusCode,
			"error", err,
		)
		return c.setLocked(State{Status: StatusFailed, Err: e}), nil
	}

	c.logger.Info("request succeeded", "is_success", resp.IsSuccess)
	return c.setLocked(State{Status: StatusSuccess, Result: resp}), nil
}

func (c *Coordinator) process(ctx context.Context, data []string) (*bfhl.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, bfhl.NewUnexpectedError(err)
		}
	}
	return c.proc.Process(ctx, data)
}

// Reset returns a finished coordinator to Idle.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if c.closed || c.state.Status == StatusLoading {
		c.mu.Unlock()
		return
	}
	c.setLocked(State{Status: StatusIdle})
}

// Close aborts any in-flight request and silences all listeners.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.listeners = make(map[int]func(State))
}

// setLocked stores st, releases c.mu and notifies listeners.
func (c *Coordinator) setLocked(st State) State {
	c.state = st

	listeners := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
	return st
}
