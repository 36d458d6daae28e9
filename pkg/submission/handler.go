package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/validation"
)

// DefaultResetDelay is how long the success state lasts before the handler
// returns to idle.
const DefaultResetDelay = 5 * time.Second

// Outcome describes a completed Submit call.
type Outcome struct {
	State   State  `json:"state"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithOpener sets the external-open side effect.
func WithOpener(opener Opener) Option {
	return func(h *Handler) {
		if opener != nil {
			h.opener = opener
		}
	}
}

// WithNotifier sets the collaborator that shows transient notifications.
func WithNotifier(notifier Notifier) Option {
	return func(h *Handler) {
		if notifier != nil {
			h.notifier = notifier
		}
	}
}

// WithScheduler replaces the clock used for the success revert.
func WithScheduler(scheduler Scheduler) Option {
	return func(h *Handler) {
		if scheduler != nil {
			h.scheduler = scheduler
		}
	}
}

// WithResetDelay overrides how long the success state lasts.
func WithResetDelay(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.resetDelay = d
		}
	}
}

// WithDispatchDelay waits d in the submitting state before handing off.
func WithDispatchDelay(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.dispatchDelay = d
		}
	}
}

// WithDeepLink sets the messaging target.
func WithDeepLink(link DeepLink) Option {
	return func(h *Handler) {
		h.link = link
	}
}

// WithGreeting overrides the first line of the formatted message.
func WithGreeting(greeting string) Option {
	return func(h *Handler) {
		h.greeting = greeting
	}
}

// Settings are the dispatch knobs a Handler can re-read on every Submit.
type Settings struct {
	DeepLink      DeepLink
	Greeting      string
	DispatchDelay time.Duration
	ResetDelay    time.Duration
}

// WithSettings makes the handler call fn at the start of every Submit, so a
// reloaded configuration reaches long-lived handlers. A DeepLink without a
// recipient, an empty Greeting, a negative DispatchDelay and a non-positive
// ResetDelay keep the values set by the other options.
func WithSettings(fn func() Settings) Option {
	return func(h *Handler) {
		h.settingsFn = fn
	}
}

// WithResetHook registers fn to run after a successful hand-off. Form
// instances use it to clear their input.
func WithResetHook(fn func()) Option {
	return func(h *Handler) {
		h.onReset = fn
	}
}

// WithObserver registers fn to receive every state transition. Observers run
// synchronously while the handler lock is held and must not call back into
// the handler.
func WithObserver(fn Observer) Option {
	return func(h *Handler) {
		if fn != nil {
			h.observers = append(h.observers, fn)
		}
	}
}

// WithLogger sets the logger for state and dispatch events.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler owns the submission state machine for a single form instance. At
// most one submission is in flight at a time.
type Handler struct {
	mu         sync.Mutex
	state      State
	closed     bool
	timer      Timer
	generation uint64

	opener        Opener
	notifier      Notifier
	scheduler     Scheduler
	resetDelay    time.Duration
	dispatchDelay time.Duration
	link          DeepLink
	greeting      string
	settingsFn    func() Settings
	onReset       func()
	observers     []Observer
	logger        *zap.Logger

	// done is closed by Close and cancels in-flight dispatches.
	done chan struct{}
}

// NewHandler constructs an idle handler. Without WithOpener every dispatch
// fails, so callers always supply one.
func NewHandler(options ...Option) *Handler {
	h := &Handler{
		state:      StateIdle,
		notifier:   NotifierFunc(nil),
		scheduler:  WallClock(),
		resetDelay: DefaultResetDelay,
		link:       DefaultDeepLink(),
		greeting:   DefaultGreeting,
		logger:     zap.NewNop(),
		done:       make(chan struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.opener == nil {
		h.opener = OpenerFunc(func(context.Context, string) error {
			return errors.New("submission: no opener configured")
		})
	}
	return h
}

// State reports the current state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Settings reports what the next Submit would use.
func (h *Handler) Settings() Settings {
	cfg := Settings{
		DeepLink:      h.link,
		Greeting:      h.greeting,
		DispatchDelay: h.dispatchDelay,
		ResetDelay:    h.resetDelay,
	}
	if h.settingsFn == nil {
		return cfg
	}
	live := h.settingsFn()
	if live.DeepLink.Recipient != "" {
		cfg.DeepLink = live.DeepLink
	}
	if live.Greeting != "" {
		cfg.Greeting = live.Greeting
	}
	if live.DispatchDelay >= 0 {
		cfg.DispatchDelay = live.DispatchDelay
	}
	if live.ResetDelay > 0 {
		cfg.ResetDelay = live.ResetDelay
	}
	return cfg
}

// Submit formats a valid record and hands it to the opener. It refuses
// invalid results, concurrent submissions, and closed handlers without
// changing state. When the opener fails the handler rolls back to idle,
// emits an error notification, and returns a *DispatchError; nothing is
// retried. Close during the dispatch delay, or while the opener runs,
// cancels the dispatch context and Submit returns ErrClosed.
func (h *Handler) Submit(ctx context.Context, result validation.Result) (Outcome, error) {
	if !result.Valid {
		return Outcome{State: h.State()}, ErrNotValidated
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Outcome{State: h.state}, ErrClosed
	}
	if h.state != StateIdle {
		state := h.state
		h.mu.Unlock()
		return Outcome{State: state}, ErrSubmissionInFlight
	}
	h.transition(StateSubmitting)
	h.mu.Unlock()

	cfg := h.Settings()
	ctx, cancel := h.dispatchContext(ctx)
	defer cancel()

	if err := wait(ctx, cfg.DispatchDelay); err != nil {
		return h.rollback(err)
	}

	url := cfg.DeepLink.URL(FormatMessage(result.Record, cfg.Greeting))

	h.mu.Lock()
	if h.closed {
		state := h.state
		h.mu.Unlock()
		return Outcome{State: state}, ErrClosed
	}
	h.mu.Unlock()

	openErr := h.opener.Open(ctx, url)

	h.mu.Lock()
	if h.closed {
		state := h.state
		h.mu.Unlock()
		return Outcome{State: state, URL: url}, ErrClosed
	}
	if openErr != nil {
		h.transition(StateIdle)
		h.mu.Unlock()

		h.logger.Warn("contact dispatch failed", zap.Error(openErr))
		h.notifier.Notify(Notification{Level: LevelError, Message: DispatchMessage})
		return Outcome{State: StateIdle, Message: DispatchMessage}, &DispatchError{URL: url, Err: openErr}
	}

	h.transition(StateSuccess)
	h.generation++
	gen := h.generation
	h.timer = h.scheduler.AfterFunc(cfg.ResetDelay, func() { h.revert(gen) })
	h.mu.Unlock()

	h.logger.Debug("contact dispatched",
		zap.String("recipient", cfg.DeepLink.Recipient),
		zap.Duration("reset_delay", cfg.ResetDelay),
	)
	h.notifier.Notify(Notification{Level: LevelSuccess, Message: SuccessMessage})
	if h.onReset != nil {
		h.onReset()
	}
	return Outcome{State: StateSuccess, URL: url, Message: SuccessMessage}, nil
}

// Close tears the handler down. A pending success revert is cancelled and no
// later transition fires. Close is idempotent.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	close(h.done)
	h.generation++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	return nil
}

// dispatchContext derives a context that Close also cancels.
func (h *Handler) dispatchContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-h.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (h *Handler) rollback(cause error) (Outcome, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return Outcome{State: h.state}, ErrClosed
	}
	if h.state == StateSubmitting {
		h.transition(StateIdle)
	}
	return Outcome{State: h.state}, cause
}

// revert runs on the scheduler. The generation check discards callbacks that
// fired after Close, or after a newer timer replaced them.
func (h *Handler) revert(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || gen != h.generation || h.state != StateSuccess {
		return
	}
	h.timer = nil
	h.transition(StateIdle)
}

// transition must be called with h.mu held.
func (h *Handler) transition(to State) {
	from := h.state
	if !allowedTransition(from, to) {
		h.logger.Error("contact state: illegal transition", zap.Stringer("from", from), zap.Stringer("to", to))
		return
	}
	h.state = to
	h.logger.Debug("contact state", zap.Stringer("from", from), zap.Stringer("to", to))
	for _, observer := range h.observers {
		observer(Transition{From: from, To: to})
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
