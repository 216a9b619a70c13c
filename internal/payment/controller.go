package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

// API is the slice of the backend the controller consumes. All operations
// are idempotent from its point of view except CreatePayment, which must not
// be issued twice for the same still-valid session.
type API interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetTransactionDetails(ctx context.Context, orderID string) (*domain.PaymentSession, error)
	CreatePayment(ctx context.Context, orderID, method string) (*domain.PaymentSession, error)
	GetPaymentStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error)
}

// State is the payment view's lifecycle state.
type State string

const (
	StateInitializing State = "INITIALIZING"
	StatePending      State = "PENDING"
	StateProcessing   State = "PROCESSING"
	StateSuccess      State = "SUCCESS"
	StateFailed       State = "FAILED"
	StateExpired      State = "EXPIRED"
	// StateError is an unrecoverable initialization failure; only a manual
	// Retry leaves it.
	StateError State = "ERROR"
)

// Terminal states are final for the lifetime of the view: no further polling
// or countdown activity happens once one is reached.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateExpired
}

func stateOf(status domain.PaymentStatus) State {
	switch status {
	case domain.PaymentStatusProcessing:
		return StateProcessing
	case domain.PaymentStatusSuccess:
		return StateSuccess
	case domain.PaymentStatusFailed:
		return StateFailed
	case domain.PaymentStatusExpired:
		return StateExpired
	default:
		return StatePending
	}
}

// Snapshot is what the payment view renders.
type Snapshot struct {
	OrderID          string                 `json:"order_id"`
	State            State                  `json:"state"`
	SecondsRemaining int                    `json:"seconds_remaining"`
	Session          *domain.PaymentSession `json:"session,omitempty"`
	Error            string                 `json:"error,omitempty"`
}

const (
	defaultCountdownTick = time.Second
	defaultPollTick      = 10 * time.Second
)

// Controller drives the payment-confirmation flow for one order from
// initialization through a terminal outcome. A single goroutine selects over
// the countdown ticker, the poll ticker, manual refreshes and cancellation,
// so both timers always stop together.
type Controller struct {
	api     API
	log     *logrus.Logger
	orderID string
	method  string

	countdownTick time.Duration
	pollTick      time.Duration

	initGroup singleflight.Group
	refreshCh chan struct{}

	mu          sync.Mutex
	state       State
	session     *domain.PaymentSession
	lastErr     error
	initialized bool
	cancel      context.CancelFunc
}

// Option tweaks controller timing; production uses the defaults.
type Option func(*Controller)

func WithIntervals(countdown, poll time.Duration) Option {
	return func(c *Controller) {
		c.countdownTick = countdown
		c.pollTick = poll
	}
}

func NewController(api API, orderID, method string, log *logrus.Logger, opts ...Option) *Controller {
	c := &Controller{
		api:           api,
		log:           log,
		orderID:       orderID,
		method:        method,
		countdownTick: defaultCountdownTick,
		pollTick:      defaultPollTick,
		refreshCh:     make(chan struct{}, 1),
		state:         StateInitializing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start runs initialization once per controller lifetime. Concurrent calls
// for the same order collapse into a single run and share its result;
// repeated calls after completion are no-ops. Only Retry re-arms it.
func (c *Controller) Start(ctx context.Context) error {
	_, err, _ := c.initGroup.Do(c.orderID, func() (any, error) {
		c.mu.Lock()
		if c.initialized {
			err := c.lastErr
			c.mu.Unlock()
			return nil, err
		}
		c.initialized = true
		c.mu.Unlock()
		return nil, c.initialize(ctx)
	})
	return err
}

func (c *Controller) initialize(ctx context.Context) error {
	order, err := c.api.GetOrder(ctx, c.orderID)
	if err != nil {
		c.failInit(err)
		return err
	}

	// An already-resolved order goes straight to its terminal state; no
	// duplicate payment session is ever created for it.
	if order.Status.Resolved() {
		c.settle(stateOf(order.Status.PaymentOutcome()))
		return nil
	}

	session, err := c.api.GetTransactionDetails(ctx, c.orderID)
	switch {
	case errors.Is(err, upstream.ErrNoPaymentSession):
		session, err = c.api.CreatePayment(ctx, c.orderID, c.method)
		if err != nil {
			c.failInit(err)
			return err
		}
	case err != nil:
		c.failInit(err)
		return err
	case session.Status == domain.PaymentStatusSuccess:
		c.settle(StateSuccess)
		return nil
	case session.Status.IsTerminal() || session.Expired(time.Now()):
		// The existing session is dead; open a replacement.
		session, err = c.api.CreatePayment(ctx, c.orderID, c.method)
		if err != nil {
			c.failInit(err)
			return err
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.session = session
	c.state = stateOf(session.Status)
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(runCtx)
	return nil
}

// run owns both repeating timers. Leaving this loop, for any reason, stops
// them together.
func (c *Controller) run(ctx context.Context) {
	countdown := time.NewTicker(c.countdownTick)
	poll := time.NewTicker(c.pollTick)
	defer countdown.Stop()
	defer poll.Stop()

	for {
		select {
		case <-countdown.C:
			if c.tickCountdown() {
				return
			}
		case <-poll.C:
			if c.pollOnce(ctx) {
				return
			}
		case <-c.refreshCh:
			if c.pollOnce(ctx) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// tickCountdown re-derives the remaining time and forces EXPIRED when the
// deadline passes without a terminal poll result. Reports whether the loop
// should stop.
func (c *Controller) tickCountdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() || c.session == nil {
		return true
	}
	if c.session.Expired(time.Now()) {
		c.state = StateExpired
		c.stopLocked()
		return true
	}
	return false
}

// pollOnce queries payment status. A terminal result immediately overrides
// both timers; poll errors are logged and absorbed because the poll is
// inherently repeated on its own schedule.
func (c *Controller) pollOnce(ctx context.Context) bool {
	status, err := c.api.GetPaymentStatus(ctx, c.orderID)
	if err != nil {
		c.log.WithError(err).WithField("order_id", c.orderID).Warn("payment status poll failed")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Terminal() {
		return true
	}
	next := stateOf(status)
	if next.Terminal() {
		c.state = next
		if c.session != nil {
			c.session.Status = status
		}
		c.stopLocked()
		return true
	}
	// PENDING <-> PROCESSING only affects display, never the timers.
	c.state = next
	return false
}

// Refresh requests an immediate out-of-band poll. No-op when nothing is
// pending.
func (c *Controller) Refresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// Retry resets every guard and re-runs initialization from scratch for the
// same order. Any timers from a previous attempt are cancelled first so none
// leak across re-initialization.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	c.stopLocked()
	c.initialized = false
	c.lastErr = nil
	c.session = nil
	c.state = StateInitializing
	c.mu.Unlock()

	return c.Start(ctx)
}

// Stop tears the controller down (view deactivated). State is left as-is;
// both timers are cancelled.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// stopLocked cancels the timer goroutine. Callers hold c.mu.
func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) settle(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.stopLocked()
}

func (c *Controller) failInit(err error) {
	c.log.WithError(err).WithField("order_id", c.orderID).Error("payment initialization failed")
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateError
	c.lastErr = err
}

// Snapshot returns the render state. The countdown is derived from the
// session expiry at read time; it is display data, never the authority.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		OrderID: c.orderID,
		State:   c.state,
		Session: c.session,
	}
	if c.session != nil && !c.state.Terminal() {
		snap.SecondsRemaining = c.session.SecondsRemaining(time.Now())
	}
	if c.lastErr != nil {
		snap.Error = c.lastErr.Error()
	}
	return snap
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
