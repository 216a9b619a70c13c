package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

// mockAPI implements API for testing.
type mockAPI struct {
	mu sync.Mutex

	order    *domain.Order
	orderErr error

	session    *domain.PaymentSession
	sessionErr error

	created   *domain.PaymentSession
	createErr error

	status    domain.PaymentStatus
	statusErr error

	createCalls int
	statusCalls int
}

func (m *mockAPI) GetOrder(context.Context, string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	return m.order, nil
}

func (m *mockAPI) GetTransactionDetails(context.Context, string) (*domain.PaymentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockAPI) CreatePayment(context.Context, string, string) (*domain.PaymentSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

func (m *mockAPI) GetPaymentStatus(context.Context, string) (domain.PaymentStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	if m.statusErr != nil {
		return "", m.statusErr
	}
	return m.status, nil
}

func (m *mockAPI) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *mockAPI) StatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusCalls
}

func (m *mockAPI) SetStatus(status domain.PaymentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func pendingOrder() *domain.Order {
	return &domain.Order{ID: "order-1", Status: domain.OrderStatusPending, TotalAmount: 60000}
}

func freshSession(expiry time.Duration) *domain.PaymentSession {
	return &domain.PaymentSession{
		OrderID:    "order-1",
		Status:     domain.PaymentStatusPending,
		Method:     "qris",
		QRPayload:  "00020101021226...",
		ExpiryTime: time.Now().Add(expiry),
	}
}

func fastIntervals() Option {
	return WithIntervals(5*time.Millisecond, 5*time.Millisecond)
}

func TestController_ConcurrentStartCreatesOneSession(t *testing.T) {
	api := &mockAPI{
		order:      pendingOrder(),
		sessionErr: upstream.ErrNoPaymentSession,
		created:    freshSession(time.Hour),
		status:     domain.PaymentStatusPending,
	}
	ctrl := NewController(api, "order-1", "qris", testLogger(), WithIntervals(time.Hour, time.Hour))
	defer ctrl.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, ctrl.Start(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, api.CreateCalls())
	assert.Equal(t, StatePending, ctrl.State())

	// a later duplicate activation is a no-op too
	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, 1, api.CreateCalls())
}

func TestController_ResolvedOrderShortCircuits(t *testing.T) {
	paid := pendingOrder()
	paid.Status = domain.OrderStatusPaid
	api := &mockAPI{order: paid}

	ctrl := NewController(api, "order-1", "qris", testLogger(), fastIntervals())
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, StateSuccess, ctrl.State())
	assert.Equal(t, 0, api.CreateCalls(), "resolved orders never get a new payment session")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, api.StatusCalls(), "no polling after a terminal short-circuit")
}

func TestController_ReusesLiveSession(t *testing.T) {
	api := &mockAPI{
		order:   pendingOrder(),
		session: freshSession(time.Hour),
		status:  domain.PaymentStatusPending,
	}
	ctrl := NewController(api, "order-1", "qris", testLogger(), WithIntervals(time.Hour, time.Hour))
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, 0, api.CreateCalls())
	assert.Equal(t, StatePending, ctrl.State())

	snap := ctrl.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, "00020101021226...", snap.Session.QRPayload)
	assert.Greater(t, snap.SecondsRemaining, 3500)
}

func TestController_ReplacesDeadSession(t *testing.T) {
	dead := freshSession(time.Hour)
	dead.Status = domain.PaymentStatusExpired
	api := &mockAPI{
		order:   pendingOrder(),
		session: dead,
		created: freshSession(time.Hour),
		status:  domain.PaymentStatusPending,
	}
	ctrl := NewController(api, "order-1", "qris", testLogger(), WithIntervals(time.Hour, time.Hour))
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, 1, api.CreateCalls())
	assert.Equal(t, StatePending, ctrl.State())
}

func TestController_TerminalSuccessSessionSettlesImmediately(t *testing.T) {
	settled := freshSession(time.Hour)
	settled.Status = domain.PaymentStatusSuccess
	api := &mockAPI{order: pendingOrder(), session: settled}

	ctrl := NewController(api, "order-1", "qris", testLogger(), fastIntervals())
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, StateSuccess, ctrl.State())
	assert.Equal(t, 0, api.CreateCalls())
}

func TestController_PollSuccessOverridesCountdown(t *testing.T) {
	api := &mockAPI{
		order:      pendingOrder(),
		sessionErr: upstream.ErrNoPaymentSession,
		created:    freshSession(time.Hour),
		status:     domain.PaymentStatusSuccess,
	}
	ctrl := NewController(api, "order-1", "qris", testLogger(), fastIntervals())
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))

	require.Eventually(t, func() bool {
		return ctrl.State() == StateSuccess
	}, 2*time.Second, 10*time.Millisecond)

	// both timers must be dead: the poll counter stops moving
	settledCalls := api.StatusCalls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settledCalls, api.StatusCalls())
}

func TestController_CountdownExpiryForcesExpired(t *testing.T) {
	api := &mockAPI{
		order:   pendingOrder(),
		session: freshSession(40 * time.Millisecond),
		status:  domain.PaymentStatusPending,
	}
	// Polling keeps answering PENDING; the local deadline must win.
	ctrl := NewController(api, "order-1", "qris", testLogger(), WithIntervals(5*time.Millisecond, 5*time.Millisecond))
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))

	require.Eventually(t, func() bool {
		return ctrl.State() == StateExpired
	}, 2*time.Second, 10*time.Millisecond)

	settledCalls := api.StatusCalls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settledCalls, api.StatusCalls(), "polling stopped on expiry")
}

func TestController_ProcessingIsDisplayedButKeepsPolling(t *testing.T) {
	api := &mockAPI{
		order:   pendingOrder(),
		session: freshSession(time.Hour),
		status:  domain.PaymentStatusProcessing,
	}
	ctrl := NewController(api, "order-1", "qris", testLogger(), fastIntervals())
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))

	require.Eventually(t, func() bool {
		return ctrl.State() == StateProcessing
	}, 2*time.Second, 10*time.Millisecond)

	api.SetStatus(domain.PaymentStatusSuccess)
	require.Eventually(t, func() bool {
		return ctrl.State() == StateSuccess
	}, 2*time.Second, 10*time.Millisecond)
}

func TestController_ManualRefreshPollsOutOfBand(t *testing.T) {
	api := &mockAPI{
		order:   pendingOrder(),
		session: freshSession(time.Hour),
		status:  domain.PaymentStatusSuccess,
	}
	// Scheduled timers far in the future; only the manual refresh can poll.
	ctrl := NewController(api, "order-1", "qris", testLogger(), WithIntervals(time.Hour, time.Hour))
	defer ctrl.Stop()

	require.NoError(t, ctrl.Start(context.Background()))
	assert.Equal(t, 0, api.StatusCalls())

	ctrl.Refresh()
	require.Eventually(t, func() bool {
		return ctrl.State() == StateSuccess
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, api.StatusCalls())
}

func TestController_RetryResetsGuardsAndReinitializes(t *testing.T) {
	api := &mockAPI{
		orderErr:   errors.New("backend unreachable"),
		sessionErr: upstream.ErrNoPaymentSession,
		created:    freshSession(time.Hour),
		status:     domain.PaymentStatusPending,
	}
	ctrl := NewController(api, "order-1", "qris", testLogger(), WithIntervals(time.Hour, time.Hour))
	defer ctrl.Stop()

	err := ctrl.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, ctrl.State())
	assert.NotEmpty(t, ctrl.Snapshot().Error)

	// starting again without a retry must not re-run initialization
	errAgain := ctrl.Start(context.Background())
	require.Error(t, errAgain)

	api.mu.Lock()
	api.order = pendingOrder()
	api.orderErr = nil
	api.mu.Unlock()

	require.NoError(t, ctrl.Retry(context.Background()))
	assert.Equal(t, StatePending, ctrl.State())
	assert.Equal(t, 1, api.CreateCalls())
	assert.Empty(t, ctrl.Snapshot().Error)
}

func TestManager_WatchReusesControllerPerOrder(t *testing.T) {
	api := &mockAPI{
		order:      pendingOrder(),
		sessionErr: upstream.ErrNoPaymentSession,
		created:    freshSession(time.Hour),
		status:     domain.PaymentStatusPending,
	}
	manager := NewManager(api, testLogger(), WithIntervals(time.Hour, time.Hour))
	defer manager.Shutdown()

	first, err := manager.Watch(context.Background(), "order-1", "qris")
	require.NoError(t, err)
	second, err := manager.Watch(context.Background(), "order-1", "qris")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, api.CreateCalls())
}

func TestManager_ReleaseStopsAndForgets(t *testing.T) {
	api := &mockAPI{
		order:   pendingOrder(),
		session: freshSession(time.Hour),
		status:  domain.PaymentStatusPending,
	}
	manager := NewManager(api, testLogger(), fastIntervals())
	defer manager.Shutdown()

	_, err := manager.Watch(context.Background(), "order-1", "qris")
	require.NoError(t, err)

	manager.Release("order-1")
	_, ok := manager.Get("order-1")
	assert.False(t, ok)

	// timers are cancelled: the poll counter stops moving
	time.Sleep(20 * time.Millisecond)
	settledCalls := api.StatusCalls()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settledCalls, api.StatusCalls())
}
