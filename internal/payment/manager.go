package payment

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager keeps at most one controller per order id, mapping the payment
// view lifecycle onto explicit hooks: Watch on activation, Release on
// deactivation.
type Manager struct {
	api  API
	log  *logrus.Logger
	opts []Option

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewManager(api API, log *logrus.Logger, opts ...Option) *Manager {
	return &Manager{
		api:         api,
		log:         log,
		opts:        opts,
		controllers: make(map[string]*Controller),
	}
}

// Watch returns the controller for the order, creating and starting one if
// the view was not already active. Re-activating an order reuses the live
// controller, so a re-render can never spawn a second set of timers.
func (m *Manager) Watch(ctx context.Context, orderID, method string) (*Controller, error) {
	m.mu.Lock()
	ctrl, ok := m.controllers[orderID]
	if !ok {
		ctrl = NewController(m.api, orderID, method, m.log, m.opts...)
		m.controllers[orderID] = ctrl
	}
	m.mu.Unlock()

	err := ctrl.Start(ctx)
	return ctrl, err
}

// Get returns the active controller for an order, if any.
func (m *Manager) Get(orderID string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.controllers[orderID]
	return ctrl, ok
}

// Release stops the order's controller and forgets it (view deactivated or
// flow abandoned).
func (m *Manager) Release(orderID string) {
	m.mu.Lock()
	ctrl, ok := m.controllers[orderID]
	delete(m.controllers, orderID)
	m.mu.Unlock()

	if ok {
		ctrl.Stop()
	}
}

// Shutdown stops every active controller.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	controllers := make([]*Controller, 0, len(m.controllers))
	for _, ctrl := range m.controllers {
		controllers = append(controllers, ctrl)
	}
	m.controllers = make(map[string]*Controller)
	m.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Stop()
	}
}
