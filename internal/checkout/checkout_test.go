package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/cart"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/domain"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/storage"
	"github.com/PangeranJJ4321/coffee-shop-app-fix-sub000/internal/upstream"
)

type mockOrderAPI struct {
	order   *domain.Order
	err     error
	lastReq *upstream.CreateOrderRequest
}

func (m *mockOrderAPI) CreateOrder(_ context.Context, req upstream.CreateOrderRequest) (*domain.Order, error) {
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func testCart(t *testing.T) *cart.Store {
	t.Helper()
	st, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return cart.NewStore(context.Background(), st, cart.CartKey("u-1"), log)
}

func TestService_SubmitEmptyCart(t *testing.T) {
	service := NewService(testCart(t), &mockOrderAPI{})

	_, err := service.Submit(context.Background(), "", "")
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestService_SubmitClearsCartOnSuccess(t *testing.T) {
	cartStore := testCart(t)
	ctx := context.Background()
	cartStore.AddItem(ctx, "p-1", domain.ProductSnapshot{Name: "Latte", UnitPrice: 25000},
		[]domain.SelectedOption{{Name: "Large", AdditionalPrice: 5000}}, 2)

	api := &mockOrderAPI{order: &domain.Order{ID: "order-1", Status: domain.OrderStatusPending}}
	service := NewService(cartStore, api)

	order, err := service.Submit(ctx, "KOPI10", "less sugar")
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 0, cartStore.ItemCount())

	require.NotNil(t, api.lastReq)
	require.Len(t, api.lastReq.Items, 1)
	assert.Equal(t, "Latte", api.lastReq.Items[0].Name)
	assert.Equal(t, int64(60000), api.lastReq.Items[0].LineTotal)
	assert.Equal(t, "KOPI10", api.lastReq.PromoCode)
}

func TestService_SubmitFailureLeavesCartUntouched(t *testing.T) {
	cartStore := testCart(t)
	ctx := context.Background()
	cartStore.AddItem(ctx, "p-1", domain.ProductSnapshot{Name: "Latte", UnitPrice: 25000}, nil, 2)

	api := &mockOrderAPI{err: errors.New("backend down")}
	service := NewService(cartStore, api)

	_, err := service.Submit(ctx, "", "")
	require.Error(t, err)
	assert.Equal(t, 1, cartStore.ItemCount())
	assert.Equal(t, int64(50000), cartStore.TotalPrice())
}

func TestService_Estimate(t *testing.T) {
	cartStore := testCart(t)
	ctx := context.Background()
	cartStore.AddItem(ctx, "p-1", domain.ProductSnapshot{Name: "Latte", UnitPrice: 25000}, nil, 4)
	service := NewService(cartStore, &mockOrderAPI{})

	est := service.Estimate("")
	assert.Equal(t, int64(100000), est.Subtotal)
	assert.Equal(t, int64(100000), est.Total)
	assert.True(t, est.PromoValid)

	est = service.Estimate("kopi10")
	assert.Equal(t, int64(10000), est.Discount)
	assert.Equal(t, int64(90000), est.Total)
	assert.True(t, est.PromoValid)

	est = service.Estimate("BOGUS")
	assert.Equal(t, int64(0), est.Discount)
	assert.False(t, est.PromoValid)
}

func TestDiscount_NeverExceedsSubtotal(t *testing.T) {
	d := Discount{Flat: 5000}
	assert.Equal(t, int64(3000), d.Apply(3000))
	assert.Equal(t, int64(5000), d.Apply(20000))
}
