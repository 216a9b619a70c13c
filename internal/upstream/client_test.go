package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) {
	return string(s), nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, staticTokens(token), testLogger())
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u-1","name":"Sari","email":"sari@example.com","role":"customer"}`))
	}, "tok-123")

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "Sari", user.Name)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"token":"tok","user":{"id":"u-1"}}`))
	}, "")

	_, err := client.Login(context.Background(), "sari@example.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_BackendErrorMessageSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"promo code is no longer valid"}`))
	}, "tok")

	_, err := client.CreateOrder(context.Background(), CreateOrderRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "promo code is no longer valid", apiErr.Message)
}

func TestClient_MissingTransactionIsNormalBranch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"not found"}`))
	}, "tok")

	_, err := client.GetTransactionDetails(context.Background(), "order-1")
	assert.True(t, errors.Is(err, ErrNoPaymentSession))
}

func TestClient_GetPaymentStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/order-1/status", r.URL.Path)
		w.Write([]byte(`{"status":"SUCCESS"}`))
	}, "tok")

	status, err := client.GetPaymentStatus(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", status.String())
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad request"}`))
	}, "tok")

	// Many more failures than the trip threshold; all are 4xx so the breaker
	// must stay closed and keep returning the backend's message.
	for i := 0; i < 10; i++ {
		_, err := client.GetOrder(context.Background(), "order-1")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}
}
