package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"moda-store/libs"
	"moda-store/models"
	"moda-store/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mu       sync.Mutex
	requests []models.PaymentRequest
	result   *models.PaymentResult
	err      error
	gate     chan struct{}
}

func (m *mockGateway) Submit(_ context.Context, req *models.PaymentRequest) (*models.PaymentResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	result := m.result
	err := m.err
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *mockGateway) seen() []models.PaymentRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PaymentRequest(nil), m.requests...)
}

type mockOrderWriter struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (m *mockOrderWriter) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	order.ID = len(m.orders) + 1
	m.orders = append(m.orders, *order)
	return nil
}

type checkoutFixture struct {
	checkout *CheckoutService
	cart     *CartService
	shipping *ShippingService
	gateway  *mockGateway
	orders   *mockOrderWriter
}

func newCheckoutFixture() *checkoutFixture {
	store := repositories.NewMemorySessionStore()
	cart := NewCartService(store, NewInventoryService())
	shipping := NewShippingService(&mockRateClient{}, &mockAddressLookup{}, store)
	gateway := &mockGateway{result: &models.PaymentResult{ReceiptID: "rcpt-1"}}
	orders := &mockOrderWriter{}

	return &checkoutFixture{
		checkout: NewCheckoutService(cart, shipping, orders, gateway, nil, nil),
		cart:     cart,
		shipping: shipping,
		gateway:  gateway,
		orders:   orders,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T, key string) {
	t.Helper()
	ctx := context.Background()
	camiseta := stockedProduct(1, "Camiseta", 50.00)

	_, err := f.cart.AddLine(ctx, key, camiseta, strPtr("M"), strPtr("preto"))
	require.NoError(t, err)
	_, err = f.cart.AddLine(ctx, key, camiseta, strPtr("M"), strPtr("preto"))
	require.NoError(t, err)
}

func (f *checkoutFixture) forceShippingSelected(t *testing.T, key string) {
	t.Helper()
	r := f.shipping.Resolver(key)
	r.mu.Lock()
	r.state = ShippingReady
	r.options = []models.ShippingOption{{Carrier: "Sedex", Price: 25.90}}
	r.mu.Unlock()
	require.NoError(t, r.Select("Sedex", 25.90))
}

func fullAddress() models.ShippingAddress {
	return models.ShippingAddress{
		CEP:    "01001-000",
		Street: "Praça da Sé, 100",
		City:   "São Paulo",
		State:  "SP",
	}
}

// Walks a session up to the point where a payment method can be chosen.
func (f *checkoutFixture) reachMethodChoice(t *testing.T, key string, addr models.ShippingAddress) *CheckoutSession {
	t.Helper()
	ctx := context.Background()

	f.fillCart(t, key)
	_, err := f.checkout.Begin(ctx, 1, key)
	require.NoError(t, err)

	_, err = f.checkout.ConfirmAddress(ctx, key, addr)
	require.NoError(t, err)

	f.forceShippingSelected(t, key)
	session, err := f.checkout.AttachShipping(ctx, key)
	require.NoError(t, err)
	require.Equal(t, CheckoutShippingSelected, session.State)
	return session
}

func TestBegin_EmptyCartAborts(t *testing.T) {
	f := newCheckoutFixture()

	session, err := f.checkout.Begin(context.Background(), 1, "u1")
	require.NoError(t, err)

	assert.Equal(t, CheckoutCartEmpty, session.State)
}

func TestConfirmAddress_RejectsInvalidCEP(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart(t, "u1")
	_, err := f.checkout.Begin(context.Background(), 1, "u1")
	require.NoError(t, err)

	session, err := f.checkout.ConfirmAddress(context.Background(), "u1", models.ShippingAddress{CEP: "010"})

	assert.ErrorIs(t, err, ErrInvalidCEP)
	assert.Equal(t, CheckoutEnteringAddress, session.State)
}

func TestConfirmAddress_NewCEPInvalidatesQuotedSelection(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.fillCart(t, "u1")
	_, err := f.checkout.Begin(ctx, 1, "u1")
	require.NoError(t, err)

	_, err = f.checkout.ConfirmAddress(ctx, "u1", fullAddress())
	require.NoError(t, err)
	f.forceShippingSelected(t, "u1")

	// Confirming a different CEP re-keys the resolver; the rate quoted for
	// the old CEP must not attach.
	moved := fullAddress()
	moved.CEP = "20040-020"
	_, err = f.checkout.ConfirmAddress(ctx, "u1", moved)
	require.NoError(t, err)

	session, err := f.checkout.AttachShipping(ctx, "u1")
	assert.ErrorIs(t, err, ErrShippingNotSelected)
	assert.Nil(t, session.Shipping)
	assert.Nil(t, f.shipping.Resolver("u1").Selected())
}

func TestAttachShipping_RefusesQuoteKeyedByOtherCEP(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.fillCart(t, "u1")
	_, err := f.checkout.Begin(ctx, 1, "u1")
	require.NoError(t, err)
	_, err = f.checkout.ConfirmAddress(ctx, "u1", fullAddress())
	require.NoError(t, err)
	f.forceShippingSelected(t, "u1")

	session, err := f.checkout.Session("u1")
	require.NoError(t, err)
	f.checkout.mu.Lock()
	session.Address.CEP = "20040020"
	f.checkout.mu.Unlock()

	_, err = f.checkout.AttachShipping(ctx, "u1")
	assert.ErrorIs(t, err, ErrShippingNotSelected)
}

func TestChooseMethod_SilentNoOpWithoutValidCEP(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart(t, "u1")
	ctx := context.Background()
	_, err := f.checkout.Begin(ctx, 1, "u1")
	require.NoError(t, err)

	session, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentPix)

	assert.NoError(t, err)
	assert.Equal(t, CheckoutEnteringAddress, session.State)
	assert.Empty(t, session.Method)
}

func TestChooseMethod_RequiresSelectedShipping(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart(t, "u1")
	ctx := context.Background()
	_, err := f.checkout.Begin(ctx, 1, "u1")
	require.NoError(t, err)
	_, err = f.checkout.ConfirmAddress(ctx, "u1", fullAddress())
	require.NoError(t, err)

	_, err = f.checkout.ChooseMethod(ctx, "u1", models.PaymentPix)

	assert.ErrorIs(t, err, ErrShippingNotSelected)
}

func TestChooseMethod_BoletoNeedsStreetAndCity(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.reachMethodChoice(t, "u1", models.ShippingAddress{CEP: "01001000"})

	_, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentBoleto)
	assert.ErrorIs(t, err, ErrBoletoAddressIncomplete)

	// Card and Pix have no such requirement.
	session, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentCreditCard)
	require.NoError(t, err)
	assert.Equal(t, CheckoutCardFlow, session.State)
}

func TestChooseMethod_BranchesPerMethod(t *testing.T) {
	cases := []struct {
		method models.PaymentMethod
		state  CheckoutState
	}{
		{models.PaymentCreditCard, CheckoutCardFlow},
		{models.PaymentPix, CheckoutPixFlow},
		{models.PaymentBoleto, CheckoutBoletoFlow},
	}

	ctx := context.Background()
	for _, tc := range cases {
		f := newCheckoutFixture()
		f.reachMethodChoice(t, "u1", fullAddress())

		session, err := f.checkout.ChooseMethod(ctx, "u1", tc.method)
		require.NoError(t, err)
		assert.Equal(t, tc.state, session.State)
	}
}

func TestSubmit_SuccessPersistsOrderAndClearsCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.reachMethodChoice(t, "u1", fullAddress())
	_, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentPix)
	require.NoError(t, err)

	session, err := f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{PayerName: "Ana", PayerDocument: "12345678900"})
	require.NoError(t, err)

	assert.Equal(t, CheckoutSucceeded, session.State)
	assert.NotEmpty(t, session.OrderNumber)
	assert.Equal(t, "rcpt-1", session.Result.ReceiptID)

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, 100.00, order.Subtotal)
	assert.Equal(t, 25.90, order.ShippingCost)
	assert.InDelta(t, 125.90, order.Total, 0.001)
	assert.Equal(t, "pix", order.PaymentMethod)

	cart, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	// The session does not outlive success.
	_, err = f.checkout.Session("u1")
	assert.ErrorIs(t, err, ErrNoCheckoutSession)
}

func TestSubmit_DeclineReturnsToMethodChoiceWithCartIntact(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.gateway.err = fmt.Errorf("payment declined: %w", libs.ErrPaymentDeclined)

	f.reachMethodChoice(t, "u1", fullAddress())
	_, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentCreditCard)
	require.NoError(t, err)

	session, err := f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{CardToken: "tok-1"})

	assert.ErrorIs(t, err, libs.ErrPaymentDeclined)
	assert.Equal(t, CheckoutChoosingPayment, session.State)
	assert.NotEmpty(t, session.FailureReason)
	assert.Empty(t, f.orders.orders)

	cart, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Count())
}

func TestSubmit_RetryReusesIdempotencyKey(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.gateway.err = fmt.Errorf("payment declined: %w", libs.ErrPaymentDeclined)

	f.reachMethodChoice(t, "u1", fullAddress())
	_, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentCreditCard)
	require.NoError(t, err)

	_, err = f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{CardToken: "tok-1"})
	require.Error(t, err)

	f.gateway.mu.Lock()
	f.gateway.err = nil
	f.gateway.mu.Unlock()

	_, err = f.checkout.ChooseMethod(ctx, "u1", models.PaymentCreditCard)
	require.NoError(t, err)
	_, err = f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{CardToken: "tok-1"})
	require.NoError(t, err)

	seen := f.gateway.seen()
	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0].IdempotencyKey)
	assert.Equal(t, seen[0].IdempotencyKey, seen[1].IdempotencyKey)
}

func TestSubmit_OnlyOneOutstandingSubmission(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.gateway.gate = make(chan struct{})

	f.reachMethodChoice(t, "u1", fullAddress())
	_, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentPix)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{})
		done <- err
	}()

	waitFor(t, func() bool { return len(f.gateway.seen()) == 1 })

	_, err = f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(f.gateway.gate)
	require.NoError(t, <-done)
}

func TestSubmit_CartEmptiedMidCheckoutAborts(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	f.reachMethodChoice(t, "u1", fullAddress())
	_, err := f.checkout.ChooseMethod(ctx, "u1", models.PaymentPix)
	require.NoError(t, err)

	// The cart endpoints stay live while a checkout is open.
	_, err = f.cart.RemoveLine(ctx, "u1", 1)
	require.NoError(t, err)

	session, err := f.checkout.Submit(ctx, "u1", models.SubmitPaymentRequest{})

	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, CheckoutCartEmpty, session.State)
	assert.Empty(t, f.gateway.seen())
	assert.Empty(t, f.orders.orders)

	_, err = f.checkout.Session("u1")
	assert.ErrorIs(t, err, ErrNoCheckoutSession)
}

func TestSubmit_RequiresChosenMethod(t *testing.T) {
	f := newCheckoutFixture()
	f.reachMethodChoice(t, "u1", fullAddress())

	_, err := f.checkout.Submit(context.Background(), "u1", models.SubmitPaymentRequest{})
	assert.ErrorIs(t, err, ErrPaymentMethodNotSelected)
}

func TestAbandon_DestroysSession(t *testing.T) {
	f := newCheckoutFixture()
	f.fillCart(t, "u1")
	_, err := f.checkout.Begin(context.Background(), 1, "u1")
	require.NoError(t, err)

	f.checkout.Abandon("u1")

	_, err = f.checkout.Session("u1")
	assert.ErrorIs(t, err, ErrNoCheckoutSession)
}
