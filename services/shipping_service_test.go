package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"moda-store/libs"
	"moda-store/models"
	"moda-store/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRateClient struct {
	mu      sync.Mutex
	calls   int
	options []models.ShippingOption
	err     error
	gate    chan struct{}
	tagCEP  bool
}

func (m *mockRateClient) FetchRates(_ context.Context, cep string, _ []models.PackageItem) ([]models.ShippingOption, error) {
	m.mu.Lock()
	m.calls++
	options := append([]models.ShippingOption(nil), m.options...)
	err := m.err
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	if m.tagCEP {
		return []models.ShippingOption{{Carrier: cep, Price: 10}}, nil
	}
	return options, nil
}

func (m *mockRateClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockAddressLookup struct {
	addr *models.ShippingAddress
}

func (m *mockAddressLookup) Lookup(context.Context, string) (*models.ShippingAddress, error) {
	return m.addr, nil
}

func cartWith(count int) *models.Cart {
	return &models.Cart{Lines: []models.CartLine{
		{ProductID: 1, Name: "Camiseta", Price: 50, Quantity: count},
	}}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "condition never reached")
		time.Sleep(2 * time.Millisecond)
	}
}

func newTestResolver(client RateClient) *ShippingResolver {
	r := NewShippingResolver(client)
	r.debounce = 20 * time.Millisecond
	return r
}

func TestSetCEP_InvalidGoesIdleWithoutFetch(t *testing.T) {
	client := &mockRateClient{}
	r := newTestResolver(client)

	r.SetCEP("010", cartWith(1))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, ShippingIdle, r.Snapshot().State)
	assert.Equal(t, 0, client.callCount())
}

func TestSetCEP_DebounceCollapsesKeystrokes(t *testing.T) {
	client := &mockRateClient{options: []models.ShippingOption{{Carrier: "Sedex", Price: 25.90}}}
	r := newTestResolver(client)

	// Three complete CEPs inside the quiet window: only the last survives.
	r.SetCEP("01001000", cartWith(1))
	time.Sleep(5 * time.Millisecond)
	r.SetCEP("01001001", cartWith(1))
	time.Sleep(5 * time.Millisecond)
	r.SetCEP("01001002", cartWith(1))

	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })
	assert.Equal(t, 1, client.callCount())
}

func TestSetCEP_RepeatedKeyReusesLoadedOptions(t *testing.T) {
	client := &mockRateClient{options: []models.ShippingOption{{Carrier: "Sedex", Price: 25.90}}}
	r := newTestResolver(client)
	cart := cartWith(1)

	r.SetCEP("01001000", cart)
	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })

	r.SetCEP("01001000", cart)

	assert.Equal(t, ShippingReady, r.Snapshot().State)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, client.callCount())
}

func TestSetCEP_ClearedCEPDropsOptionsAndRequotesOnReentry(t *testing.T) {
	client := &mockRateClient{options: []models.ShippingOption{{Carrier: "Sedex", Price: 25.90}}}
	r := newTestResolver(client)
	cart := cartWith(1)

	r.SetCEP("01001000", cart)
	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })

	r.SetCEP("0100100", cart) // backspace
	assert.Equal(t, ShippingIdle, r.Snapshot().State)
	assert.Empty(t, r.Snapshot().Options)

	r.SetCEP("01001000", cart)
	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })
	assert.Equal(t, 2, client.callCount())
}

func TestFetch_StaleResponseDiscarded(t *testing.T) {
	client := &mockRateClient{tagCEP: true, gate: make(chan struct{})}
	r := newTestResolver(client)
	cart := cartWith(1)

	r.SetCEP("01001000", cart)
	waitFor(t, func() bool { return client.callCount() == 1 })

	// CEP changes while the first request is in flight.
	r.SetCEP("20040020", cart)
	close(client.gate)

	waitFor(t, func() bool {
		snap := r.Snapshot()
		return snap.State == ShippingReady && len(snap.Options) > 0
	})

	snap := r.Snapshot()
	require.Len(t, snap.Options, 1)
	assert.Equal(t, "20040020", snap.Options[0].Carrier)
}

func TestFetch_TimeoutHasDistinctFailure(t *testing.T) {
	client := &mockRateClient{err: libs.ErrRateTimeout}
	r := newTestResolver(client)

	r.SetCEP("01001000", cartWith(1))

	waitFor(t, func() bool { return r.Snapshot().State == ShippingFailed })
	assert.Equal(t, "Shipping quote timed out. Please try again.", r.Snapshot().Failure)
}

func TestSelect_RequiresReadyState(t *testing.T) {
	r := newTestResolver(&mockRateClient{})

	err := r.Select("Sedex", 25.90)
	assert.ErrorIs(t, err, ErrSelectNotReady)
}

func TestSelect_ByCarrierAndPrice(t *testing.T) {
	client := &mockRateClient{options: []models.ShippingOption{
		{Carrier: "PAC", Price: 15.50},
		{Carrier: "Sedex", Price: 25.90},
	}}
	r := newTestResolver(client)

	r.SetCEP("01001000", cartWith(1))
	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })

	assert.ErrorIs(t, r.Select("Sedex", 15.50), ErrUnknownOption)

	require.NoError(t, r.Select("Sedex", 25.90))
	selected := r.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, "Sedex", selected.Carrier)
}

func TestSelection_ClearedWhenCEPChanges(t *testing.T) {
	client := &mockRateClient{options: []models.ShippingOption{{Carrier: "Sedex", Price: 25.90}}}
	r := newTestResolver(client)
	cart := cartWith(1)

	r.SetCEP("01001000", cart)
	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })
	require.NoError(t, r.Select("Sedex", 25.90))

	r.SetCEP("20040020", cart)

	assert.Nil(t, r.Selected())
}

func TestSelection_ClearedWhenCartChanges(t *testing.T) {
	client := &mockRateClient{options: []models.ShippingOption{{Carrier: "Sedex", Price: 25.90}}}
	r := newTestResolver(client)

	r.SetCEP("01001000", cartWith(1))
	waitFor(t, func() bool { return r.Snapshot().State == ShippingReady })
	require.NoError(t, r.Select("Sedex", 25.90))

	r.UpdateCart(cartWith(2))

	assert.Nil(t, r.Selected())
	assert.Equal(t, ShippingDebouncing, r.Snapshot().State)
}

func TestEnterCEP_EnrichesAddressWithoutClobbering(t *testing.T) {
	store := repositories.NewMemorySessionStore()
	lookup := &mockAddressLookup{addr: &models.ShippingAddress{
		Street: "Praça da Sé", Neighborhood: "Sé", City: "São Paulo", State: "SP",
	}}
	svc := NewShippingService(&mockRateClient{}, lookup, store)

	ctx := context.Background()
	require.NoError(t, svc.SaveAddress(ctx, "u1", &models.ShippingAddress{Street: "Rua digitada, 10"}))

	svc.EnterCEP(ctx, "u1", "01001-000", cartWith(1))

	waitFor(t, func() bool {
		addr, _ := svc.GetAddress(ctx, "u1")
		return addr != nil && addr.City != ""
	})

	addr, err := svc.GetAddress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "01001000", addr.CEP)
	assert.Equal(t, "Rua digitada, 10", addr.Street)
	assert.Equal(t, "São Paulo", addr.City)
}

func TestResolverRegistry_PerSession(t *testing.T) {
	svc := NewShippingService(&mockRateClient{}, &mockAddressLookup{}, repositories.NewMemorySessionStore())

	a := svc.Resolver("u1")
	assert.Same(t, a, svc.Resolver("u1"))
	assert.NotSame(t, a, svc.Resolver("u2"))

	svc.Drop("u1")
	assert.NotSame(t, a, svc.Resolver("u1"))
}
