package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"moda-store/libs"
	"moda-store/models"
	"moda-store/repositories"
	"moda-store/utils"
)

type ShippingState string

const (
	ShippingIdle       ShippingState = "idle"
	ShippingDebouncing ShippingState = "debouncing"
	ShippingFetching   ShippingState = "fetching"
	ShippingReady      ShippingState = "ready"
	ShippingFailed     ShippingState = "failed"
)

const shippingDebounce = 400 * time.Millisecond

// Garment parcel profile sent per cart line. The catalog carries no
// physical dimensions, so every line quotes as one flat apparel parcel with
// the line price as declared value.
const (
	parcelWidthCM  = 30.0
	parcelHeightCM = 5.0
	parcelLengthCM = 40.0
	parcelWeightKG = 0.3
)

var (
	ErrNoOptions      = errors.New("no shipping options loaded")
	ErrUnknownOption  = errors.New("shipping option not found")
	ErrSelectNotReady = errors.New("shipping options not ready")
)

// RateClient is the carrier API surface the resolver fetches from.
type RateClient interface {
	FetchRates(ctx context.Context, cep string, items []models.PackageItem) ([]models.ShippingOption, error)
}

// AddressLookup resolves a CEP to street data, best effort.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (*models.ShippingAddress, error)
}

// quoteKey is the compound identity of one quote: the same CEP with a
// different cart item count is a different quote.
type quoteKey struct {
	cep       string
	itemCount int
}

// ShippingResolver drives one session's quote lifecycle:
// idle -> debouncing -> fetching -> ready | failed. A fetch only starts
// after 400ms of CEP input silence, and only when the (cep, item count)
// pair differs from the last successful query. Responses that resolve after
// the key moved on are discarded.
type ShippingResolver struct {
	mu       sync.Mutex
	client   RateClient
	timer    *utils.CancelableTimer
	debounce time.Duration

	state       ShippingState
	key         quoteKey
	lines       []models.CartLine
	lastQueried *quoteKey
	options     []models.ShippingOption
	selected    *models.ShippingOption
	failure     string
}

func NewShippingResolver(client RateClient) *ShippingResolver {
	return &ShippingResolver{
		client:   client,
		timer:    utils.NewCancelableTimer(),
		debounce: shippingDebounce,
		state:    ShippingIdle,
	}
}

// SetCEP records a CEP keystroke together with the current cart. Any change
// to the compound key clears the selected option before new rates can
// arrive; a selection must never outlive its inputs.
func (r *ShippingResolver) SetCEP(rawCEP string, cart *models.Cart) {
	cep := utils.NormalizeCEP(rawCEP)

	r.mu.Lock()
	defer r.mu.Unlock()

	next := quoteKey{cep: cep, itemCount: cart.Count()}
	if next != r.key {
		r.selected = nil
	}
	r.key = next
	r.lines = append([]models.CartLine(nil), cart.Lines...)

	if len(cep) != 8 {
		r.timer.Cancel()
		r.state = ShippingIdle
		r.options = nil
		return
	}

	if r.lastQueried != nil && *r.lastQueried == next && len(r.options) > 0 {
		r.state = ShippingReady
		return
	}

	r.state = ShippingDebouncing
	key := next
	lines := r.lines
	r.timer.Start(r.debounce, func() {
		r.fetch(key, lines)
	})
}

// UpdateCart re-keys the resolver after a cart mutation. A changed item
// count invalidates the selection and, with a valid CEP, re-arms the fetch.
func (r *ShippingResolver) UpdateCart(cart *models.Cart) {
	r.mu.Lock()
	cep := r.key.cep
	r.mu.Unlock()
	r.SetCEP(cep, cart)
}

func (r *ShippingResolver) fetch(key quoteKey, lines []models.CartLine) {
	r.mu.Lock()
	if key != r.key {
		// The input moved on while this timer was pending.
		r.mu.Unlock()
		return
	}
	r.state = ShippingFetching
	r.mu.Unlock()

	items := packageItems(lines)
	options, err := r.client.FetchRates(context.Background(), key.cep, items)

	r.mu.Lock()
	defer r.mu.Unlock()

	if key != r.key {
		// Stale response: the CEP or the cart changed while in flight.
		return
	}

	if err != nil {
		r.state = ShippingFailed
		r.options = nil
		if errors.Is(err, libs.ErrRateTimeout) {
			r.failure = "Shipping quote timed out. Please try again."
		} else {
			r.failure = "Could not fetch shipping rates. Please try again."
		}
		log.Printf("shipping rate fetch error for %s: %v", utils.MaskCEP(key.cep), err)
		return
	}

	queried := key
	r.lastQueried = &queried
	r.state = ShippingReady
	r.options = options
	r.failure = ""
}

func packageItems(lines []models.CartLine) []models.PackageItem {
	items := make([]models.PackageItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.PackageItem{
			Width:         parcelWidthCM,
			Height:        parcelHeightCM,
			Length:        parcelLengthCM,
			Weight:        parcelWeightKG,
			Quantity:      l.Quantity,
			DeclaredValue: l.Price,
		})
	}
	return items
}

// Select picks an option by its (carrier, price) identity.
func (r *ShippingResolver) Select(carrier string, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != ShippingReady {
		return ErrSelectNotReady
	}
	if len(r.options) == 0 {
		return ErrNoOptions
	}
	for i := range r.options {
		if r.options[i].Carrier == carrier && r.options[i].Price == price {
			selected := r.options[i]
			r.selected = &selected
			return nil
		}
	}
	return ErrUnknownOption
}

func (r *ShippingResolver) Selected() *models.ShippingOption {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected == nil {
		return nil
	}
	selected := *r.selected
	return &selected
}

// ResolverSnapshot is the resolver state a handler can render.
type ResolverSnapshot struct {
	State    ShippingState           `json:"state"`
	CEP      string                  `json:"cep"`
	Options  []models.ShippingOption `json:"options"`
	Selected *models.ShippingOption  `json:"selected,omitempty"`
	Failure  string                  `json:"failure,omitempty"`
}

func (r *ShippingResolver) Snapshot() ResolverSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := ResolverSnapshot{
		State:   r.state,
		CEP:     utils.MaskCEP(r.key.cep),
		Options: append([]models.ShippingOption(nil), r.options...),
		Failure: r.failure,
	}
	if r.selected != nil {
		selected := *r.selected
		snap.Selected = &selected
	}
	return snap
}

func (r *ShippingResolver) ValidCEP() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.key.cep) == 8
}

func (r *ShippingResolver) CEP() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.key.cep
}

// ShippingService keys one resolver per session and owns the persisted
// shipping address slot.
type ShippingService struct {
	mu        sync.Mutex
	client    RateClient
	lookup    AddressLookup
	store     repositories.SessionStore
	resolvers map[string]*ShippingResolver
}

func NewShippingService(client RateClient, lookup AddressLookup, store repositories.SessionStore) *ShippingService {
	return &ShippingService{
		client:    client,
		lookup:    lookup,
		store:     store,
		resolvers: map[string]*ShippingResolver{},
	}
}

func (s *ShippingService) Resolver(key string) *ShippingResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolver, ok := s.resolvers[key]
	if !ok {
		resolver = NewShippingResolver(s.client)
		s.resolvers[key] = resolver
	}
	return resolver
}

// EnterCEP feeds a CEP keystroke into the session resolver, persists it on
// the stored address and kicks off the best-effort street enrichment.
func (s *ShippingService) EnterCEP(ctx context.Context, key, rawCEP string, cart *models.Cart) ResolverSnapshot {
	resolver := s.Resolver(key)
	resolver.SetCEP(rawCEP, cart)

	cep := utils.NormalizeCEP(rawCEP)
	if len(cep) == 8 {
		go s.enrichAddress(key, cep)
	}
	return resolver.Snapshot()
}

// enrichAddress fills street fields from the CEP lookup without clobbering
// anything the user already typed. Lookup failures are swallowed; the
// address stays hand-editable.
func (s *ShippingService) enrichAddress(key, cep string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	found, err := s.lookup.Lookup(ctx, cep)
	if err != nil || found == nil {
		return
	}

	addr, err := s.store.LoadAddress(ctx, key)
	if err != nil || addr == nil {
		addr = &models.ShippingAddress{}
	}

	addr.CEP = cep
	if addr.Street == "" {
		addr.Street = found.Street
	}
	if addr.Neighborhood == "" {
		addr.Neighborhood = found.Neighborhood
	}
	if addr.City == "" {
		addr.City = found.City
	}
	if addr.State == "" {
		addr.State = found.State
	}

	if err := s.store.SaveAddress(ctx, key, addr); err != nil {
		log.Printf("address enrichment save error: %v", err)
	}
}

func (s *ShippingService) GetAddress(ctx context.Context, key string) (*models.ShippingAddress, error) {
	return s.store.LoadAddress(ctx, key)
}

func (s *ShippingService) SaveAddress(ctx context.Context, key string, addr *models.ShippingAddress) error {
	addr.CEP = utils.NormalizeCEP(addr.CEP)
	return s.store.SaveAddress(ctx, key, addr)
}

func (s *ShippingService) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resolvers, key)
}
