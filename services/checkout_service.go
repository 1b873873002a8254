package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"moda-store/libs"
	"moda-store/models"
	"moda-store/repositories"
	"moda-store/utils"

	"github.com/google/uuid"
)

type CheckoutState string

const (
	CheckoutEnteringAddress  CheckoutState = "entering_address"
	CheckoutAwaitingQuote    CheckoutState = "awaiting_shipping_quote"
	CheckoutShippingSelected CheckoutState = "shipping_selected"
	CheckoutChoosingPayment  CheckoutState = "choosing_payment_method"
	CheckoutCardFlow         CheckoutState = "credit_card_flow"
	CheckoutPixFlow          CheckoutState = "pix_flow"
	CheckoutBoletoFlow       CheckoutState = "boleto_flow"
	CheckoutSubmitting       CheckoutState = "submitting"
	CheckoutSucceeded        CheckoutState = "succeeded"
	CheckoutCartEmpty        CheckoutState = "cart_empty"
)

var (
	ErrNoCheckoutSession        = errors.New("no checkout session")
	ErrCartEmpty                = errors.New("cart is empty")
	ErrInvalidCEP               = errors.New("postal code must have 8 digits")
	ErrShippingNotSelected      = errors.New("no shipping option selected")
	ErrBoletoAddressIncomplete  = errors.New("boleto requires postal code, street and city")
	ErrSubmissionInFlight       = errors.New("a payment submission is already in flight")
	ErrPaymentMethodNotSelected = errors.New("no payment method selected")
)

// PaymentGateway submits a payment and returns its method-specific result.
type PaymentGateway interface {
	Submit(ctx context.Context, req *models.PaymentRequest) (*models.PaymentResult, error)
}

// OrderWriter records a successful checkout.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

// CheckoutSession is the transient state of one checkout run. It is never
// persisted: navigating away or reaching a terminal state destroys it.
type CheckoutSession struct {
	UserID         int
	Key            string
	Cart           models.Cart
	Address        models.ShippingAddress
	Shipping       *models.ShippingOption
	Method         models.PaymentMethod
	State          CheckoutState
	FailureReason  string
	IdempotencyKey string
	OrderNumber    string
	Result         *models.PaymentResult

	submitting bool
	cleared    bool
}

// CheckoutService sequences address confirmation, shipping selection,
// payment-method choice and submission for each session, with the failure
// semantics the storefront depends on: a declined payment never touches the
// cart, and success clears it exactly once.
type CheckoutService struct {
	mu       sync.Mutex
	sessions map[string]*CheckoutSession

	cart     *CartService
	shipping *ShippingService
	orders   OrderWriter
	gateway  PaymentGateway
	users    *repositories.UserRepository
	email    *models.EmailService
}

func NewCheckoutService(cart *CartService, shipping *ShippingService, orders OrderWriter, gateway PaymentGateway, users *repositories.UserRepository, email *models.EmailService) *CheckoutService {
	return &CheckoutService{
		sessions: map[string]*CheckoutSession{},
		cart:     cart,
		shipping: shipping,
		orders:   orders,
		gateway:  gateway,
		users:    users,
		email:    email,
	}
}

// Begin snapshots the cart and opens a session. An empty cart aborts to the
// empty-cart terminal state immediately.
func (s *CheckoutService) Begin(ctx context.Context, userID int, key string) (*CheckoutSession, error) {
	cart, err := s.cart.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	session := &CheckoutSession{
		UserID:         userID,
		Key:            key,
		Cart:           *cart,
		State:          CheckoutEnteringAddress,
		IdempotencyKey: uuid.NewString(),
	}

	// Terminal states are never registered; the session dies with the reply.
	if cart.Count() == 0 {
		session.State = CheckoutCartEmpty
		return session, nil
	}

	if addr, err := s.shipping.GetAddress(ctx, key); err == nil && addr != nil {
		session.Address = *addr
	}

	s.mu.Lock()
	s.sessions[key] = session
	s.mu.Unlock()
	return session, nil
}

func (s *CheckoutService) Session(key string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrNoCheckoutSession
	}
	return session, nil
}

// Abandon destroys the session, e.g. when the user navigates away.
func (s *CheckoutService) Abandon(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// abortToCartEmpty refreshes the snapshot from the live cart and aborts
// when it has gone empty, e.g. emptied through the cart endpoints while the
// checkout was open. The session moves to the empty-cart terminal state and
// is unregistered. Callers must hold s.mu; an outstanding submission is
// never aborted from under itself.
func (s *CheckoutService) abortToCartEmpty(ctx context.Context, session *CheckoutSession) bool {
	if session.submitting {
		return false
	}
	if cart, err := s.cart.Get(ctx, session.Key); err == nil {
		session.Cart = *cart
	}
	if session.Cart.Count() > 0 {
		return false
	}
	session.State = CheckoutCartEmpty
	delete(s.sessions, session.Key)
	return true
}

// ConfirmAddress stores the address and advances to the shipping quote. The
// only hard requirement here is a syntactically valid CEP; street and city
// may be filled later or stay blank for carriers that allow it.
func (s *CheckoutService) ConfirmAddress(ctx context.Context, key string, addr models.ShippingAddress) (*CheckoutSession, error) {
	session, err := s.Session(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abortToCartEmpty(ctx, session) {
		return session, ErrCartEmpty
	}

	if !utils.IsValidCEP(addr.CEP) {
		return session, ErrInvalidCEP
	}
	addr.CEP = utils.NormalizeCEP(addr.CEP)

	if err := s.shipping.SaveAddress(ctx, key, &addr); err != nil {
		log.Printf("checkout address save error: %v", err)
	}

	session.Address = addr

	// Re-key the session resolver to the confirmed CEP. A quote or selection
	// made for a previous CEP must never survive the address change.
	s.shipping.Resolver(key).SetCEP(addr.CEP, &session.Cart)

	session.State = CheckoutAwaitingQuote
	return session, nil
}

// AttachShipping pulls the option the resolver has selected into the
// session and advances to payment-method choice. A selection only counts
// when its quote was keyed by the confirmed address CEP.
func (s *CheckoutService) AttachShipping(ctx context.Context, key string) (*CheckoutSession, error) {
	session, err := s.Session(key)
	if err != nil {
		return nil, err
	}

	resolver := s.shipping.Resolver(key)
	selected := resolver.Selected()
	quotedCEP := resolver.CEP()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abortToCartEmpty(ctx, session) {
		return session, ErrCartEmpty
	}
	if selected == nil || quotedCEP != session.Address.CEP {
		return session, ErrShippingNotSelected
	}

	session.Shipping = selected
	session.State = CheckoutShippingSelected
	return session, nil
}

// ChooseMethod branches the flow into one of the three payment rails.
// While the CEP is invalid the call is a silent no-op: the surface is
// expected to keep the buttons disabled, not to fail after the fact. Boleto
// alone also demands street and city, because its downstream API does.
func (s *CheckoutService) ChooseMethod(ctx context.Context, key string, method models.PaymentMethod) (*CheckoutSession, error) {
	session, err := s.Session(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.abortToCartEmpty(ctx, session) {
		return session, ErrCartEmpty
	}

	if !utils.IsValidCEP(session.Address.CEP) {
		return session, nil
	}

	switch session.State {
	case CheckoutShippingSelected, CheckoutChoosingPayment:
	default:
		return session, ErrShippingNotSelected
	}

	if method == models.PaymentBoleto {
		if session.Address.Street == "" || session.Address.City == "" {
			return session, ErrBoletoAddressIncomplete
		}
	}

	session.Method = method
	switch method {
	case models.PaymentCreditCard:
		session.State = CheckoutCardFlow
	case models.PaymentPix:
		session.State = CheckoutPixFlow
	case models.PaymentBoleto:
		session.State = CheckoutBoletoFlow
	default:
		return session, fmt.Errorf("unknown payment method: %s", method)
	}
	return session, nil
}

// Submit sends the payment. Exactly one submission can be outstanding; the
// payload carries the full cart snapshot, the resolved shipping cost and
// carrier, and the CEP, since the provider revalidates pricing on its side.
func (s *CheckoutService) Submit(ctx context.Context, key string, req models.SubmitPaymentRequest) (*CheckoutSession, error) {
	session, err := s.Session(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if session.submitting {
		s.mu.Unlock()
		return session, ErrSubmissionInFlight
	}

	if s.abortToCartEmpty(ctx, session) {
		s.mu.Unlock()
		return session, ErrCartEmpty
	}

	switch session.State {
	case CheckoutCardFlow, CheckoutPixFlow, CheckoutBoletoFlow:
	default:
		s.mu.Unlock()
		return session, ErrPaymentMethodNotSelected
	}
	if session.Shipping == nil {
		s.mu.Unlock()
		return session, ErrShippingNotSelected
	}

	session.submitting = true
	session.State = CheckoutSubmitting

	payload := &models.PaymentRequest{
		Method:         session.Method,
		CardToken:      req.CardToken,
		PayerName:      req.PayerName,
		PayerDocument:  req.PayerDocument,
		Items:          append([]models.CartLine(nil), session.Cart.Lines...),
		ShippingCost:   session.Shipping.Price,
		Carrier:        session.Shipping.Carrier,
		CEP:            session.Address.CEP,
		Address:        session.Address,
		IdempotencyKey: session.IdempotencyKey,
	}
	s.mu.Unlock()

	result, err := s.gateway.Submit(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	session.submitting = false

	if err != nil {
		// Declines and network failures both return the user to method
		// choice with the cart intact; address and shipping stay resolved.
		session.State = CheckoutChoosingPayment
		if errors.Is(err, libs.ErrPaymentDeclined) {
			session.FailureReason = err.Error()
		} else {
			session.FailureReason = "Payment could not be processed. Please try again."
			log.Printf("payment submission error: %v", err)
		}
		return session, err
	}

	session.Result = result
	session.FailureReason = ""
	s.completeOrder(ctx, session)
	session.State = CheckoutSucceeded
	delete(s.sessions, session.Key)
	return session, nil
}

func (s *CheckoutService) completeOrder(ctx context.Context, session *CheckoutSession) {
	order := &models.Order{
		OrderNumber:   fmt.Sprintf("ORD-%d", time.Now().Unix()),
		UserID:        session.UserID,
		Subtotal:      session.Cart.Total(),
		ShippingCost:  session.Shipping.Price,
		Total:         session.Cart.Total() + session.Shipping.Price,
		Carrier:       session.Shipping.Carrier,
		CEP:           session.Address.CEP,
		Status:        "pending",
		PaymentMethod: string(session.Method),
	}
	for _, l := range session.Cart.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Size:        l.Size,
			Color:       l.Color,
		})
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		log.Printf("order persistence error: %v", err)
	}
	session.OrderNumber = order.OrderNumber

	if !session.cleared {
		session.cleared = true
		if err := s.cart.Clear(ctx, session.Key); err != nil {
			log.Printf("cart clear error: %v", err)
		}
	}

	s.sendConfirmation(session, order)
}

func (s *CheckoutService) sendConfirmation(session *CheckoutSession, order *models.Order) {
	if s.email == nil || s.users == nil {
		return
	}

	user, err := s.users.GetUserWithProfile(session.UserID)
	if err != nil {
		return
	}

	go func() {
		if err := s.email.SendOrderConfirmationEmail(user.Email, order.OrderNumber, order.Total); err != nil {
			log.Printf("order confirmation email error: %v", err)
		}
	}()
}
