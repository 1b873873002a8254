package models

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPix        PaymentMethod = "pix"
	PaymentBoleto     PaymentMethod = "boleto"
)

// PaymentRequest is the full payload handed to the payment collaborator. The
// cart travels as a snapshot, never as a server-side reference, because the
// provider revalidates pricing on its side.
type PaymentRequest struct {
	Method         PaymentMethod   `json:"method"`
	CardToken      string          `json:"card_token,omitempty"`
	PayerName      string          `json:"payer_name,omitempty"`
	PayerDocument  string          `json:"payer_document,omitempty"`
	Items          []CartLine      `json:"items"`
	ShippingCost   float64         `json:"shipping_cost"`
	Carrier        string          `json:"carrier"`
	CEP            string          `json:"cep"`
	Address        ShippingAddress `json:"address"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// PaymentResult is the method-specific success payload.
type PaymentResult struct {
	ReceiptID string `json:"receipt_id,omitempty"`
	PixQRCode string `json:"pix_qr_code,omitempty"`
	BoletoURL string `json:"boleto_url,omitempty"`
}
