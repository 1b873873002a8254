package models

// ShippingAddress holds the delivery address. Only the CEP is required to
// request a quote; the remaining fields may arrive from the address-lookup
// service and stay user-editable.
type ShippingAddress struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Complement   string `json:"complement"`
}

// ShippingOption is one carrier quote. The rate API issues no stable id, so
// selection identity is the (carrier, price) pair.
type ShippingOption struct {
	Carrier      string  `json:"carrier"`
	Price        float64 `json:"price"`
	DeliveryDays *int    `json:"delivery_days,omitempty"`
}

// PackageItem describes one parcel entry sent to the rate API.
type PackageItem struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Length        float64 `json:"length"`
	Weight        float64 `json:"weight"`
	Quantity      int     `json:"quantity"`
	DeclaredValue float64 `json:"insurance_value"`
}
