package models

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  UserWithProfile `json:"user"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" form:"full_name"`
	Phone    string `json:"phone" form:"phone"`
}

type AddCartLineRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	Size      *string `json:"size"`
	Color     *string `json:"color"`
}

type SetQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type CEPRequest struct {
	CEP string `json:"cep" binding:"required"`
}

type SelectShippingRequest struct {
	Carrier string  `json:"carrier" binding:"required"`
	Price   float64 `json:"price" binding:"required"`
}

type ChoosePaymentMethodRequest struct {
	Method PaymentMethod `json:"method" binding:"required"`
}

type SubmitPaymentRequest struct {
	CardToken     string `json:"card_token"`
	PayerName     string `json:"payer_name"`
	PayerDocument string `json:"payer_document"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
