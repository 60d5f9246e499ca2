package models

type PaymentIntentRequest struct {
	PackageID string `json:"packageId" validate:"required,len=24,hexadecimal"`
}

type PaymentIntentResponse struct {
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

type CheckoutSessionRequest struct {
	PackageID  string `json:"packageId" validate:"required,len=24,hexadecimal"`
	SuccessURL string `json:"successUrl" validate:"required,url"`
	CancelURL  string `json:"cancelUrl" validate:"required,url"`
}

type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
