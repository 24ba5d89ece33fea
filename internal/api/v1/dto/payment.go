package dto

import "cyberacademy/internal/model"

type CreatePaymentIntentRequestDTO struct {
	Amount   float64 `json:"amount" doc:"Amount in whole US dollars"`
	CourseID int64   `json:"courseId"`
	UserID   int64   `json:"userId"`
}

type CreatePaymentIntentResponseDTO struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type PaymentSuccessRequestDTO struct {
	PaymentIntentID string `json:"paymentIntentId" minLength:"1"`
}

type PaymentSuccessResponseDTO struct {
	Success    bool              `json:"success"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
}

type PaymentConfigResponseDTO struct {
	PublishableKey string `json:"publishableKey"`
}
