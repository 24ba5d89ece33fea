package operation

import "cyberacademy/internal/api/v1/dto"

type CreatePaymentIntentInput struct {
	Body dto.CreatePaymentIntentRequestDTO `json:"body"`
}

type CreatePaymentIntentOutput struct {
	Body dto.CreatePaymentIntentResponseDTO `json:"body"`
}

type PaymentSuccessInput struct {
	Body dto.PaymentSuccessRequestDTO `json:"body"`
}

type PaymentSuccessOutput struct {
	Body dto.PaymentSuccessResponseDTO `json:"body"`
}

type PaymentConfigInput struct{}

type PaymentConfigOutput struct {
	Body dto.PaymentConfigResponseDTO `json:"body"`
}
