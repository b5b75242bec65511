package question

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request is one user question as the answering service expects it.
type Request struct {
	Message  string `json:"message" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// Validate fails when the message or the category is empty.
func (r Request) Validate() error {
	return validate.Struct(r)
}

// Response is the normalized outcome of a relay call. Exactly one of Answer or
// Error is set, depending on Success.
type Response struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Asker is what callers depend on; *Service is the only implementation outside tests.
type Asker interface {
	AskQuestion(ctx context.Context, req Request) Response
}
