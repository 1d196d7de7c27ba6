package domain

import (
	"context"
	"errors"
)

var (
	ErrMalformedInput   = errors.New("malformed input")
	ErrMissingFields    = errors.New("missing required fields")
	ErrNotConfigured    = errors.New("email service is not configured")
	ErrProviderRejected = errors.New("email provider rejected the message")
)

// SubmissionInput represents a contact form submission.
// Every field is a plain string so an absent key is simply "".
type SubmissionInput struct {
	FirstName string `json:"first_name" form:"first_name" validate:"not_blank"`
	LastName  string `json:"last_name" form:"last_name" validate:"not_blank"`
	Email     string `json:"email" form:"email" validate:"not_blank"`
	Phone     string `json:"phone" form:"phone"`
	Subject   string `json:"subject" form:"subject" validate:"not_blank"`
	Message   string `json:"message" form:"message" validate:"not_blank"`
	// Gotcha is the honeypot. Humans never see the field, so it stays empty.
	Gotcha string `json:"_gotcha" form:"_gotcha"`
}

// Verdict is the Validator's classification of a submission.
type Verdict int

const (
	VerdictValid Verdict = iota
	VerdictInvalid
	VerdictSpam
)

// RenderedMessage holds both bodies of the outbound email.
// User values in HTML are escaped; Text carries them verbatim.
type RenderedMessage struct {
	HTML string
	Text string
}

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// DeliveryRequest is what the Delivery Client sends. From and To come from
// configuration only; ReplyTo is the submitter.
type DeliveryRequest struct {
	From    Address
	To      []Address
	ReplyTo Address
	Subject string
	Body    RenderedMessage
}

// Outcome is the non-error result of a submission.
type Outcome int

const (
	OutcomeDelivered Outcome = iota
	// OutcomeDropped means spam was accepted and silently discarded.
	OutcomeDropped
)

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Submit validates, renders and delivers a submission.
	Submit(ctx context.Context, in SubmissionInput) (Outcome, error)
}

// Mailer delivers a rendered message to the transactional-email provider.
type Mailer interface {
	Send(ctx context.Context, req DeliveryRequest) error
	IsConfigured() bool
}
