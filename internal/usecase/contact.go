package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"contact-relay/config"
	"contact-relay/internal/domain"
	"contact-relay/pkg/apperror"
	"contact-relay/pkg/email"
	"contact-relay/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type contactUsecase struct {
	mailer   domain.Mailer
	validate *validator.Validate
	cfg      *config.Config
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer domain.Mailer, validate *validator.Validate, cfg *config.Config) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	return &contactUsecase{
		mailer:   mailer,
		validate: validate,
		cfg:      cfg,
	}
}

// ClassifySubmission sorts a submission into spam, invalid or valid.
// For invalid submissions it also returns the missing field names.
func ClassifySubmission(validate *validator.Validate, in domain.SubmissionInput) (domain.Verdict, []string) {
	if in.Gotcha != "" {
		return domain.VerdictSpam, nil
	}
	if err := validate.Struct(in); err != nil {
		missing := validation.MissingFields(err)
		if len(missing) == 0 {
			missing = []string{err.Error()}
		}
		return domain.VerdictInvalid, missing
	}
	return domain.VerdictValid, nil
}

// Submit validates the contact request and sends the email
func (uc *contactUsecase) Submit(ctx context.Context, in domain.SubmissionInput) (domain.Outcome, error) {
	verdict, missing := ClassifySubmission(uc.validate, in)
	switch verdict {
	case domain.VerdictSpam:
		return domain.OutcomeDropped, nil
	case domain.VerdictInvalid:
		return 0, apperror.New(http.StatusBadRequest, "Missing required fields", domain.ErrMissingFields).
			WithDetail(strings.Join(missing, ", "))
	}

	if missingCfg := uc.cfg.Missing(); len(missingCfg) > 0 || !uc.mailer.IsConfigured() {
		return 0, apperror.Unavailable("Contact service temporarily unavailable",
			fmt.Errorf("%w: missing %s", domain.ErrNotConfigured, strings.Join(missingCfg, ", ")))
	}

	body, err := email.Render(in)
	if err != nil {
		return 0, apperror.Internal(err)
	}

	fullName := email.FullName(in)
	req := domain.DeliveryRequest{
		From:    domain.Address{Email: uc.cfg.FromEmail, Name: uc.cfg.FromName},
		To:      []domain.Address{{Email: uc.cfg.ToEmail, Name: uc.cfg.ToName}},
		ReplyTo: domain.Address{Email: strings.TrimSpace(in.Email), Name: fullName},
		Subject: email.BuildSubject(uc.cfg.SubjectPrefix, in.Subject),
		Body:    body,
	}

	if err := uc.mailer.Send(ctx, req); err != nil {
		return 0, deliveryError(err)
	}
	return domain.OutcomeDelivered, nil
}

func deliveryError(err error) *apperror.AppError {
	if errors.Is(err, domain.ErrNotConfigured) {
		return apperror.Unavailable("Contact service temporarily unavailable", err)
	}

	var perr *email.ProviderError
	if errors.As(err, &perr) {
		if perr.Message != "" {
			return apperror.BadGateway(perr.Message, err)
		}
		appErr := apperror.BadGateway("Email provider error", err)
		if perr.StatusCode == 0 {
			return appErr.WithDetail("email provider unreachable")
		}
		return appErr.WithDetail(perr.Body)
	}
	return apperror.BadGateway("Email provider error", err)
}
