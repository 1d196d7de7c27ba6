package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"contact-relay/config"
	"contact-relay/internal/domain"
	"contact-relay/internal/usecase"
	"contact-relay/pkg/apperror"
	"contact-relay/pkg/email"
	"contact-relay/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, req domain.DeliveryRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func testConfig() *config.Config {
	return &config.Config{
		FromEmail:        "noreply@example.org",
		FromName:         "Example Org",
		ToEmail:          "team@example.org",
		ToName:           "Example Team",
		MailerSendAPIKey: "key",
		SubjectPrefix:    "Contact: ",
	}
}

func validInput() domain.SubmissionInput {
	return domain.SubmissionInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Subject:   "Hello",
		Message:   "Hi there",
	}
}

func TestClassifySubmission(t *testing.T) {
	v := validation.New()

	t.Run("Should classify honeypot as spam regardless of other fields", func(t *testing.T) {
		in := domain.SubmissionInput{Gotcha: "bot"}
		verdict, missing := usecase.ClassifySubmission(v, in)
		assert.Equal(t, domain.VerdictSpam, verdict)
		assert.Nil(t, missing)

		full := validInput()
		full.Gotcha = "x"
		verdict, _ = usecase.ClassifySubmission(v, full)
		assert.Equal(t, domain.VerdictSpam, verdict)
	})

	t.Run("Should classify each blank required field as invalid", func(t *testing.T) {
		blanks := map[string]func(*domain.SubmissionInput){
			"first_name": func(in *domain.SubmissionInput) { in.FirstName = "" },
			"last_name":  func(in *domain.SubmissionInput) { in.LastName = "   " },
			"email":      func(in *domain.SubmissionInput) { in.Email = "\t" },
			"subject":    func(in *domain.SubmissionInput) { in.Subject = "\n" },
			"message":    func(in *domain.SubmissionInput) { in.Message = " \r\n " },
		}
		for field, blank := range blanks {
			in := validInput()
			blank(&in)
			verdict, missing := usecase.ClassifySubmission(v, in)
			assert.Equal(t, domain.VerdictInvalid, verdict, field)
			assert.Equal(t, []string{field}, missing, field)
		}
	})

	t.Run("Should not require phone", func(t *testing.T) {
		verdict, _ := usecase.ClassifySubmission(v, validInput())
		assert.Equal(t, domain.VerdictValid, verdict)
	})
}

func TestSubmit(t *testing.T) {
	t.Run("Should deliver a valid submission with configured identities", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("IsConfigured").Return(true)
		mailer.On("Send", mock.Anything, mock.AnythingOfType("domain.DeliveryRequest")).Return(nil).Run(func(args mock.Arguments) {
			req := args.Get(1).(domain.DeliveryRequest)
			assert.Equal(t, domain.Address{Email: "noreply@example.org", Name: "Example Org"}, req.From)
			assert.Equal(t, []domain.Address{{Email: "team@example.org", Name: "Example Team"}}, req.To)
			assert.Equal(t, domain.Address{Email: "jane@example.com", Name: "Jane Doe"}, req.ReplyTo)
			assert.Equal(t, "Contact: Hello", req.Subject)
			assert.Contains(t, req.Body.HTML, "Jane Doe")
			assert.Contains(t, req.Body.Text, "Hi there")
		})

		uc := usecase.NewContactUsecase(mailer, nil, testConfig())
		outcome, err := uc.Submit(context.Background(), validInput())

		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeDelivered, outcome)
		mailer.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("Should drop spam without calling the mailer", func(t *testing.T) {
		mailer := new(MockMailer)
		uc := usecase.NewContactUsecase(mailer, nil, testConfig())

		in := validInput()
		in.Gotcha = "bot"
		outcome, err := uc.Submit(context.Background(), in)

		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeDropped, outcome)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should reject missing fields without calling the mailer", func(t *testing.T) {
		mailer := new(MockMailer)
		uc := usecase.NewContactUsecase(mailer, nil, testConfig())

		_, err := uc.Submit(context.Background(), domain.SubmissionInput{FirstName: "Jane"})

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, "Missing required fields", appErr.Message)
		assert.Equal(t, "last_name, email, subject, message", appErr.Detail)
		assert.ErrorIs(t, err, domain.ErrMissingFields)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should report missing configuration as unavailable", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("IsConfigured").Return(false)
		cfg := testConfig()
		cfg.MailerSendAPIKey = ""
		uc := usecase.NewContactUsecase(mailer, nil, cfg)

		_, err := uc.Submit(context.Background(), validInput())

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Should surface provider message as bad gateway", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("IsConfigured").Return(true)
		mailer.On("Send", mock.Anything, mock.Anything).Return(&email.ProviderError{StatusCode: 422, Message: "invalid recipient"})
		uc := usecase.NewContactUsecase(mailer, nil, testConfig())

		_, err := uc.Submit(context.Background(), validInput())

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadGateway, appErr.Code)
		assert.Equal(t, "invalid recipient", appErr.Message)
		assert.Empty(t, appErr.Detail)
	})

	t.Run("Should fall back to raw body when provider message is absent", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("IsConfigured").Return(true)
		mailer.On("Send", mock.Anything, mock.Anything).Return(&email.ProviderError{StatusCode: 500, Body: "oops"})
		uc := usecase.NewContactUsecase(mailer, nil, testConfig())

		_, err := uc.Submit(context.Background(), validInput())

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "Email provider error", appErr.Message)
		assert.Equal(t, "oops", appErr.Detail)
	})

	t.Run("Should truncate long subjects to the provider limit", func(t *testing.T) {
		mailer := new(MockMailer)
		mailer.On("IsConfigured").Return(true)
		mailer.On("Send", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			req := args.Get(1).(domain.DeliveryRequest)
			assert.Equal(t, email.MaxSubjectLength, utf8.RuneCountInString(req.Subject))
			assert.True(t, strings.HasPrefix("Contact: "+strings.Repeat("s", 300), req.Subject))
		})
		uc := usecase.NewContactUsecase(mailer, nil, testConfig())

		in := validInput()
		in.Subject = strings.Repeat("s", 300)
		_, err := uc.Submit(context.Background(), in)
		require.NoError(t, err)
	})
}
