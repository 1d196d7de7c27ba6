package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"contact-relay/internal/domain"
	"contact-relay/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "app error with detail",
			err:    apperror.BadRequest("Missing required fields").WithDetail("email"),
			status: http.StatusBadRequest,
			body:   `{"error":"Missing required fields","detail":"email"}`,
		},
		{
			name:   "method not allowed",
			err:    apperror.MethodNotAllowed(),
			status: http.StatusMethodNotAllowed,
			body:   `{"error":"Method not allowed"}`,
		},
		{
			name:   "malformed input",
			err:    fmt.Errorf("decode: %w", domain.ErrMalformedInput),
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid request/JSON"}`,
		},
		{
			name:   "unknown error is hidden",
			err:    fmt.Errorf("db password is hunter2"),
			status: http.StatusInternalServerError,
			body:   `{"error":"An unexpected error occurred. Please try again later."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromError(tt.err)
			assert.Equal(t, tt.status, r.Status)
			assert.JSONEq(t, tt.body, string(r.Body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		})
	}
}

func TestSuccessAndPreflight(t *testing.T) {
	assert.JSONEq(t, `{"ok":true}`, string(FromOutcome(domain.OutcomeDropped).Body))

	p := Preflight()
	assert.Equal(t, http.StatusNoContent, p.Status)
	assert.Empty(t, p.Body)
	assert.Empty(t, p.Header.Get("Content-Type"))
}

func TestWrite(t *testing.T) {
	r := Error(http.StatusBadGateway, "invalid recipient", "")
	r.Header.Set("Access-Control-Allow-Origin", "*")

	rec := httptest.NewRecorder()
	r.Write(rec)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	body, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, "invalid recipient", body.Error)
	assert.JSONEq(t, `{"error":"invalid recipient"}`, rec.Body.String())
}
