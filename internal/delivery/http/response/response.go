package response

import (
	"errors"
	"net/http"
	"strconv"

	"contact-relay/internal/domain"
	"contact-relay/pkg/apperror"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

// Body is the JSON shape of every contact response: {"ok":true} on
// success, {"error":"...","detail":"..."} on failure.
type Body struct {
	OK     bool   `json:"ok,omitempty"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Reply is a transport-neutral HTTP response. Every shell (gin, Vercel,
// Lambda) turns a Reply into its own response type.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

func newReply(status int, body *Body) *Reply {
	r := &Reply{Status: status, Header: make(http.Header)}
	if body != nil {
		r.Body, _ = json.Marshal(body)
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// Success sends {"ok":true}.
func Success() *Reply {
	return newReply(http.StatusOK, &Body{OK: true})
}

// Error sends {"error":message,"detail":detail}.
func Error(code int, message, detail string) *Reply {
	return newReply(code, &Body{Error: message, Detail: detail})
}

// Preflight answers a CORS preflight with no body.
func Preflight() *Reply {
	return newReply(http.StatusNoContent, nil)
}

// FromOutcome maps a non-error pipeline result. Delivered and dropped spam
// look identical to the caller.
func FromOutcome(domain.Outcome) *Reply {
	return Success()
}

// FromError maps a pipeline error to a response. Unknown errors become a
// generic 500 so internal details never reach the client.
func FromError(err error) *Reply {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return Error(appErr.Code, appErr.Message, appErr.Detail)
	}
	if errors.Is(err, domain.ErrMalformedInput) {
		return FromError(apperror.BadRequest("Invalid request/JSON"))
	}
	return Error(http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", "")
}

// Write copies the reply onto w.
func (r *Reply) Write(w http.ResponseWriter) {
	h := w.Header()
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	if len(r.Body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	w.WriteHeader(r.Status)
	if len(r.Body) > 0 {
		_, _ = w.Write(r.Body)
	}
}

// Render writes the reply through gin, replacing any headers a middleware
// already set under the same key.
func (r *Reply) Render(c *gin.Context) {
	h := c.Writer.Header()
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	if len(r.Body) == 0 {
		c.Status(r.Status)
		c.Writer.WriteHeaderNow()
		return
	}
	c.Data(r.Status, r.Header.Get("Content-Type"), r.Body)
}

// Decode parses a reply body; handy in tests and shells that re-inspect it.
func (r *Reply) Decode() (Body, error) {
	var b Body
	if len(r.Body) == 0 {
		return b, nil
	}
	err := json.Unmarshal(r.Body, &b)
	return b, err
}
