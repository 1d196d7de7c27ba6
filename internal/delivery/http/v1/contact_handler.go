package v1

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"contact-relay/internal/delivery/http/middleware"
	"contact-relay/internal/delivery/http/response"
	"contact-relay/internal/domain"
	"contact-relay/pkg/apperror"
	"contact-relay/pkg/logger"
	"contact-relay/pkg/security"

	"github.com/gin-gonic/gin"
)

// ContactHandler is the single contact-form pipeline shared by every
// hosting shell: normalize, classify/render/deliver, build the reply.
type ContactHandler struct {
	contactUC    domain.ContactUsecase
	cors         middleware.CORSPolicy
	events       *security.SecurityLogger
	maxBodyBytes int64
}

// ContactHandlerDeps groups what the handler needs.
type ContactHandlerDeps struct {
	ContactUC    domain.ContactUsecase
	CORS         middleware.CORSPolicy
	Events       *security.SecurityLogger
	MaxBodyBytes int64
}

func NewContactHandler(deps ContactHandlerDeps) *ContactHandler {
	events := deps.Events
	if events == nil {
		events = security.Nop()
	}
	return &ContactHandler{
		contactUC:    deps.ContactUC,
		cors:         deps.CORS,
		events:       events,
		maxBodyBytes: deps.MaxBodyBytes,
	}
}

// Handle runs one request through the pipeline. The returned reply always
// carries CORS headers and the request id.
func (h *ContactHandler) Handle(r *http.Request) *response.Reply {
	requestID := middleware.EnsureRequestID(r)
	reply := h.handle(r, requestID)
	h.cors.Apply(reply.Header, r.Header.Get("Origin"))
	middleware.ApplySecurityHeaders(reply.Header)
	reply.Header.Set(middleware.RequestIDHeader, requestID)
	return reply
}

func (h *ContactHandler) handle(r *http.Request, requestID string) *response.Reply {
	ctx := r.Context()
	meta := security.RequestMeta{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestID,
	}

	switch r.Method {
	case http.MethodOptions:
		return response.Preflight()
	case http.MethodPost:
	default:
		h.events.LogSubmission(ctx, security.EventMethodNotAllowed, "", meta, map[string]interface{}{"method": r.Method})
		reply := response.FromError(apperror.MethodNotAllowed())
		reply.Header.Set("Allow", "POST, OPTIONS")
		return reply
	}

	in, err := NormalizeSubmission(r, h.maxBodyBytes)
	if err != nil {
		h.events.LogSubmission(ctx, security.EventSubmissionMalformed, "", meta, map[string]interface{}{"error": err.Error()})
		return response.FromError(err)
	}

	outcome, err := h.contactUC.Submit(ctx, in)
	if err != nil {
		h.logFailure(r, in, meta, err)
		return response.FromError(err)
	}

	if outcome == domain.OutcomeDropped {
		h.events.LogSubmission(ctx, security.EventSubmissionSpam, in.Email, meta, nil)
	} else {
		h.events.LogSubmission(ctx, security.EventDeliverySucceeded, in.Email, meta, nil)
	}
	return response.FromOutcome(outcome)
}

func (h *ContactHandler) logFailure(r *http.Request, in domain.SubmissionInput, meta security.RequestMeta, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		h.events.LogSubmission(ctx, security.EventSubmissionInvalid, in.Email, meta, nil)
	case errors.Is(err, domain.ErrNotConfigured):
		h.events.LogSubmission(ctx, security.EventConfigMissing, "", meta, nil)
		logger.Log.Error("contact service not configured", "error", err, "request_id", meta.RequestID)
	default:
		h.events.LogSubmission(ctx, security.EventDeliveryFailed, in.Email, meta, map[string]interface{}{"error": err.Error()})
		logger.Log.Error("contact delivery failed", "error", err, "request_id", meta.RequestID)
	}
}

// ServeHTTP lets the handler run under plain net/http (Vercel, tests).
func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handle(r).Write(w)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relay a contact form message by email. Accepts JSON, urlencoded or multipart bodies. A filled `_gotcha` field is accepted and silently dropped.
// @Tags         contact
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Accept       mpfd
// @Produce      json
// @Param        contact  body      domain.SubmissionInput  true  "Contact Form Data"
// @Success      200      {object}  response.Body
// @Failure      400      {object}  response.Body
// @Failure      405      {object}  response.Body
// @Failure      502      {object}  response.Body
// @Failure      503      {object}  response.Body
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	if id := c.GetString("RequestID"); id != "" {
		c.Request.Header.Set(middleware.RequestIDHeader, id)
	}
	h.Handle(c.Request).Render(c)
}

// clientIP prefers the first X-Forwarded-For hop since every shell runs
// behind a platform proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
