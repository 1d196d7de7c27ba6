// Package handler is the Vercel serverless entry point for /api/contact.
package handler

import (
	"net/http"
	"sync"

	"contact-relay/config"
	"contact-relay/internal/bootstrap"
	"contact-relay/internal/delivery/http/middleware"
	"contact-relay/internal/delivery/http/response"
	"contact-relay/pkg/logger"
)

var (
	app     *bootstrap.App
	initErr error
	once    sync.Once
)

// Handler is the function Vercel invokes. Warm instances reuse the wired
// pipeline.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		app, initErr = bootstrap.New()
	})
	if initErr != nil {
		unavailable(w, r)
		return
	}
	app.Contact.ServeHTTP(w, r)
}

// unavailable answers when the configuration cannot be loaded. The CORS
// settings are read on their own so browsers still see the real error.
func unavailable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.EnsureRequestID(r)
	logger.Log.Error("contact handler init failed", "error", initErr, "request_id", requestID)

	reply := response.Error(http.StatusServiceUnavailable, "Contact service temporarily unavailable", "")
	if r.Method == http.MethodOptions {
		reply = response.Preflight()
	}
	mode, origins := config.CORSFromEnv()
	middleware.CORSPolicy{Mode: mode, Origins: origins}.Apply(reply.Header, r.Header.Get("Origin"))
	middleware.ApplySecurityHeaders(reply.Header)
	reply.Header.Set(middleware.RequestIDHeader, requestID)
	reply.Write(w)
}
