package serverless

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"contact-relay/config"
	"contact-relay/internal/delivery/http/middleware"
	"contact-relay/internal/delivery/http/response"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures the request the adapter builds.
type recordingHandler struct {
	req     *http.Request
	body    string
	readErr error
	reply   *response.Reply
}

func (h *recordingHandler) Handle(r *http.Request) *response.Reply {
	h.req = r
	raw, err := io.ReadAll(r.Body)
	h.body = string(raw)
	h.readErr = err
	return h.reply
}

func TestHandleAPIGatewayTranslatesRequest(t *testing.T) {
	reply := response.Success()
	reply.Header.Set("Access-Control-Allow-Origin", "https://www.example.org")
	reply.Header.Add("Vary", "Origin")
	h := &recordingHandler{reply: reply}
	adapter := NewAPIGatewayAdapter(h, middleware.CORSPolicy{})

	ev := events.APIGatewayProxyRequest{
		HTTPMethod: "post",
		Path:       "/.netlify/functions/contact",
		Headers: map[string]string{
			"content-type": "application/json",
			"origin":       "https://www.example.org",
		},
		Body: `{"first_name":"Jane"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "gw-1",
			Identity:  events.APIGatewayRequestIdentity{SourceIP: "198.51.100.4"},
		},
	}

	resp, err := adapter.HandleAPIGateway(context.Background(), ev)
	require.NoError(t, err)

	require.NotNil(t, h.req)
	assert.Equal(t, http.MethodPost, h.req.Method)
	assert.Equal(t, "/.netlify/functions/contact", h.req.URL.Path)
	assert.Equal(t, "application/json", h.req.Header.Get("Content-Type"))
	assert.Equal(t, "https://www.example.org", h.req.Header.Get("Origin"))
	assert.Equal(t, "gw-1", h.req.Header.Get("X-Request-ID"))
	assert.Equal(t, "198.51.100.4:0", h.req.RemoteAddr)
	assert.Equal(t, `{"first_name":"Jane"}`, h.body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, resp.Body)
	assert.Equal(t, "https://www.example.org", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "Origin", resp.Headers["Vary"])
	assert.False(t, resp.IsBase64Encoded)
}

func TestHandleAPIGatewayDecodesBase64Body(t *testing.T) {
	h := &recordingHandler{reply: response.Preflight()}
	adapter := NewAPIGatewayAdapter(h, middleware.CORSPolicy{})

	ev := events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            base64.StdEncoding.EncodeToString([]byte("first_name=Jane")),
		IsBase64Encoded: true,
	}

	resp, err := adapter.HandleAPIGateway(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, "first_name=Jane", h.body)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestHandleAPIGatewayBadBase64FailsBodyRead(t *testing.T) {
	h := &recordingHandler{reply: response.Error(http.StatusBadRequest, "Invalid request/JSON", "")}
	adapter := NewAPIGatewayAdapter(h, middleware.CORSPolicy{})

	resp, err := adapter.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            "%%%not-base64",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	require.NotNil(t, h.req)
	assert.Error(t, h.readErr)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleAPIGatewayRejectsUnusableMethod(t *testing.T) {
	h := &recordingHandler{reply: response.Success()}
	adapter := NewAPIGatewayAdapter(h, middleware.CORSPolicy{
		Mode:    config.CORSModeFixed,
		Origins: []string{"https://www.example.org"},
	})

	resp, err := adapter.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: "PO ST",
		Headers:    map[string]string{"Origin": "https://www.example.org"},
		Body:       `{"first_name":"Jane"}`,
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID: "gw-9",
		},
	})
	require.NoError(t, err)

	assert.Nil(t, h.req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid request/JSON"}`, resp.Body)
	assert.Equal(t, "https://www.example.org", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "POST, OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "nosniff", resp.Headers["X-Content-Type-Options"])
	assert.Equal(t, "gw-9", resp.Headers["X-Request-Id"])
}
