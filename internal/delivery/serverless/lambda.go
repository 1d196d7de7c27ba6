package serverless

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"contact-relay/internal/delivery/http/middleware"
	"contact-relay/internal/delivery/http/response"
	"contact-relay/internal/domain"
	"contact-relay/pkg/logger"

	"github.com/aws/aws-lambda-go/events"
)

// Handler is the core every shell delegates to.
type Handler interface {
	Handle(r *http.Request) *response.Reply
}

// APIGatewayAdapter translates API Gateway proxy events (also what Netlify
// Functions deliver) into *http.Request and back.
type APIGatewayAdapter struct {
	handler Handler
	cors    middleware.CORSPolicy
}

// NewAPIGatewayAdapter wraps h. cors is only used for events that cannot
// be turned into a request; everything else gets its headers from h.
func NewAPIGatewayAdapter(h Handler, cors middleware.CORSPolicy) *APIGatewayAdapter {
	return &APIGatewayAdapter{handler: h, cors: cors}
}

// HandleAPIGateway is the lambda.Start entry point. It never returns an
// error: API Gateway would answer those with a bare 502.
func (a *APIGatewayAdapter) HandleAPIGateway(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := toHTTPRequest(ctx, ev)
	if err != nil {
		return a.reject(ev, err), nil
	}
	return toProxyResponse(a.handler.Handle(req)), nil
}

func (a *APIGatewayAdapter) reject(ev events.APIGatewayProxyRequest, err error) events.APIGatewayProxyResponse {
	header := eventHeader(ev)
	requestID := middleware.EnsureRequestID(&http.Request{Header: header})
	logger.Log.Warn("api gateway event rejected", "error", err, "method", ev.HTTPMethod, "request_id", requestID)

	reply := response.FromError(fmt.Errorf("%w: %v", domain.ErrMalformedInput, err))
	a.cors.Apply(reply.Header, header.Get("Origin"))
	middleware.ApplySecurityHeaders(reply.Header)
	reply.Header.Set(middleware.RequestIDHeader, requestID)
	return toProxyResponse(reply)
}

// eventHeader merges both header maps; single-value entries only fill
// names the multi-value map lacks.
func eventHeader(ev events.APIGatewayProxyRequest) http.Header {
	h := make(http.Header, len(ev.MultiValueHeaders)+len(ev.Headers))
	for k, vs := range ev.MultiValueHeaders {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	for k, v := range ev.Headers {
		if h.Get(k) == "" {
			h.Set(k, v)
		}
	}
	if id := ev.RequestContext.RequestID; id != "" && h.Get(middleware.RequestIDHeader) == "" {
		h.Set(middleware.RequestIDHeader, id)
	}
	return h
}

// errBody fails every read, so an undecodable event body reaches the
// handler as malformed input and still gets a normal (CORS-bearing) reply.
type errBody struct{ err error }

func (b errBody) Read([]byte) (int, error) { return 0, b.err }

func toHTTPRequest(ctx context.Context, ev events.APIGatewayProxyRequest) (*http.Request, error) {
	var body io.Reader = strings.NewReader(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			body = errBody{fmt.Errorf("decode base64 body: %w", err)}
		} else {
			body = bytes.NewReader(decoded)
		}
	}

	path := ev.Path
	if path == "" {
		path = "/"
	}
	u := &url.URL{Path: path}
	if len(ev.MultiValueQueryStringParameters) > 0 {
		u.RawQuery = url.Values(ev.MultiValueQueryStringParameters).Encode()
	} else if len(ev.QueryStringParameters) > 0 {
		q := url.Values{}
		for k, v := range ev.QueryStringParameters {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	method := strings.ToUpper(ev.HTTPMethod)
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header = eventHeader(ev)
	if ip := ev.RequestContext.Identity.SourceIP; ip != "" {
		req.RemoteAddr = ip + ":0"
	}
	req.Host = req.Header.Get("Host")
	return req, nil
}

func toProxyResponse(reply *response.Reply) events.APIGatewayProxyResponse {
	out := events.APIGatewayProxyResponse{
		StatusCode:        reply.Status,
		Headers:           make(map[string]string, len(reply.Header)),
		MultiValueHeaders: make(map[string][]string, len(reply.Header)),
	}
	for k, vs := range reply.Header {
		if len(vs) == 0 {
			continue
		}
		out.Headers[k] = strings.Join(vs, ", ")
		out.MultiValueHeaders[k] = append([]string(nil), vs...)
	}
	if utf8.Valid(reply.Body) {
		out.Body = string(reply.Body)
	} else {
		out.Body = base64.StdEncoding.EncodeToString(reply.Body)
		out.IsBase64Encoded = true
	}
	return out
}
