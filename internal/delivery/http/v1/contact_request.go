package v1

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"contact-relay/internal/domain"

	"github.com/gin-gonic/gin/binding"
)

// NormalizeSubmission reads a SubmissionInput from r according to its
// Content-Type. JSON, urlencoded and multipart bodies are understood; any
// other type yields an empty submission. Absent fields are "".
func NormalizeSubmission(r *http.Request, maxBytes int64) (domain.SubmissionInput, error) {
	var in domain.SubmissionInput

	if maxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	}

	switch contentKind(r.Header.Get("Content-Type")) {
	case binding.MIMEJSON:
		raw, err := readBody(r)
		if err != nil {
			return in, err
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return in, nil
		}
		if err := binding.JSON.BindBody(raw, &in); err != nil {
			return domain.SubmissionInput{}, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
		}
	case binding.MIMEPOSTForm:
		if err := binding.FormPost.Bind(r, &in); err != nil {
			return domain.SubmissionInput{}, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
		}
	case binding.MIMEMultipartPOSTForm:
		if err := binding.FormMultipart.Bind(r, &in); err != nil {
			return domain.SubmissionInput{}, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
		}
	}

	return in, nil
}

// contentKind reduces a Content-Type header to one of the three supported
// media types, or "" for anything else.
func contentKind(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(header, ";", 2)[0]))
	}
	switch {
	case mediaType == binding.MIMEJSON, strings.HasSuffix(mediaType, "+json"):
		return binding.MIMEJSON
	case mediaType == binding.MIMEPOSTForm:
		return binding.MIMEPOSTForm
	case mediaType == binding.MIMEMultipartPOSTForm:
		return binding.MIMEMultipartPOSTForm
	}
	return ""
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return raw, nil
}
