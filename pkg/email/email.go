package email

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"contact-relay/internal/domain"
)

// MaxSubjectLength is the provider's subject limit, counted in runes.
const MaxSubjectLength = 150

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML replaces & < > " ' with their entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// contactData is what both templates see. The HTML template pipes every
// field through esc; text/template does no escaping of its own.
type contactData struct {
	FullName string
	Email    string
	Phone    string
	Subject  string
	Message  string
}

// contactHTMLTemplate is the HTML body for contact form emails
const contactHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New contact form message</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>New contact form message</h2>
    <p><strong>Name:</strong> {{esc .FullName}}</p>
    <p><strong>Email:</strong> {{esc .Email}}</p>
    <p><strong>Phone:</strong> {{esc .Phone}}</p>
    <p><strong>Subject:</strong> {{esc .Subject}}</p>
    <p><strong>Message:</strong></p>
    <pre style="white-space:pre-wrap;font-family:inherit">{{esc .Message}}</pre>
</body>
</html>
`

const contactTextTemplate = `New contact form message

Name:    {{.FullName}}
Email:   {{.Email}}
Phone:   {{.Phone}}

Subject: {{.Subject}}

{{.Message}}
`

var (
	htmlTmpl = template.Must(template.New("contact.html").
			Funcs(template.FuncMap{"esc": EscapeHTML}).
			Parse(contactHTMLTemplate))
	textTmpl = template.Must(template.New("contact.txt").Parse(contactTextTemplate))
)

// FullName joins first and last name and trims the result.
func FullName(in domain.SubmissionInput) string {
	return strings.TrimSpace(in.FirstName + " " + in.LastName)
}

// Render produces the HTML and plain-text bodies for a valid submission.
func Render(in domain.SubmissionInput) (domain.RenderedMessage, error) {
	data := contactData{
		FullName: FullName(in),
		Email:    in.Email,
		Phone:    in.Phone,
		Subject:  in.Subject,
		Message:  in.Message,
	}
	if strings.TrimSpace(data.Phone) == "" {
		data.Phone = "-"
	}

	var htmlBody, textBody bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBody, data); err != nil {
		return domain.RenderedMessage{}, fmt.Errorf("failed to execute html template: %w", err)
	}
	if err := textTmpl.Execute(&textBody, data); err != nil {
		return domain.RenderedMessage{}, fmt.Errorf("failed to execute text template: %w", err)
	}

	return domain.RenderedMessage{
		HTML: htmlBody.String(),
		Text: textBody.String(),
	}, nil
}

// BuildSubject prefixes the user's subject and cuts the result to
// MaxSubjectLength runes.
func BuildSubject(prefix, subject string) string {
	full := prefix + subject
	if utf8.RuneCountInString(full) <= MaxSubjectLength {
		return full
	}
	runes := []rune(full)
	return string(runes[:MaxSubjectLength])
}
