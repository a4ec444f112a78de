package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"irs-portal/internal/config"
)

type Service interface {
	SendRequestStatusEmail(ctx context.Context, toEmail, recipientName, categoryLabel, status string) error
	SendDocumentAddedEmail(ctx context.Context, toEmail, recipientName, projectName, documentTitle string) error
	SendMessageEmail(ctx context.Context, toEmail, recipientName, subject string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var bodyTmpl = template.Must(template.New("notification").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a2e;">
  <h2>{{.Title}}</h2>
  <p>Dear {{.Name}},</p>
  <p>{{.Body}}</p>
  {{if .Link}}<p><a href="{{.Link}}">View in the client portal</a></p>{{end}}
  <p>Best regards,<br>IRS Client Services</p>
</body>
</html>`))

type emailData struct {
	Title string
	Name  string
	Body  string
	Link  string
}

func (s *service) sendEmail(toEmail, subject string, data emailData) error {
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("IRS Client Portal <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *service) SendRequestStatusEmail(ctx context.Context, toEmail, recipientName, categoryLabel, status string) error {
	return s.sendEmail(toEmail, fmt.Sprintf("Service Request %s", status), emailData{
		Title: fmt.Sprintf("Service Request %s", status),
		Name:  recipientName,
		Body:  fmt.Sprintf("Your %s request has been %s.", categoryLabel, status),
		Link:  fmt.Sprintf("https://%s/portal/requests", s.config.PortalDomain),
	})
}

func (s *service) SendDocumentAddedEmail(ctx context.Context, toEmail, recipientName, projectName, documentTitle string) error {
	return s.sendEmail(toEmail, "New Document Available", emailData{
		Title: "New Document Available",
		Name:  recipientName,
		Body:  fmt.Sprintf("A new document %q has been added to project %s.", documentTitle, projectName),
		Link:  fmt.Sprintf("https://%s/portal/projects", s.config.PortalDomain),
	})
}

func (s *service) SendMessageEmail(ctx context.Context, toEmail, recipientName, subject string) error {
	return s.sendEmail(toEmail, "New Message", emailData{
		Title: "New Message",
		Name:  recipientName,
		Body:  fmt.Sprintf("You have a new message in conversation %q.", subject),
		Link:  fmt.Sprintf("https://%s/portal/messages", s.config.PortalDomain),
	})
}
