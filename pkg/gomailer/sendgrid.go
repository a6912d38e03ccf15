package gomailer

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	APIKey   string        `yaml:"apiKey"`
	FromName string        `yaml:"fromName"`
	FromMail string        `yaml:"fromMail"`
	Timeout  time.Duration `yaml:"timeout"`
	Client   *sendgrid.Client
}

func NewSendGridMailer(apiKey, fromName, fromMail string) *SendGridMailer {
	return &SendGridMailer{
		APIKey:   apiKey,
		FromName: fromName,
		FromMail: fromMail,
		Timeout:  10 * time.Second,
		Client:   sendgrid.NewSendClient(apiKey),
	}
}

func (s *SendGridMailer) client() *sendgrid.Client {
	if s.Client == nil {
		s.Client = sendgrid.NewSendClient(s.APIKey)
	}
	return s.Client
}

func (s *SendGridMailer) Send(e Email) error {
	from := mail.NewEmail(s.FromName, s.FromMail)

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = e.Subject

	p := mail.NewPersonalization()
	for _, addr := range e.To {
		p.AddTos(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(p)

	if e.Text != "" {
		message.AddContent(mail.NewContent("text/plain", e.Text))
	}
	if e.HTML != "" {
		message.AddContent(mail.NewContent("text/html", e.HTML))
	}

	resp, err := s.client().Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid API error: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}
