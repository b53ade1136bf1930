package services

import (
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService is any service that can send a plain-text email. Sending is
// best effort: implementations log failures instead of returning them, since
// no caller treats an undelivered notification as fatal.
type EmailService interface {
	Send(to, subject, body string)
}

// SendgridService delivers mail through the SendGrid API.
type SendgridService struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendgridService(apiKey, fromName, fromEmail string) *SendgridService {
	return &SendgridService{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SendgridService) Send(to, subject, body string) {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, "")
	resp, err := s.client.Send(message)
	if err != nil {
		log.Printf("sendgrid: failed to send %q to %s: %v", subject, to, err)
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("sendgrid: send %q to %s returned %d: %s", subject, to, resp.StatusCode, resp.Body)
	}
}

// ConsoleService writes mail to the log. Used in development and tests.
type ConsoleService struct{}

func (ConsoleService) Send(to, subject, body string) {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, body)
}
