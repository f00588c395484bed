package utils

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("email has no recipients")

// InlineFile is embedded in the message and referenced from HTML as cid:ContentID.
type InlineFile struct {
	Filename  string `json:"filename"`
	ContentID string `json:"content_id"`
	Data      []byte `json:"data"`
}

type Email struct {
	From    string       `json:"from"`
	To      []string     `json:"to"`
	Subject string       `json:"subject"`
	HTML    string       `json:"html"`
	Inline  []InlineFile `json:"inline,omitempty"`
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, user, password string) Mailer {
	return &smtpMailer{dialer: gomail.NewDialer(host, port, user, password)}
}

func (m *smtpMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := BuildMessage(email)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage renders an Email into a MIME message.
func BuildMessage(email Email) (*gomail.Message, error) {
	if len(email.To) == 0 {
		return nil, ErrNoRecipients
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", email.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	for _, file := range email.Inline {
		data := file.Data
		msg.Embed(file.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-ID": {"<" + file.ContentID + ">"},
			}),
		)
	}
	return msg, nil
}
