// Package services реализует отправку писем клиентам через SMTP.
package services

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/lib/smtp"
)

// SenderService отправляет письма через SMTP-транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// Send отправляет одно письмо указанному адресату. Если htmlBody не пуст,
// письмо собирается как multipart/alternative с текстовой и HTML-частями.
func (s *SenderService) Send(to, subject, textBody, htmlBody string) error {
	msg, err := s.buildMessage(to, subject, textBody, htmlBody)
	if err != nil {
		s.log.Error("Failed to build email message", sl.Err(err))
		return err
	}

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	if err := client.Rcpt(to); err != nil {
		s.log.Error("Failed to set RCPT TO", "recipient", to, sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}

// buildMessage собирает сырое SMTP-сообщение с заголовками.
func (s *SenderService) buildMessage(to, subject, textBody, htmlBody string) (string, error) {
	headers := []string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
	}

	if htmlBody == "" {
		headers = append(headers,
			"Content-Type: text/plain; charset=\"UTF-8\"",
			"",
			textBody,
		)
		return strings.Join(headers, "\r\n"), nil
	}

	var buf strings.Builder
	writer := multipart.NewWriter(&buf)

	// Текстовая часть идет первой: почтовые клиенты показывают последнюю
	// из поддерживаемых альтернатив.
	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=\"UTF-8\""},
	})
	if err != nil {
		return "", fmt.Errorf("create text part: %w", err)
	}
	if _, err := textPart.Write([]byte(textBody)); err != nil {
		return "", fmt.Errorf("write text part: %w", err)
	}

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=\"UTF-8\""},
	})
	if err != nil {
		return "", fmt.Errorf("create html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return "", fmt.Errorf("write html part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	headers = append(headers,
		"Content-Type: multipart/alternative; boundary="+writer.Boundary(),
		"",
		buf.String(),
	)
	return strings.Join(headers, "\r\n"), nil
}
