// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outbound transactional email (confirmation codes).

Delivery is strictly best-effort: the signup flow succeeds or fails on record
creation, never on mail transport. Callers fire Send in a goroutine and log
the returned error; nothing downstream of this package reaches the client.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender is the message-delivery collaborator consumed by the auth service.
type Sender interface {
	// Send delivers a single plain-text message. The error is for logging
	// only; callers must not surface it to API clients.
	Send(ctx context.Context, to, subject, body string) error
}

// # SMTP Delivery

// SMTPSender delivers mail through a single SMTP relay using the standard
// net/smtp client.
type SMTPSender struct {
	addr string // host:port
	host string
	from string
	auth smtp.Auth
}

// NewSMTPSender configures an SMTP relay. Username/password are optional for
// relays that accept unauthenticated submission from the service network.
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		host: host,
		from: from,
		auth: auth,
	}
}

// Send implements [Sender] over SMTP.
func (sender *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	// net/smtp has no context support; rely on the relay's own timeouts and
	// the fact that callers run Send off the request path.
	if err := ctx.Err(); err != nil {
		return err
	}

	message := strings.Join([]string{
		"From: " + sender.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(sender.addr, sender.auth, sender.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("mail: smtp delivery to %s failed: %w", sender.host, err)
	}

	return nil
}

// # Development Delivery

// LogSender writes messages to the structured log instead of sending them.
// It is the default when no SMTP relay is configured, so local development
// surfaces confirmation codes in the server output.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only [Sender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender] by logging the message.
func (sender *LogSender) Send(ctx context.Context, to, subject, body string) error {
	sender.logger.InfoContext(ctx, "mail_logged_instead_of_sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
