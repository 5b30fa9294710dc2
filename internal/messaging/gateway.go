// Package messaging sends texts through a provider and keeps the audit trail
// of every message in and out.
package messaging

import (
	"context"
	"fmt"

	"pickup-rsvp/internal/models"

	"github.com/rs/zerolog"
)

// Sender delivers a text message to a phone number
type Sender interface {
	SendMessage(ctx context.Context, phone, body string) error
}

// MessageLogger records a message in the audit trail
type MessageLogger interface {
	Log(ctx context.Context, phone, body string, direction models.Direction) error
}

// Gateway pairs a Sender with the message audit log
type Gateway struct {
	sender   Sender
	messages MessageLogger
	log      zerolog.Logger
}

// NewGateway creates a new messaging gateway
func NewGateway(sender Sender, messages MessageLogger, logger zerolog.Logger) *Gateway {
	return &Gateway{
		sender:   sender,
		messages: messages,
		log:      logger.With().Str("component", "gateway").Logger(),
	}
}

// Send delivers body to phone and logs it as outbound. A failed send is not
// logged.
func (g *Gateway) Send(ctx context.Context, phone, body string) error {
	if err := g.sender.SendMessage(ctx, phone, body); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", phone, err)
	}
	return g.Log(ctx, phone, body, models.Outbound)
}

// Log appends a message to the audit table for direction
func (g *Gateway) Log(ctx context.Context, phone, body string, direction models.Direction) error {
	if err := g.messages.Log(ctx, phone, body, direction); err != nil {
		return err
	}
	g.log.Debug().Str("phone", phone).Str("direction", string(direction)).Msg("Logged message")
	return nil
}

// BuildReply logs body as outbound and returns it as a TwiML document, for
// answering the inbound webhook directly instead of sending a new message
func (g *Gateway) BuildReply(ctx context.Context, phone, body string) (string, error) {
	if err := g.Log(ctx, phone, body, models.Outbound); err != nil {
		return "", err
	}
	return ReplyTwiML(body)
}

// LogSender is a Sender that only writes messages to the application log
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender creates a sender for local runs without a provider
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{log: logger.With().Str("component", "log-sender").Logger()}
}

func (s *LogSender) SendMessage(ctx context.Context, phone, body string) error {
	s.log.Info().Str("to", phone).Str("body", body).Msg("Message not sent, no provider configured")
	return nil
}
