package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"
)

// TwilioConfig holds the Twilio account and the number messages come from
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// Twilio sends SMS through the Twilio Messages API
type Twilio struct {
	client *twilio.RestClient
	from   string
	log    zerolog.Logger
}

// NewTwilio creates a Twilio sender
func NewTwilio(cfg TwilioConfig, logger zerolog.Logger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &Twilio{
		client: client,
		from:   E164(cfg.From),
		log:    logger.With().Str("component", "twilio").Logger(),
	}
}

func (t *Twilio) SendMessage(ctx context.Context, phone, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(E164(phone))
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	ev := t.log.Debug().Str("to", phone)
	if resp.Sid != nil {
		ev = ev.Str("sid", *resp.Sid)
	}
	ev.Msg("Message sent")
	return nil
}

// E164 prefixes a bare digit string with "+"
func E164(phone string) string {
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}

// ReplyTwiML wraps body in a messaging response document
func ReplyTwiML(body string) (string, error) {
	doc, err := twiml.Messages([]twiml.Element{&twiml.MessagingMessage{Body: body}})
	if err != nil {
		return "", fmt.Errorf("failed to build reply: %w", err)
	}
	return doc, nil
}

// SignatureValidator checks the X-Twilio-Signature header of webhook calls
type SignatureValidator struct {
	validator twilioclient.RequestValidator
}

// NewSignatureValidator creates a validator for the account's auth token
func NewSignatureValidator(authToken string) *SignatureValidator {
	return &SignatureValidator{validator: twilioclient.NewRequestValidator(authToken)}
}

// Validate reports whether signature matches the full request URL and the
// posted form parameters
func (v *SignatureValidator) Validate(url string, params map[string]string, signature string) bool {
	return v.validator.Validate(url, params, signature)
}
