package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pickup-rsvp/internal/models"
	"pickup-rsvp/internal/storage"

	"github.com/rs/zerolog"
)

// ErrUnsupportedCommand is returned when an accepted command has no branch
var ErrUnsupportedCommand = errors.New("unsupported text message")

// Command is a normalised inbound message body
type Command string

const (
	CommandYes    Command = "YES"
	CommandNo     Command = "NO"
	CommandStatus Command = "STATUS"
	CommandLeave  Command = "LEAVE"
)

var commands = []Command{CommandYes, CommandNo, CommandStatus, CommandLeave}

// Outcome names the branch an inbound message ended in
type Outcome string

const (
	OutcomeNotInRoster    Outcome = "not_in_roster"
	OutcomeUnknownCommand Outcome = "unknown_command"
	OutcomeRSVPSaved      Outcome = "rsvp_saved"
	OutcomeStatus         Outcome = "status"
	OutcomeUnsubscribed   Outcome = "unsubscribed"
)

// Reply is the single answer to one inbound message
type Reply struct {
	Phone   string
	Body    string
	Outcome Outcome
}

type Roster interface {
	GetActiveRoster(ctx context.Context) (map[string]string, error)
	SetActive(ctx context.Context, phone string, active bool) error
}

type Ledger interface {
	GetRSVPs(ctx context.Context, date string) (*models.RSVPSummary, error)
	SaveRSVP(ctx context.Context, playerName string, status models.RSVPStatus, date string) error
}

type Gateway interface {
	Send(ctx context.Context, phone, body string) error
	Log(ctx context.Context, phone, body string, direction models.Direction) error
	BuildReply(ctx context.Context, phone, body string) (string, error)
}

type Scheduler interface {
	NextEventDate() string
}

type Config struct {
	TeamName      string
	OrganizerName string
	Sport         string
	EventTime     string
}

type RSVPHandler struct {
	roster   Roster
	ledger   Ledger
	gateway  Gateway
	schedule Scheduler
	config   *Config
	log      zerolog.Logger
}

// NewRSVPHandler creates a new RSVP handler
func NewRSVPHandler(roster Roster, ledger Ledger, gateway Gateway, schedule Scheduler, cfg *Config, logger zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		roster:   roster,
		ledger:   ledger,
		gateway:  gateway,
		schedule: schedule,
		config:   cfg,
		log:      logger.With().Str("component", "rsvp").Logger(),
	}
}

// Process logs an inbound message and works out the reply to it. It does not
// log or deliver the reply; HandleWebhook and HandleMessage do that.
func (h *RSVPHandler) Process(ctx context.Context, from, body string) (Reply, error) {
	phone := storage.NormalizePhone(from)

	if err := h.gateway.Log(ctx, phone, body, models.Inbound); err != nil {
		return Reply{}, err
	}

	text := strings.ToUpper(strings.TrimSpace(body))
	log := h.log.With().Str("phone", phone).Str("message", text).Logger()

	roster, err := h.roster.GetActiveRoster(ctx)
	if err != nil {
		return Reply{}, err
	}
	name, ok := roster[phone]
	if !ok {
		log.Info().Msg("Sender not in roster")
		return Reply{Phone: phone, Body: msgNotInRoster, Outcome: OutcomeNotInRoster}, nil
	}

	command, ok := parseCommand(text)
	if !ok {
		log.Info().Str("player", name).Msg("Unrecognised message")
		return Reply{Phone: phone, Body: unknownCommandMessage(), Outcome: OutcomeUnknownCommand}, nil
	}

	date := h.schedule.NextEventDate()
	log = log.With().Str("player", name).Str("date", date).Logger()

	switch command {
	case CommandYes, CommandNo:
		if err := h.ledger.SaveRSVP(ctx, name, models.RSVPStatus(command), date); err != nil {
			return Reply{}, err
		}
		log.Info().Msg("Saved RSVP")
		return Reply{Phone: phone, Body: msgThankYou, Outcome: OutcomeRSVPSaved}, nil

	case CommandStatus:
		text, err := h.Status(ctx, date)
		if err != nil {
			return Reply{}, err
		}
		return Reply{Phone: phone, Body: text, Outcome: OutcomeStatus}, nil

	case CommandLeave:
		if err := h.roster.SetActive(ctx, phone, false); err != nil {
			return Reply{}, err
		}
		log.Info().Msg("Player left the roster")
		return Reply{Phone: phone, Body: unsubscribedMessage(h.config), Outcome: OutcomeUnsubscribed}, nil
	}

	return Reply{}, fmt.Errorf("%w: %s", ErrUnsupportedCommand, command)
}

// HandleWebhook processes an inbound SMS and returns the TwiML reply for the
// webhook response
func (h *RSVPHandler) HandleWebhook(ctx context.Context, from, body string) (string, error) {
	reply, err := h.Process(ctx, from, body)
	if err != nil {
		return "", err
	}
	return h.gateway.BuildReply(ctx, reply.Phone, reply.Body)
}

// HandleMessage processes an inbound message from a push transport and sends
// the reply back as a new message
func (h *RSVPHandler) HandleMessage(ctx context.Context, from, body string) error {
	reply, err := h.Process(ctx, from, body)
	if err != nil {
		return err
	}
	return h.gateway.Send(ctx, reply.Phone, reply.Body)
}

// Status returns the RSVP summary text for date
func (h *RSVPHandler) Status(ctx context.Context, date string) (string, error) {
	summary, err := h.ledger.GetRSVPs(ctx, date)
	if err != nil {
		return "", err
	}
	return statusMessage(summary), nil
}

// NextEventDate returns the date RSVPs are currently recorded against
func (h *RSVPHandler) NextEventDate() string {
	return h.schedule.NextEventDate()
}

func parseCommand(text string) (Command, bool) {
	for _, c := range commands {
		if Command(text) == c {
			return c, true
		}
	}
	return "", false
}
