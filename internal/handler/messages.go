package handler

import (
	"fmt"
	"strings"

	"pickup-rsvp/internal/models"
)

const (
	msgNotInRoster = "Sorry, you are not in our roster."
	msgThankYou    = "Thank you!\n\nYou can change your RSVP any time by sending another YES/NO."
)

func unknownCommandMessage() string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = string(c)
	}
	return fmt.Sprintf("Sorry, I am a dumb bot. The only responses I understand at this time are: %s.", strings.Join(names, ", "))
}

func unsubscribedMessage(cfg *Config) string {
	return fmt.Sprintf(
		"You're now unsubscribed from future %s messages. If you change your mind later, please reach out to %s directly.",
		cfg.TeamName, cfg.OrganizerName,
	)
}

func statusMessage(summary *models.RSVPSummary) string {
	yes := summary.YesNames()
	no := summary.NoNames()
	return fmt.Sprintf(
		"For %s, so far we have %d YES and %d NO.\n\nYes: %s\n\nNo: %s",
		summary.Date, len(yes), len(no), strings.Join(yes, ", "), strings.Join(no, ", "),
	)
}

func rollCallMessage(cfg *Config, date string) string {
	return fmt.Sprintf(
		"Hey %s! Roll call for %s on %s at %s.\n\n"+
			"Please reply YES/NO if you can make it.\n\n"+
			"You can also reply STATUS to see responses so far. Text LEAVE if you want to stop receiving these messages.",
		cfg.TeamName, cfg.Sport, date, cfg.EventTime,
	)
}
