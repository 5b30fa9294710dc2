package handler

import (
	"context"
	"sort"
)

// Broadcast sends the roll call for the next event to every active player and
// returns how many were messaged. The first failed send stops the broadcast.
func (h *RSVPHandler) Broadcast(ctx context.Context) (int, error) {
	roster, err := h.roster.GetActiveRoster(ctx)
	if err != nil {
		return 0, err
	}

	date := h.schedule.NextEventDate()
	message := rollCallMessage(h.config, date)

	phones := make([]string, 0, len(roster))
	for phone := range roster {
		phones = append(phones, phone)
	}
	sort.Strings(phones)

	for i, phone := range phones {
		if err := h.gateway.Send(ctx, phone, message); err != nil {
			h.log.Error().Err(err).Int("sent", i).Int("total", len(phones)).Msg("Broadcast stopped")
			return i, err
		}
	}

	h.log.Info().Str("date", date).Int("recipients", len(phones)).Msg("Sent roll call")
	return len(phones), nil
}
