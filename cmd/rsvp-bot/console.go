package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"pickup-rsvp/internal/handler"
	"pickup-rsvp/internal/models"
)

type rosterLister interface {
	All(ctx context.Context) ([]models.RosterEntry, error)
}

func startCLI(ctx context.Context, stop func(), rsvpHandler *handler.RSVPHandler, roster rosterLister) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. Send roll call")
		fmt.Println("  2. View roster")
		fmt.Println("  3. View RSVP status")
		fmt.Println("  4. Exit")
		fmt.Print("\nEnter command (1-4): ")

		if !scanner.Scan() {
			break
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			sendRollCall(ctx, rsvpHandler)
		case "2":
			viewRoster(ctx, roster)
		case "3":
			viewStatus(ctx, rsvpHandler)
		case "4":
			fmt.Println("Exiting...")
			stop()
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func sendRollCall(ctx context.Context, rsvpHandler *handler.RSVPHandler) {
	fmt.Printf("\nSending roll call for %s...\n", rsvpHandler.NextEventDate())
	n, err := rsvpHandler.Broadcast(ctx)
	if err != nil {
		fmt.Printf("❌ Error sending roll call after %d messages: %v\n", n, err)
		return
	}
	fmt.Printf("✅ Messages sent to %d people\n", n)
}

func viewRoster(ctx context.Context, roster rosterLister) {
	entries, err := roster.All(ctx)
	if err != nil {
		fmt.Printf("❌ Error reading roster: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("\nRoster not found.")
		return
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	fmt.Printf("\n📋 Roster (%d total):\n", len(entries))
	fmt.Println(strings.Repeat("-", 60))
	for _, e := range entries {
		active := "no"
		if e.Active {
			active = "yes"
		}
		fmt.Printf("%-24s %-16s active: %s\n", e.Name, e.Phone, active)
	}
	fmt.Println(strings.Repeat("-", 60))
}

func viewStatus(ctx context.Context, rsvpHandler *handler.RSVPHandler) {
	text, err := rsvpHandler.Status(ctx, rsvpHandler.NextEventDate())
	if err != nil {
		fmt.Printf("❌ Error reading RSVPs: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println(text)
}
