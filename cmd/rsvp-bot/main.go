package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	"pickup-rsvp/internal/config"
	"pickup-rsvp/internal/handler"
	"pickup-rsvp/internal/messaging"
	"pickup-rsvp/internal/schedule"
	"pickup-rsvp/internal/server"
	"pickup-rsvp/internal/storage"
	"pickup-rsvp/internal/table"
	"pickup-rsvp/internal/whatsapp"

	"github.com/rs/zerolog"
)

func main() {
	console := flag.Bool("console", false, "Start the interactive operator console")
	broadcast := flag.Bool("broadcast", false, "Send the roll call to the roster and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := run(cfg, logger, *console, *broadcast); err != nil {
		logger.Fatal().Err(err).Msg("Exiting")
	}
}

func run(cfg *config.Config, logger zerolog.Logger, console, broadcastOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.EventTimezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %w", cfg.EventTimezone, err)
	}
	weekday, err := schedule.ParseWeekday(cfg.EventWeekday)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	rsvpStorage := storage.NewStorage(store, storage.Ranges{
		Roster:      cfg.RangeRoster,
		RSVPs:       cfg.RangeRSVPs,
		InboundLog:  cfg.RangeInboundLog,
		OutboundLog: cfg.RangeOutboundLog,
	}, storage.Options{
		BetaOnly: cfg.RosterBetaOnly,
		Location: loc,
		Logger:   logger,
	})

	var (
		sender   messaging.Sender
		whatsApp *whatsapp.Service
	)
	switch cfg.MessagingProvider {
	case config.ProviderTwilio:
		sender = messaging.NewTwilio(messaging.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioPhoneNumber,
		}, logger)
	case config.ProviderWhatsApp:
		if err := os.MkdirAll(cfg.WhatsAppDataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		whatsApp, err = whatsapp.NewService(ctx, &whatsapp.Config{DataDir: cfg.WhatsAppDataDir}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize WhatsApp service: %w", err)
		}
		sender = whatsApp
	default:
		sender = messaging.NewLogSender(logger)
	}

	gateway := messaging.NewGateway(sender, rsvpStorage.Messages, logger)
	scheduler := schedule.New(loc, weekday)

	rsvpHandler := handler.NewRSVPHandler(rsvpStorage.Roster, rsvpStorage.RSVPs, gateway, scheduler, &handler.Config{
		TeamName:      cfg.TeamName,
		OrganizerName: cfg.OrganizerName,
		Sport:         cfg.Sport,
		EventTime:     cfg.EventTime,
	}, logger)

	if whatsApp != nil {
		whatsApp.SetMessageHandler(rsvpHandler.HandleMessage)
		logger.Info().Msg("Connecting to WhatsApp...")
		if err := whatsApp.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to WhatsApp: %w", err)
		}
		defer whatsApp.Disconnect()
	}

	if broadcastOnly {
		n, err := rsvpHandler.Broadcast(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Messages sent to %d people\n", n)
		return nil
	}

	srvCfg := server.Config{Port: cfg.Port, PublicURL: cfg.PublicURL}
	if cfg.TwilioValidateSignature {
		srvCfg.Validator = messaging.NewSignatureValidator(cfg.TwilioAuthToken)
	}
	srv := server.New(rsvpHandler, rsvpStorage.Roster, srvCfg, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	if console {
		go startCLI(ctx, stop, rsvpHandler, rsvpStorage.Roster)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Println("\n\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured table backend
func openStore(ctx context.Context, cfg *config.Config) (table.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create directory: %w", err)
		}
		db, err := table.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return db, func() { db.Close() }, nil
	case config.StoreMemory:
		return table.NewMemory(), func() {}, nil
	default:
		sheets, err := table.NewSheets(ctx, cfg.SpreadsheetID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		return sheets, func() {}, nil
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
