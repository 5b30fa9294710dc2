// Package server exposes the RSVP bot over HTTP: the Twilio webhook, the
// broadcast trigger and a few read-only pages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
	"time"

	"pickup-rsvp/internal/handler"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// RSVPService is the part of the RSVP handler the HTTP surface needs
type RSVPService interface {
	HandleWebhook(ctx context.Context, from, body string) (string, error)
	Broadcast(ctx context.Context) (int, error)
	Status(ctx context.Context, date string) (string, error)
	NextEventDate() string
}

// ActiveRoster lists the players currently on the roster
type ActiveRoster interface {
	GetActiveRoster(ctx context.Context) (map[string]string, error)
}

// SignatureValidator verifies that a webhook call came from the provider
type SignatureValidator interface {
	Validate(url string, params map[string]string, signature string) bool
}

type Config struct {
	Port string
	// PublicURL is the externally visible base URL, used to check webhook
	// signatures behind proxies
	PublicURL string
	// Validator is nil when signature checking is off
	Validator SignatureValidator
}

type Server struct {
	rsvp   RSVPService
	roster ActiveRoster
	cfg    Config
	log    zerolog.Logger
	http   *http.Server
}

// New creates the server and registers its routes
func New(rsvp RSVPService, roster ActiveRoster, cfg Config, logger zerolog.Logger) *Server {
	s := &Server{
		rsvp:   rsvp,
		roster: roster,
		cfg:    cfg,
		log:    logger.With().Str("component", "http").Logger(),
	}

	s.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

// Handler returns the router wrapped in the request logging and CORS middleware
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/roster", s.handleRoster).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/send-rsvp", s.handleSendRSVP).Methods(http.MethodGet)
	r.Handle("/twilio", s.verifySignature(http.HandlerFunc(s.handleTwilio))).Methods(http.MethodPost)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, fmt.Sprintf("Next game: %s", s.rsvp.NextEventDate()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := s.roster.GetActiveRoster(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if len(roster) == 0 {
		writeText(w, http.StatusBadRequest, "Roster not found")
		return
	}

	names := make([]string, 0, len(roster))
	for _, name := range roster {
		names = append(names, html.EscapeString(name))
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "<strong>Roster:</strong><br>- "+strings.Join(names, "<br>- "))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	text, err := s.rsvp.Status(r.Context(), s.rsvp.NextEventDate())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, http.StatusOK, text)
}

func (s *Server) handleSendRSVP(w http.ResponseWriter, r *http.Request) {
	n, err := s.rsvp.Broadcast(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf("Messages sent to %d people", n))
}

func (s *Server) handleTwilio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "Error: Invalid form body")
		return
	}

	doc, err := s.rsvp.HandleWebhook(r.Context(), r.PostForm.Get("From"), r.PostForm.Get("Body"))
	if errors.Is(err, handler.ErrUnsupportedCommand) {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Unsupported command reached the webhook")
		writeText(w, http.StatusInternalServerError, "Error: Unsupported text message.")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, doc)
}

// verifySignature rejects webhook calls whose X-Twilio-Signature does not
// match, when a validator is configured
func (s *Server) verifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Validator == nil {
			next.ServeHTTP(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			writeText(w, http.StatusBadRequest, "Error: Invalid form body")
			return
		}

		params := make(map[string]string, len(r.PostForm))
		for key := range r.PostForm {
			params[key] = r.PostForm.Get(key)
		}

		url := s.cfg.PublicURL + r.URL.RequestURI()
		if !s.cfg.Validator.Validate(url, params, r.Header.Get("X-Twilio-Signature")) {
			zerolog.Ctx(r.Context()).Warn().Str("url", url).Msg("Rejected webhook with bad signature")
			writeText(w, http.StatusForbidden, "Error: Invalid signature")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger tags each request with an id and logs its outcome
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		logger := s.log.With().Str("request_id", id).Logger()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context())))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

// fail logs an upstream error and answers with an opaque 500
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	writeText(w, http.StatusInternalServerError, "Internal server error")
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, text)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
