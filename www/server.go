package www

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/chartdef-go/charts"
	"github.com/angas/chartdef-go/config"
	"github.com/angas/chartdef-go/database"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// LogStore is the part of the database the log handler reads from.
type LogStore interface {
	GetLogEntries(ctx context.Context, q database.LogQuery) (database.LogPage, error)
}

type Server struct {
	logger   *slog.Logger
	config   config.AppConfigApi
	service  *charts.Service
	db       LogStore
	hub      *Hub
	sessions sessions.Store
	mux      *http.ServeMux
}

// Message is what websocket clients receive for every (re)rendered chart.
type Message struct {
	Chart      string          `json:"chart"`
	Library    string          `json:"library"`
	Definition json.RawMessage `json:"definition"`
}

func NewServer(service *charts.Service, db LogStore, config config.AppConfigApi) *Server {
	logger := slog.Default().With("module", "www")

	var key []byte
	if config.SessionKey != nil && *config.SessionKey != "" {
		key = []byte(*config.SessionKey)
	} else {
		logger.Warn("no session key configured, sessions will not survive a restart")
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		logger:   logger,
		config:   config,
		service:  service,
		db:       db,
		hub:      NewHub(logger.With(slog.String("component", "hub"))),
		sessions: store,
		mux:      http.NewServeMux(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	s.mux.Handle("/charts", logReqMW(NewChartsHandler(
		s.logger.With(slog.String("handler", "charts")),
		s.service)))

	s.mux.Handle("/charts/{id}", logReqMW(NewChartHandler(
		s.logger.With(slog.String("handler", "chart")),
		s.service,
		s.sessions)))

	s.mux.Handle("/preview", logReqMW(NewPreviewHandler(
		s.logger.With(slog.String("handler", "preview")),
		s.service,
		s.sessions)))

	s.mux.Handle("/libraries", logReqMW(NewLibrariesHandler(
		s.logger.With(slog.String("handler", "libraries")),
		s.service.Registry(),
		s.sessions)))

	s.mux.Handle("/library", logReqMW(NewLibraryHandler(
		s.logger.With(slog.String("handler", "library")),
		s.service.Registry(),
		s.sessions)))

	s.mux.Handle("/log", logReqMW(NewLogHandler(
		s.logger.With(slog.String("handler", "log")),
		s.db)))

	s.mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Publish pushes a rendered definition to every websocket client.
func (s *Server) Publish(chartID, library string, body []byte) error {
	msg, err := json.Marshal(Message{Chart: chartID, Library: library, Definition: body})
	if err != nil {
		return fmt.Errorf("encoding websocket message: %w", err)
	}
	if !s.hub.Broadcast(msg) {
		return errors.New("websocket hub is stopped")
	}
	return nil
}

// ChartsChanged re-renders the given catalog charts and pushes them to
// the websocket clients. Charts no longer in the catalog are skipped.
func (s *Server) ChartsChanged(ctx context.Context, ids []string) {
	for _, id := range ids {
		res, err := s.service.Definition(ctx, id, "")
		if err != nil {
			s.logger.Debug("changed chart not rendered", slog.String("chart", id), slog.Any("error", err))
			continue
		}
		if err := s.Publish(res.ChartID, res.Library, res.Body); err != nil {
			s.logger.Warn("pushing changed chart failed", slog.String("chart", id), slog.Any("error", err))
		}
	}
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("staring server...", "port", s.config.Port)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run(ctx)

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", slog.Any("error", err))
		}

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
		}
	}
}
