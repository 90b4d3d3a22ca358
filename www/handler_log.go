package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/chartdef-go/database"
	"github.com/angas/chartdef-go/logging"
)

type logEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Attrs     string    `json:"attrs,omitempty"`
}

func NewLogHandler(logger *slog.Logger, db LogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := database.LogQuery{
			MinLevel: slog.LevelDebug,
			Contains: r.URL.Query().Get("q"),
			Page:     intOrDefault(r.URL, "page", 1),
			PageSize: intOrDefault(r.URL, "pageSize", 25),
		}
		if lvl := r.URL.Query().Get("level"); lvl != "" {
			q.MinLevel = logging.LevelFromString(&lvl)
		}

		page, err := db.GetLogEntries(r.Context(), q)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		entries := make([]logEntry, len(page.Entries))
		for i, e := range page.Entries {
			entries[i] = logEntry{
				Timestamp: e.Timestamp,
				Level:     e.Level.String(),
				Message:   e.Message,
				Attrs:     e.Attrs,
			}
		}

		writeJSON(w, logger, http.StatusOK, struct {
			Page     int        `json:"page"`
			PageSize int        `json:"pageSize"`
			Total    int        `json:"total"`
			Entries  []logEntry `json:"entries"`
		}{q.Page, q.PageSize, page.Total, entries})
	}
}
