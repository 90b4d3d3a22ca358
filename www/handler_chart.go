package www

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/charts"
	"github.com/gorilla/sessions"
)

const maxDocumentSize = 1 << 20

type chartSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Type    string `json:"type"`
	Library string `json:"library,omitempty"`
}

func NewChartsHandler(logger *slog.Logger, service *charts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		docs := service.Catalog().List()
		list := make([]chartSummary, len(docs))
		for i, d := range docs {
			list[i] = chartSummary{
				ID:      d.ID,
				Title:   d.Chart.Title,
				Type:    string(d.Chart.Type),
				Library: d.Library,
			}
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// NewChartHandler serves the definition of one catalog chart. The
// library comes from the query, then the session, then the document.
func NewChartHandler(logger *slog.Logger, service *charts.Service, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		library := r.URL.Query().Get("library")
		if library == "" {
			library = preferredLibrary(store, r)
		}

		res, err := service.Definition(r.Context(), r.PathValue("id"), library)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		etag := `"` + res.Hash + `"`
		w.Header().Set("ETag", etag)
		w.Header().Set("X-Chart-Library", res.Library)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(res.Body); err != nil {
			logger.Warn("writing definition failed", slog.Any("error", err))
		}
	}
}

// NewPreviewHandler renders a posted chart document without storing it.
func NewPreviewHandler(logger *slog.Logger, service *charts.Service, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
		if err != nil {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		doc, err := catalog.ParseDocument("preview", data)
		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				writeJSON(w, logger, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			writeError(w, logger, err)
			return
		}

		library := r.URL.Query().Get("library")
		if library == "" {
			library = preferredLibrary(store, r)
		}

		res, err := service.Preview(doc, library)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Chart-Library", res.Library)
		if _, err := w.Write(res.Body); err != nil {
			logger.Warn("writing preview failed", slog.Any("error", err))
		}
	}
}
