package www

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/definition"
	"github.com/angas/chartdef-go/render"
	"github.com/angas/chartdef-go/source"
	"github.com/gorilla/sessions"
)

const (
	sessionName       = "chartdef"
	sessionLibraryKey = "library"
)

var unprocessable = []error{
	chart.ErrUnsupportedChartType,
	chart.ErrMalformedSeriesData,
	chart.ErrAmbiguousSecondaryAxis,
	chart.ErrInvalidRotation,
	chart.ErrInvalidAxes,
	chart.ErrMissingData,
	chart.ErrInvalidLegendPosition,
	definition.ErrIncompatibleMergeShape,
	source.ErrEmptyTable,
	catalog.ErrSourceOutsideCatalog,
}

func intOrDefault(u *url.URL, key string, defaultValue int) int {
	if v := u.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultValue
}

func statusFor(err error) int {
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, render.ErrUnknownLibrary) {
		return http.StatusNotFound
	}
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity
	}
	for _, e := range unprocessable {
		if errors.Is(err, e) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	} else {
		logger.Debug("request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	writeJSON(w, logger, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response failed", slog.Any("error", err))
	}
}

// preferredLibrary is the library stored in the visitor's session, "" if
// none.
func preferredLibrary(store sessions.Store, r *http.Request) string {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	library, _ := session.Values[sessionLibraryKey].(string)
	return library
}
