package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/chartdef-go/render"
	"github.com/gorilla/sessions"
)

func NewLibrariesHandler(logger *slog.Logger, registry *render.Registry, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, logger, http.StatusOK, struct {
			Libraries []string `json:"libraries"`
			Selected  string   `json:"selected,omitempty"`
		}{
			Libraries: registry.Libraries(),
			Selected:  preferredLibrary(store, r),
		})
	}
}

// NewLibraryHandler stores the visitor's preferred library in the
// session. An empty library clears the preference.
func NewLibraryHandler(logger *slog.Logger, registry *render.Registry, store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		library := r.FormValue("library")
		if library != "" {
			a, err := registry.Adapter(library)
			if err != nil {
				writeError(w, logger, err)
				return
			}
			library = a.Name()
		}

		// A broken cookie gives a fresh session, which is what we want.
		session, _ := store.Get(r, sessionName)
		if library == "" {
			delete(session.Values, sessionLibraryKey)
		} else {
			session.Values[sessionLibraryKey] = library
		}
		if err := session.Save(r, w); err != nil {
			logger.Error("saving session failed", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
