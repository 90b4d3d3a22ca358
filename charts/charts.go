// Package charts renders catalog documents into chart definitions and
// caches the results.
package charts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/database"
	"github.com/angas/chartdef-go/render"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
)

// Store caches rendered definitions. *database.Database implements it.
type Store interface {
	SaveDefinition(ctx context.Context, row database.DefinitionRow) error
	GetDefinition(ctx context.Context, chartID, library string) (database.DefinitionRow, error)
	DeleteDefinitions(ctx context.Context, chartID string) error
}

type Defaults struct {
	Library     string
	Colors      []string
	StrictMerge bool
}

// Result is a rendered definition as JSON.
type Result struct {
	ChartID string
	Library string
	Hash    string
	Body    json.RawMessage
	Cached  bool
}

type Service struct {
	logger   *slog.Logger
	catalog  *catalog.Catalog
	registry *render.Registry
	store    Store
	defaults Defaults
}

// New creates a service. store may be nil, definitions are then
// rendered on every request.
func New(logger *slog.Logger, cat *catalog.Catalog, registry *render.Registry, store Store, defaults Defaults) *Service {
	return &Service{
		logger:   logger.With(slog.String("module", "charts")),
		catalog:  cat,
		registry: registry,
		store:    store,
		defaults: defaults,
	}
}

func (s *Service) Registry() *render.Registry {
	return s.registry
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Library picks the library for doc: the requested one, then the one
// the document prefers, then the configured default.
func (s *Service) Library(doc *catalog.Document, requested string) string {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested
	}
	if doc != nil && doc.Library != "" {
		return doc.Library
	}
	return s.defaults.Library
}

// Definition renders the catalog chart id for library, serving the
// cached definition when the chart input has not changed since.
func (s *Service) Definition(ctx context.Context, id, library string) (Result, error) {
	doc, err := s.catalog.Get(id)
	if err != nil {
		return Result{}, err
	}
	library = s.Library(doc, library)

	if _, err := s.registry.Adapter(library); err != nil {
		return Result{}, err
	}

	in, err := s.input(doc, s.catalog.Dir())
	if err != nil {
		return Result{}, err
	}

	opts := s.options()
	hash, err := Hash(library, opts, in)
	if err != nil {
		return Result{}, err
	}

	if s.store != nil {
		row, err := s.store.GetDefinition(ctx, doc.ID, library)
		switch {
		case err == nil && row.Hash == hash:
			return Result{ChartID: doc.ID, Library: library, Hash: hash, Body: json.RawMessage(row.Body), Cached: true}, nil
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			s.logger.Warn("definition cache lookup failed", slog.String("chart", doc.ID), slog.Any("error", err))
		}
	}

	body, err := s.registry.RenderJSON(library, in, opts)
	if err != nil {
		return Result{}, fmt.Errorf("chart %s: %w", doc.ID, err)
	}

	if s.store != nil {
		if err := s.store.SaveDefinition(ctx, database.DefinitionRow{
			ChartID: doc.ID,
			Library: library,
			Hash:    hash,
			Body:    string(body),
		}); err != nil {
			s.logger.Warn("definition cache update failed", slog.String("chart", doc.ID), slog.Any("error", err))
		}
	}

	return Result{ChartID: doc.ID, Library: library, Hash: hash, Body: body}, nil
}

// Preview renders a document that is not part of the catalog. Nothing
// is cached. Workbook paths are resolved against the catalog directory
// and must stay inside it.
func (s *Service) Preview(doc *catalog.Document, library string) (Result, error) {
	id := doc.ID
	if id == "" {
		id = "preview-" + uuid.NewString()
	}
	library = s.Library(doc, library)

	if err := doc.CheckSource(); err != nil {
		return Result{}, fmt.Errorf("chart %s: %w", id, err)
	}

	in, err := s.input(doc, s.catalog.Dir())
	if err != nil {
		return Result{}, err
	}

	opts := s.options()
	body, err := s.registry.RenderJSON(library, in, opts)
	if err != nil {
		return Result{}, fmt.Errorf("chart %s: %w", id, err)
	}

	hash, err := Hash(library, opts, in)
	if err != nil {
		return Result{}, err
	}

	return Result{ChartID: id, Library: library, Hash: hash, Body: body}, nil
}

// RenderAll renders every catalog chart for every library able to draw
// its type. Failing charts are logged and reported in the joined error,
// the others are still returned.
func (s *Service) RenderAll(ctx context.Context) ([]Result, error) {
	var results []Result
	var errs []error

	for _, doc := range s.catalog.List() {
		for _, library := range s.registry.Libraries() {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			if !s.registry.Supports(library, doc.Chart.Type) {
				continue
			}

			res, err := s.Definition(ctx, doc.ID, library)
			if err != nil {
				s.logger.Warn("rendering chart failed",
					slog.String("chart", doc.ID),
					slog.String("library", library),
					slog.Any("error", err))
				errs = append(errs, err)
				continue
			}
			results = append(results, res)
		}
	}

	return results, errors.Join(errs...)
}

// Invalidate drops the cached definitions of the given charts.
func (s *Service) Invalidate(ctx context.Context, ids []string) {
	if s.store == nil {
		return
	}
	for _, id := range ids {
		if err := s.store.DeleteDefinitions(ctx, id); err != nil {
			s.logger.Warn("definition cache invalidation failed", slog.String("chart", id), slog.Any("error", err))
		}
	}
}

// input snapshots the chart input of doc. Series data and raw options
// are copied so the result shares nothing with the catalog.
func (s *Service) input(doc *catalog.Document, baseDir string) (chart.Input, error) {
	in, err := doc.Input(baseDir)
	if err != nil {
		return chart.Input{}, err
	}

	var series []chart.Series
	if err := deepcopy.Copy(&series, in.Series); err != nil {
		return chart.Input{}, fmt.Errorf("copying series of %s: %w", doc.ID, err)
	}
	in.Series = series

	if in.Spec.RawOptions != nil {
		var raw map[string]any
		if err := deepcopy.Copy(&raw, in.Spec.RawOptions); err != nil {
			return chart.Input{}, fmt.Errorf("copying raw options of %s: %w", doc.ID, err)
		}
		in.Spec.RawOptions = raw
	}

	if len(in.Spec.Colors) == 0 && len(s.defaults.Colors) > 0 {
		in.Spec.Colors = s.defaults.Colors
	}

	return in, nil
}

func (s *Service) options() render.Options {
	return render.Options{StrictMerge: s.defaults.StrictMerge}
}

// Hash identifies a chart input rendered for a library with opts.
func Hash(library string, opts render.Options, in chart.Input) (string, error) {
	data, err := json.Marshal(struct {
		Library     string      `json:"library"`
		StrictMerge bool        `json:"strict_merge"`
		Input       chart.Input `json:"input"`
	}{library, opts.StrictMerge, in})
	if err != nil {
		return "", fmt.Errorf("hashing chart input: %w", err)
	}

	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
