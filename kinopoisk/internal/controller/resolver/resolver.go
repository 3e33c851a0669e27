package resolver

import (
	"context"
	"errors"
	"fmt"
	"mediatracker/kinopoisk/pkg/model"
	"mediatracker/pkg/logging"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerID = "kinopoisk-resolver"

var (
	// ErrTransport is returned when a catalog could not be queried.
	ErrTransport = errors.New("catalog unavailable")
	// ErrNoCrossReference is returned by CrossReference when the source item
	// has no IMDb id. Resolve continues with the fallback search.
	ErrNoCrossReference = errors.New("no cross-reference id")
	// ErrNoMatch is returned when no canonical item matches the source item.
	ErrNoMatch = errors.New("no canonical match")
)

// ResolutionError describes why a source item could not be resolved.
// It matches both its kind sentinel and the underlying cause.
type ResolutionError struct {
	SourceID int
	Title    string
	Kind     error
	Err      error
}

func (e *ResolutionError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "resolve kinopoisk %d", e.SourceID)
	if e.Title != "" {
		fmt.Fprintf(&sb, " (%q)", e.Title)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

type catalogGateway interface {
	FetchRatingDetail(ctx context.Context, sourceID int) (*model.CatalogRecord, error)
}

type canonicalGateway interface {
	FindByExternalID(ctx context.Context, imdbID string) (*model.CanonicalMedia, *model.CanonicalMedia, error)
	SearchTitle(ctx context.Context, title string, year int, kind model.MediaKind) ([]model.CanonicalMedia, error)
}

// Resolver maps source catalog items to canonical catalog items: by IMDb
// id when the source knows one, else by title search.
type Resolver struct {
	catalog   catalogGateway
	canonical canonicalGateway
	logger    *zap.Logger
}

// New creates a media resolver.
func New(catalog catalogGateway, canonical canonicalGateway, logger *zap.Logger) *Resolver {
	logger = logger.With(
		zap.String(logging.FieldComponent, "resolver"),
	)
	return &Resolver{catalog: catalog, canonical: canonical, logger: logger}
}

// Resolve resolves a source item. The returned error is a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, sourceID int) (*model.Resolution, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Resolver/Resolve",
		trace.WithAttributes(attribute.Int(logging.FieldSourceID, sourceID)))
	defer span.End()

	res, err := r.resolve(ctx, sourceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int(logging.FieldMediaID, res.Media.TmdbID),
		attribute.String("strategy", string(res.Strategy)),
	)
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, sourceID int) (*model.Resolution, error) {
	rec, err := r.CrossReference(ctx, sourceID)
	switch {
	case errors.Is(err, ErrNoCrossReference):
		r.logger.Info("No IMDb id, trying title search", zap.Int(logging.FieldSourceID, sourceID))
		return r.Fallback(ctx, rec)
	case err != nil:
		return nil, err
	}

	res, err := r.DirectLookup(ctx, rec)
	if errors.Is(err, ErrNoMatch) {
		r.logger.Info("IMDb id unknown to TMDb, trying title search",
			zap.Int(logging.FieldSourceID, sourceID),
			zap.String("imdbId", rec.ImdbID),
		)
		return r.Fallback(ctx, rec)
	}
	return res, err
}

// CrossReference fetches the source detail record. It returns the record
// together with ErrNoCrossReference when the record carries no IMDb id.
func (r *Resolver) CrossReference(ctx context.Context, sourceID int) (*model.CatalogRecord, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Resolver/CrossReference")
	defer span.End()

	rec, err := r.catalog.FetchRatingDetail(ctx, sourceID)
	if err != nil {
		r.logger.Warn("Failed to fetch Kinopoisk detail", zap.Int(logging.FieldSourceID, sourceID), zap.Error(err))
		return nil, &ResolutionError{SourceID: sourceID, Kind: ErrTransport, Err: err}
	}
	if rec.ImdbID == "" {
		return rec, &ResolutionError{SourceID: sourceID, Title: rec.SearchTitle(), Kind: ErrNoCrossReference}
	}
	return rec, nil
}

// DirectLookup finds the canonical item by the record's IMDb id. A movie
// match wins over a series match.
func (r *Resolver) DirectLookup(ctx context.Context, rec *model.CatalogRecord) (*model.Resolution, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Resolver/DirectLookup",
		trace.WithAttributes(attribute.String("imdbId", rec.ImdbID)))
	defer span.End()

	movie, series, err := r.canonical.FindByExternalID(ctx, rec.ImdbID)
	if err != nil {
		r.logger.Warn("TMDb find failed", zap.String("imdbId", rec.ImdbID), zap.Error(err))
		return nil, &ResolutionError{SourceID: rec.SourceID, Title: rec.SearchTitle(), Kind: ErrTransport, Err: err}
	}
	media := movie
	if media == nil {
		media = series
	}
	if media == nil {
		return nil, &ResolutionError{
			SourceID: rec.SourceID,
			Title:    rec.SearchTitle(),
			Kind:     ErrNoMatch,
			Err:      fmt.Errorf("imdb id %s", rec.ImdbID),
		}
	}
	res := &model.Resolution{Media: *media, Strategy: model.StrategyExternalID}
	res.Media.ImdbID = rec.ImdbID
	res.Media.KinopoiskID = rec.SourceID
	r.logger.Info("Resolved by IMDb id",
		zap.Int(logging.FieldSourceID, rec.SourceID),
		zap.Int(logging.FieldMediaID, res.Media.TmdbID),
		zap.String("kind", string(res.Media.Kind)),
	)
	return res, nil
}

// Fallback searches the canonical catalog by the record's title and year
// and accepts the first candidate.
func (r *Resolver) Fallback(ctx context.Context, rec *model.CatalogRecord) (*model.Resolution, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Resolver/Fallback")
	defer span.End()

	title := rec.SearchTitle()
	if title == "" {
		return nil, &ResolutionError{SourceID: rec.SourceID, Kind: ErrNoMatch, Err: errors.New("no title to search by")}
	}
	kind := model.MediaKindFromType(rec.Type)
	span.SetAttributes(attribute.String(logging.FieldTitle, title), attribute.Int("year", rec.Year))

	candidates, err := r.canonical.SearchTitle(ctx, title, rec.Year, kind)
	if err != nil {
		r.logger.Warn("TMDb search failed", zap.String(logging.FieldTitle, title), zap.Error(err))
		return nil, &ResolutionError{SourceID: rec.SourceID, Title: title, Kind: ErrTransport, Err: err}
	}
	if len(candidates) == 0 {
		return nil, &ResolutionError{
			SourceID: rec.SourceID,
			Title:    title,
			Kind:     ErrNoMatch,
			Err:      fmt.Errorf("no %s found for %q (%d)", kind, title, rec.Year),
		}
	}
	res := &model.Resolution{Media: candidates[0], Strategy: model.StrategyTitleSearch}
	res.Media.KinopoiskID = rec.SourceID
	r.logger.Info("Resolved by title search",
		zap.Int(logging.FieldSourceID, rec.SourceID),
		zap.Int(logging.FieldMediaID, res.Media.TmdbID),
		zap.String(logging.FieldTitle, title),
		zap.Int("candidates", len(candidates)),
	)
	return res, nil
}
