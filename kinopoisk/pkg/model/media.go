package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaKind defines a canonical catalog media kind.
type MediaKind string

// Existing media kinds.
const (
	MediaKindMovie = MediaKind("movie")
	MediaKindTV    = MediaKind("tv")
)

// MediaKindFromType maps a source catalog coarse type tag to a media kind.
// FILM and MOVIE are movies, everything else is treated as a series.
func MediaKindFromType(coarseType string) MediaKind {
	switch strings.ToUpper(strings.TrimSpace(coarseType)) {
	case "FILM", "MOVIE":
		return MediaKindMovie
	default:
		return MediaKindTV
	}
}

// ReferenceType returns the review target type of the kind.
func (k MediaKind) ReferenceType() ReferenceType {
	if k == MediaKindMovie {
		return ReferenceTypeMovie
	}
	return ReferenceTypeTV
}

// ReferenceType defines the type of a review target.
type ReferenceType string

// Existing reference types.
const (
	ReferenceTypeMovie = ReferenceType("Movie")
	ReferenceTypeTV    = ReferenceType("TV")
)

// CanonicalMedia defines a media item of the canonical catalog.
type CanonicalMedia struct {
	TmdbID        int       `json:"tmdbId"`
	ImdbID        string    `json:"imdbId,omitempty"`
	KinopoiskID   int       `json:"kinopoiskId,omitempty"`
	Title         string    `json:"title"`
	OriginalTitle string    `json:"originalTitle,omitempty"`
	Kind          MediaKind `json:"kind"`
	ReleaseDate   string    `json:"releaseDate,omitempty"`
	Overview      string    `json:"overview,omitempty"`
	PosterPath    string    `json:"posterPath,omitempty"`
	BackdropPath  string    `json:"backdropPath,omitempty"`
	VoteAverage   float64   `json:"voteAverage"`
	VoteCount     int       `json:"voteCount"`
}

// ReleaseYear returns the year of the release date or 0 when it is unknown.
func (m *CanonicalMedia) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

func (m *CanonicalMedia) String() string {
	return fmt.Sprintf("CanonicalMedia{tmdbId=%d, kind=%s, title=%s}", m.TmdbID, m.Kind, m.Title)
}

// ResolutionStrategy defines how a canonical item was found.
type ResolutionStrategy string

// Resolution strategies.
const (
	StrategyExternalID  = ResolutionStrategy("external_id")
	StrategyTitleSearch = ResolutionStrategy("title_search")
)

// Resolution is a successful resolution of a source item.
type Resolution struct {
	Media    CanonicalMedia     `json:"media"`
	Strategy ResolutionStrategy `json:"strategy"`
}
