package model

import "fmt"

// RawRating defines a single rating of a user as returned by the source catalog.
type RawRating struct {
	SourceID        int      `json:"kinopoiskId"`
	ImdbID          string   `json:"imdbId,omitempty"`
	NameRu          string   `json:"nameRu,omitempty"`
	NameEn          string   `json:"nameEn,omitempty"`
	NameOriginal    string   `json:"nameOriginal,omitempty"`
	KinopoiskRating float64  `json:"ratingKinopoisk"`
	ImdbRating      *float64 `json:"ratingImdb,omitempty"`
	Year            int      `json:"year,omitempty"`
	Type            string   `json:"type"`
	PosterURL       string   `json:"posterUrl,omitempty"`
	UserRating      int      `json:"userRating"`
}

// DisplayTitle returns the first non-empty title of the rating.
func (r *RawRating) DisplayTitle() string {
	for _, t := range []string{r.NameRu, r.NameEn, r.NameOriginal} {
		if t != "" {
			return t
		}
	}
	return fmt.Sprintf("Kinopoisk #%d", r.SourceID)
}

func (r *RawRating) String() string {
	return fmt.Sprintf("RawRating{kinopoiskId=%d, type=%s, userRating=%d}", r.SourceID, r.Type, r.UserRating)
}

// CatalogRecord defines the source catalog detail record of one item.
type CatalogRecord struct {
	SourceID        int      `json:"kinopoiskId"`
	ImdbID          string   `json:"imdbId,omitempty"`
	NameRu          string   `json:"nameRu,omitempty"`
	NameEn          string   `json:"nameEn,omitempty"`
	NameOriginal    string   `json:"nameOriginal,omitempty"`
	Year            int      `json:"year,omitempty"`
	Type            string   `json:"type"`
	KinopoiskRating float64  `json:"ratingKinopoisk"`
	ImdbRating      *float64 `json:"ratingImdb,omitempty"`
}

// SearchTitle returns the title used for a title search: the original
// title, else the localized one.
func (c *CatalogRecord) SearchTitle() string {
	if c.NameOriginal != "" {
		return c.NameOriginal
	}
	return c.NameRu
}

// RatingsPage defines one page of a user's ratings.
type RatingsPage struct {
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Items      []RawRating `json:"items"`
}
