package ratings

import (
	"mediatracker/kinopoisk/pkg/model"
	"strconv"
	"strings"
)

// GenerateContent renders the review text of an imported rating.
func GenerateContent(rating *model.RawRating, media *model.CanonicalMedia) string {
	var sb strings.Builder
	sb.WriteString("Imported from Kinopoisk\n\n")

	sb.WriteString("**")
	sb.WriteString(media.Title)
	sb.WriteString("**")
	if year := media.ReleaseYear(); year > 0 {
		sb.WriteString(" (")
		sb.WriteString(strconv.Itoa(year))
		sb.WriteString(")")
	}
	sb.WriteString("\n\n")

	if media.Overview != "" {
		sb.WriteString(media.Overview)
		sb.WriteString("\n\n")
	}

	writeScore(&sb, "My Rating", float64(rating.UserRating))
	writeScore(&sb, "Kinopoisk Rating", rating.KinopoiskRating)
	if rating.ImdbRating != nil && *rating.ImdbRating > 0 {
		writeScore(&sb, "IMDb Rating", *rating.ImdbRating)
	}

	sb.WriteString("\n---\n")
	sb.WriteString("*Originally rated on Kinopoisk (ID: ")
	sb.WriteString(strconv.Itoa(rating.SourceID))
	sb.WriteString(")*")
	return sb.String()
}

func writeScore(sb *strings.Builder, label string, v float64) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	sb.WriteString("/10\n")
}
