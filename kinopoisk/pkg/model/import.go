package model

import (
	"fmt"
	"time"
)

// FailureStage defines the conversion stage an item failed at.
type FailureStage string

// Failure stages.
const (
	StageResolve  = FailureStage("resolve")
	StageReview   = FailureStage("review")
	StageCanceled = FailureStage("canceled")
)

// FailureDetail attributes a conversion failure to a source item.
type FailureDetail struct {
	SourceID int          `json:"kinopoiskId"`
	Title    string       `json:"title"`
	Stage    FailureStage `json:"stage"`
	Reason   string       `json:"reason"`
}

func (f FailureDetail) String() string {
	return fmt.Sprintf("%s (ID: %d) [%s]: %s", f.Title, f.SourceID, f.Stage, f.Reason)
}

// BatchResult defines the outcome of a batch conversion.
type BatchResult struct {
	Reviews  []Review        `json:"reviews"`
	Failures []FailureDetail `json:"failures"`
}

// ImportSummary defines the outcome of an import request.
type ImportSummary struct {
	TotalImported  int             `json:"totalImported"`
	TotalConverted int             `json:"totalConverted"`
	Reviews        []Review        `json:"reviews"`
	Failures       []FailureDetail `json:"failures"`
}

// StopReason defines why the importer stopped paginating.
type StopReason string

// Stop reasons.
const (
	StopCompleted = StopReason("completed")
	StopEmptyPage = StopReason("empty_page")
	StopPageError = StopReason("page_error")
	StopCanceled  = StopReason("canceled")
)

// RatingImport defines the outcome of importing all ratings of a user.
type RatingImport struct {
	Ratings      []RawRating
	PagesFetched int
	TotalPages   int
	StopReason   StopReason
	// LastError is set when a page failure stopped the import.
	LastError error
}

// ImportStatus defines the final status of an import run.
type ImportStatus string

// Import run statuses.
const (
	ImportStatusSucceeded = ImportStatus("succeeded")
	ImportStatusPartial   = ImportStatus("partial")
	ImportStatusFailed    = ImportStatus("failed")
)

// ImportRun defines a recorded import request.
type ImportRun struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	SourceUserID   string       `json:"kinopoiskUserId"`
	Status         ImportStatus `json:"status"`
	StopReason     StopReason   `json:"stopReason"`
	PagesFetched   int          `json:"pagesFetched"`
	TotalImported  int          `json:"totalImported"`
	TotalConverted int          `json:"totalConverted"`
	TotalFailed    int          `json:"totalFailed"`
	StartedAt      time.Time    `json:"startedAt"`
	FinishedAt     time.Time    `json:"finishedAt"`
}

// ImportEvent defines an event published when an import run completes.
type ImportEvent struct {
	RunID          string       `json:"runId"`
	UserID         string       `json:"userId"`
	SourceUserID   string       `json:"kinopoiskUserId"`
	Status         ImportStatus `json:"status"`
	TotalImported  int          `json:"totalImported"`
	TotalConverted int          `json:"totalConverted"`
	TotalFailed    int          `json:"totalFailed"`
	Timestamp      time.Time    `json:"timestamp"`
}

func (ev *ImportEvent) String() string {
	return fmt.Sprintf("ImportEvent{runId=%s, userId=%s, status=%s, converted=%d/%d}",
		ev.RunID, ev.UserID, ev.Status, ev.TotalConverted, ev.TotalImported)
}
