package model

import (
	"time"

	"github.com/google/uuid"
)

// User defines an authenticated application user.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreateReviewRequest defines a request to the review service.
type CreateReviewRequest struct {
	AuthorID      uuid.UUID     `json:"authorId" validate:"required"`
	AuthorName    string        `json:"authorName" validate:"required"`
	Content       string        `json:"content" validate:"required"`
	Rating        int           `json:"rating" validate:"min=1,max=10"`
	ReferenceID   int           `json:"referenceId" validate:"gt=0"`
	ReferenceType ReferenceType `json:"referenceType" validate:"oneof=Movie TV"`
}

// Review defines a review created by the review service.
type Review struct {
	ID            uuid.UUID     `json:"id"`
	AuthorID      uuid.UUID     `json:"authorId"`
	AuthorName    string        `json:"authorName"`
	Content       string        `json:"content"`
	Rating        int           `json:"rating"`
	ReferenceID   int           `json:"referenceId"`
	ReferenceType ReferenceType `json:"referenceType"`
	CreatedAt     time.Time     `json:"createdAt"`
}
