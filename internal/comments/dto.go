package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
)

// CommentDTO is the transport shape for a comment with its author profile.
type CommentDTO struct {
	ID               uuid.UUID `json:"id"`
	TripID           uuid.UUID `json:"trip_id"`
	UserID           uuid.UUID `json:"user_id"`
	AuthorUsername   string    `json:"author_username,omitempty"`
	AuthorPictureURL *string   `json:"author_picture_url,omitempty"`
	Body             string    `json:"body"`
	CreatedAt        time.Time `json:"created_at"`
}

type commentWithAuthorRow struct {
	models.Comment
	AuthorUsername   string  `gorm:"column:author_username"`
	AuthorPictureURL *string `gorm:"column:author_picture_url"`
}

func FromModel(c *models.Comment) *CommentDTO {
	if c == nil {
		return nil
	}
	return &CommentDTO{
		ID:        c.ID,
		TripID:    c.TripID,
		UserID:    c.UserID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

func rowsToDTO(rows []commentWithAuthorRow) []CommentDTO {
	out := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		dto := *FromModel(&row.Comment)
		dto.AuthorUsername = row.AuthorUsername
		dto.AuthorPictureURL = row.AuthorPictureURL
		out = append(out, dto)
	}
	return out
}
