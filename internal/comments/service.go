package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

const maxCommentLength = 2000

type commentRepository interface {
	Create(ctx context.Context, tripID, userID uuid.UUID, body string) (*models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]CommentDTO, error)
}

// Service manages trip comments. Membership checks happen at the route
// guard; deletion additionally requires authorship.
type Service interface {
	Create(ctx context.Context, tripID, userID uuid.UUID, body string) (*CommentDTO, error)
	ListForTrip(ctx context.Context, tripID uuid.UUID) ([]CommentDTO, error)
	Delete(ctx context.Context, commentID, actorID uuid.UUID) error
}

type service struct {
	repo commentRepository
}

// NewService builds a comments service with the provided repository.
func NewService(repo commentRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("comment repository required")
	}
	return &service{repo: repo}, nil
}

// Create validates and persists the comment body.
func (s *service) Create(ctx context.Context, tripID, userID uuid.UUID, body string) (*CommentDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body is required")
	}
	if len(body) > maxCommentLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body too long")
	}

	comment, err := s.repo.Create(ctx, tripID, userID, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	return FromModel(comment), nil
}

// ListForTrip returns the trip's comments with author profiles.
func (s *service) ListForTrip(ctx context.Context, tripID uuid.UUID) ([]CommentDTO, error) {
	list, err := s.repo.ListForTrip(ctx, tripID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return list, nil
}

// Delete removes the comment. Only its author may delete it.
func (s *service) Delete(ctx context.Context, commentID, actorID uuid.UUID) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}

	if comment.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete a comment")
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	return nil
}
