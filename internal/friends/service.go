package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderplanhq/wanderplan-backend/pkg/db"
	"github.com/wanderplanhq/wanderplan-backend/pkg/db/models"
	"github.com/wanderplanhq/wanderplan-backend/pkg/enums"
	pkgerrors "github.com/wanderplanhq/wanderplan-backend/pkg/errors"
)

type friendshipRepository interface {
	Create(ctx context.Context, senderID, recipientID uuid.UUID) (*models.Friendship, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	FindPair(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FriendshipStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	AcceptedExists(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]FriendshipWithUsers, error)
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service drives the friend-request lifecycle between two users.
type Service interface {
	Send(ctx context.Context, senderID, recipientID uuid.UUID) (*FriendshipDTO, error)
	Accept(ctx context.Context, friendshipID, actorID uuid.UUID) (*FriendshipDTO, error)
	Remove(ctx context.Context, friendshipID, actorID uuid.UUID) error
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) (*RelationshipsDTO, error)
}

type service struct {
	repo  friendshipRepository
	users usersRepository
}

// NewService builds a friends service with the provided repositories.
func NewService(repo friendshipRepository, users usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("friendship repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: users}, nil
}

// Send creates a pending request from sender to recipient. A relationship
// already existing in either direction (pending or accepted) is a conflict.
func (s *service) Send(ctx context.Context, senderID, recipientID uuid.UUID) (*FriendshipDTO, error) {
	if senderID == recipientID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot send a friend request to yourself")
	}

	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recipient")
	}

	if _, err := s.repo.FindPair(ctx, senderID, recipientID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "relationship already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing relationship")
	}

	friendship, err := s.repo.Create(ctx, senderID, recipientID)
	if err != nil {
		// Two concurrent sends for the same ordered pair race on the
		// unique constraint; report the loser as a duplicate.
		if db.IsUniqueViolation(err, "friendships_sender_recipient_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "relationship already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create friendship")
	}
	return FromModel(friendship), nil
}

// Accept transitions a pending request to accepted. Only the recorded
// recipient may accept; the sender cannot self-approve.
func (s *service) Accept(ctx context.Context, friendshipID, actorID uuid.UUID) (*FriendshipDTO, error) {
	friendship, err := s.repo.FindByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "friend request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load friendship")
	}

	if friendship.Status != enums.FriendshipStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "friend request is not pending")
	}
	if friendship.RecipientID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the recipient can accept a friend request")
	}

	if err := s.repo.UpdateStatus(ctx, friendshipID, enums.FriendshipStatusAccepted); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept friendship")
	}
	friendship.Status = enums.FriendshipStatusAccepted
	return FromModel(friendship), nil
}

// Remove deletes the relationship row. This covers declining a pending
// request and unfriending an accepted one; either party may remove.
func (s *service) Remove(ctx context.Context, friendshipID, actorID uuid.UUID) error {
	friendship, err := s.repo.FindByID(ctx, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "friendship not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load friendship")
	}

	if friendship.SenderID != actorID && friendship.RecipientID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this friendship")
	}

	if err := s.repo.Delete(ctx, friendshipID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete friendship")
	}
	return nil
}

// AreFriends reports whether an accepted relationship exists for the
// unordered pair, independent of which side sent the request.
func (s *service) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	ok, err := s.repo.AcceptedExists(ctx, a, b)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check friendship")
	}
	return ok, nil
}

// ListForUser partitions the user's relationship rows into three disjoint
// lists: friends, incoming pending requests, outgoing pending requests.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) (*RelationshipsDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list relationships")
	}

	out := &RelationshipsDTO{
		Friends:  []RelationshipEntryDTO{},
		Incoming: []RelationshipEntryDTO{},
		Outgoing: []RelationshipEntryDTO{},
	}
	for _, row := range rows {
		entry := counterpartEntry(row, userID)
		switch {
		case row.Status == enums.FriendshipStatusAccepted:
			out.Friends = append(out.Friends, entry)
		case row.RecipientID == userID:
			out.Incoming = append(out.Incoming, entry)
		default:
			out.Outgoing = append(out.Outgoing, entry)
		}
	}
	return out, nil
}

func counterpartEntry(row FriendshipWithUsers, userID uuid.UUID) RelationshipEntryDTO {
	entry := RelationshipEntryDTO{
		FriendshipID: row.ID,
		Since:        row.CreatedAt,
	}
	if row.SenderID == userID {
		entry.UserID = row.RecipientID
		entry.Username = row.RecipientUsername
		entry.PictureURL = row.RecipientPictureURL
	} else {
		entry.UserID = row.SenderID
		entry.Username = row.SenderUsername
		entry.PictureURL = row.SenderPictureURL
	}
	return entry
}
