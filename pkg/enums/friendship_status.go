package enums

import "fmt"

// FriendshipStatus tracks where a friend request sits in its lifecycle.
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

var validFriendshipStatuses = []FriendshipStatus{
	FriendshipStatusPending,
	FriendshipStatusAccepted,
}

// String implements fmt.Stringer.
func (f FriendshipStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FriendshipStatus.
func (f FriendshipStatus) IsValid() bool {
	for _, candidate := range validFriendshipStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFriendshipStatus converts raw input into a FriendshipStatus.
func ParseFriendshipStatus(value string) (FriendshipStatus, error) {
	for _, candidate := range validFriendshipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid friendship status %q", value)
}
