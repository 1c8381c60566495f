package enums

import "fmt"

// RelationshipStatus captures the lifecycle of a family relationship.
// A row is created pending, moves to accepted or declined exactly once by
// the invited party, and may be revoked by the owner at any time.
type RelationshipStatus string

const (
	RelationshipStatusPending  RelationshipStatus = "pending"
	RelationshipStatusAccepted RelationshipStatus = "accepted"
	RelationshipStatusDeclined RelationshipStatus = "declined"
	RelationshipStatusRevoked  RelationshipStatus = "revoked"
)

var validRelationshipStatuses = []RelationshipStatus{
	RelationshipStatusPending,
	RelationshipStatusAccepted,
	RelationshipStatusDeclined,
	RelationshipStatusRevoked,
}

// String implements fmt.Stringer.
func (s RelationshipStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known RelationshipStatus.
func (s RelationshipStatus) IsValid() bool {
	for _, candidate := range validRelationshipStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRelationshipStatus converts raw input into a RelationshipStatus.
func ParseRelationshipStatus(value string) (RelationshipStatus, error) {
	for _, candidate := range validRelationshipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid relationship status %q", value)
}
