package enums

import "fmt"

// RelationshipType captures how the invited family member relates to the
// profile owner.
type RelationshipType string

const (
	RelationshipTypeParent   RelationshipType = "parent"
	RelationshipTypeChild    RelationshipType = "child"
	RelationshipTypeSpouse   RelationshipType = "spouse"
	RelationshipTypeSibling  RelationshipType = "sibling"
	RelationshipTypeGuardian RelationshipType = "guardian"
	RelationshipTypeOther    RelationshipType = "other"
)

var validRelationshipTypes = []RelationshipType{
	RelationshipTypeParent,
	RelationshipTypeChild,
	RelationshipTypeSpouse,
	RelationshipTypeSibling,
	RelationshipTypeGuardian,
	RelationshipTypeOther,
}

// String implements fmt.Stringer.
func (r RelationshipType) String() string {
	return string(r)
}

// IsValid reports whether the value matches a known RelationshipType.
func (r RelationshipType) IsValid() bool {
	for _, candidate := range validRelationshipTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRelationshipType converts raw input into a RelationshipType.
func ParseRelationshipType(value string) (RelationshipType, error) {
	for _, candidate := range validRelationshipTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid relationship type %q", value)
}
