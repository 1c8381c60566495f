package enums

import "fmt"

// AccessLevel is the granularity of access a family member holds on the
// owner's profile. Interpretation of each tier is left to the caller.
type AccessLevel string

const (
	AccessLevelViewOnly  AccessLevel = "view_only"
	AccessLevelManage    AccessLevel = "manage"
	AccessLevelEmergency AccessLevel = "emergency"
)

var validAccessLevels = []AccessLevel{
	AccessLevelViewOnly,
	AccessLevelManage,
	AccessLevelEmergency,
}

// String implements fmt.Stringer.
func (a AccessLevel) String() string {
	return string(a)
}

// IsValid reports whether the value matches a known AccessLevel.
func (a AccessLevel) IsValid() bool {
	for _, candidate := range validAccessLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessLevel converts raw input into an AccessLevel.
func ParseAccessLevel(value string) (AccessLevel, error) {
	for _, candidate := range validAccessLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access level %q", value)
}
