package enums

import "fmt"

// EmergencyRequestStatus tracks an emergency access escalation. Rows are
// created pending; approved/denied exist in the model but no transition
// endpoint moves a request there yet.
type EmergencyRequestStatus string

const (
	EmergencyRequestStatusPending  EmergencyRequestStatus = "pending"
	EmergencyRequestStatusApproved EmergencyRequestStatus = "approved"
	EmergencyRequestStatusDenied   EmergencyRequestStatus = "denied"
)

var validEmergencyRequestStatuses = []EmergencyRequestStatus{
	EmergencyRequestStatusPending,
	EmergencyRequestStatusApproved,
	EmergencyRequestStatusDenied,
}

// String implements fmt.Stringer.
func (s EmergencyRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known EmergencyRequestStatus.
func (s EmergencyRequestStatus) IsValid() bool {
	for _, candidate := range validEmergencyRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEmergencyRequestStatus converts raw input into an EmergencyRequestStatus.
func ParseEmergencyRequestStatus(value string) (EmergencyRequestStatus, error) {
	for _, candidate := range validEmergencyRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid emergency request status %q", value)
}
