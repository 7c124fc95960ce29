package mode

// Mode is the active presentation mode of a search panel.
type Mode string

// Search mode constants.
const (
	// Basic is free-text inputs plus the "my items" toggle.
	Basic Mode = "basic"
	// Advanced is a selected saved query or an ad-hoc predicate list.
	Advanced Mode = "advanced"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Basic || m == Advanced
}
