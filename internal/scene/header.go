// Package scene maintains the narrator-authoritative continuity header.
//
// The header is not derived from the event ledger. It is a separately
// persisted record merged field-wise on every resolved turn: absent or empty
// incoming fields never erase a stored value.
package scene

import "strings"

// Header is the scene continuity record shown to the narrator.
type Header struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	// Funds is a narrator-facing currency string such as "$42.00".
	Funds string `json:"funds"`
}

// IsZero reports whether the header has never been populated.
func (h Header) IsZero() bool {
	return h.Date == "" && h.Time == "" && h.Location == "" && h.Funds == ""
}

// Seed returns the deployment-default header used before any turn has
// established continuity.
func Seed() Header {
	return Header{
		Date:     "January 1, 2000",
		Time:     "12:00 AM",
		Location: "Unknown",
		Funds:    "$0.00",
	}
}

// Merge applies incoming header fields over stored ones. Each field is
// replaced only when the incoming value is present and non-empty; an
// all-empty incoming header leaves stored unchanged.
func Merge(stored, incoming Header) Header {
	merged := stored
	if field := strings.TrimSpace(incoming.Date); field != "" {
		merged.Date = field
	}
	if field := strings.TrimSpace(incoming.Time); field != "" {
		merged.Time = field
	}
	if field := strings.TrimSpace(incoming.Location); field != "" {
		merged.Location = field
	}
	if field := strings.TrimSpace(incoming.Funds); field != "" {
		merged.Funds = field
	}
	return merged
}
