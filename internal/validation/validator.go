// Package validation sanitizes client-supplied identity fields. Identities
// are opaque and unverified; the only job here is keeping garbage out of
// logs, keys, and other players' screens.
package validation

import "regexp"

var (
	userIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9 _\-.]{2,24}$`)
)

// ValidUserID reports whether id is acceptable as a user identity.
func ValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// ValidUsername reports whether name is acceptable as a display name.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

// NormalizeUserID returns the supplied id when valid, otherwise a guest
// identity derived from the channel so reconnect attempts from the same
// channel stay distinct from other guests.
func NormalizeUserID(id, channelID string) string {
	if ValidUserID(id) {
		return id
	}
	short := channelID
	if len(short) > 8 {
		short = short[:8]
	}
	return "guest-" + short
}

// NormalizeUsername returns the supplied name when valid, otherwise "Guest".
func NormalizeUsername(name string) string {
	if ValidUsername(name) {
		return name
	}
	return "Guest"
}
