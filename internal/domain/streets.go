package domain

import "strings"

// StreetLocation builds the join key shared by the crime and building
// datasets: trimmed name and suffix glued with a single space, then trimmed
// again so a blank suffix cannot leave a trailing space. Normalizing an
// already-normal key returns it unchanged.
func StreetLocation(name, suffix string) string {
	return strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(suffix))
}
