package ids

import "github.com/segmentio/ksuid"

// New returns a sortable, collision-resistant identifier.
func New() string {
	return ksuid.New().String()
}
