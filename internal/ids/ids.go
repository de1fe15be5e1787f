package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique id. KSUIDs embed a timestamp, so ids
// generated later sort after earlier ones.
func New() string {
	return ksuid.New().String()
}
