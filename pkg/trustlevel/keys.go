// Package trustlevel computes progress toward the next Discourse trust level.
//
// Everything in this package is a pure function of its inputs: requirement
// tables are copied on every resolve and stats are never mutated, so results
// can be shared freely between concurrent refreshes.
package trustlevel

import "strings"

// Key names a single trust level requirement. Values match the field names
// used by the Discourse summary and directory endpoints.
type Key string

const (
	DaysVisited              Key = "days_visited"
	LikesGiven               Key = "likes_given"
	LikesReceived            Key = "likes_received"
	PostsCount               Key = "posts_count"
	TopicsEntered            Key = "topics_entered"
	PostsReadCount           Key = "posts_read_count"
	TimeRead                 Key = "time_read"
	RepliesToDifferentTopics Key = "replies_to_different_topics"
)

// AllKeys lists every known requirement key in display order.
var AllKeys = []Key{
	DaysVisited,
	LikesGiven,
	LikesReceived,
	PostsCount,
	TopicsEntered,
	PostsReadCount,
	TimeRead,
	RepliesToDifferentTopics,
}

// ParseKey returns the Key for name, reporting whether it is known.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range AllKeys {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Label returns a human readable label, e.g. "posts read count".
func (k Key) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// IsTime reports whether the key is measured in seconds.
func (k Key) IsTime() bool {
	return k == TimeRead
}
