package trustlevel

import (
	"errors"
	"fmt"
)

// Dynamic threshold ceilings for the TL2 → TL3 tier.
const (
	MaxPostsReadThreshold     = 20000
	MaxTopicsEnteredThreshold = 500
)

// MaintainTier is the tier index reused for TL3 retention.
const MaintainTier = 2

// TierCount is the number of tiers in a Table.
const TierCount = 3

var (
	// ErrHidden is returned for trust levels that have no progress display.
	ErrHidden = errors.New("progress is not shown for trust level 4 and above")

	// ErrMissingSiteStats is returned when the dynamic tier is resolved
	// without site activity counts.
	ErrMissingSiteStats = errors.New("site stats are required to resolve trust level 2 requirements")
)

// Mode tells whether a resolution describes advancing or retaining a level.
type Mode string

const (
	ModeAdvance  Mode = "advance"
	ModeMaintain Mode = "maintain"
)

// Threshold is one requirement and the value needed to meet it.
type Threshold struct {
	Key    Key     `json:"key"`
	Needed float64 `json:"needed"`
}

// Requirements is an ordered list of thresholds. Order is display order.
type Requirements []Threshold

// Get returns the threshold for k.
func (r Requirements) Get(k Key) (float64, bool) {
	for _, t := range r {
		if t.Key == k {
			return t.Needed, true
		}
	}
	return 0, false
}

// Keys returns the requirement keys in order.
func (r Requirements) Keys() []Key {
	keys := make([]Key, len(r))
	for i, t := range r {
		keys[i] = t.Key
	}
	return keys
}

// Clone returns a copy that shares nothing with r.
func (r Requirements) Clone() Requirements {
	if r == nil {
		return nil
	}
	out := make(Requirements, len(r))
	copy(out, r)
	return out
}

// with returns a copy of r with k set to needed, appending k if missing.
func (r Requirements) with(k Key, needed float64) Requirements {
	out := r.Clone()
	for i := range out {
		if out[i].Key == k {
			out[i].Needed = needed
			return out
		}
	}
	return append(out, Threshold{Key: k, Needed: needed})
}

// SiteStats holds the site-wide rolling counters from about.json.
type SiteStats struct {
	Posts30Days  int64 `json:"posts_30_days"`
	Topics30Days int64 `json:"topics_30_days"`
}

// Table maps a tier index to its requirements.
type Table [TierCount]Requirements

// DefaultTable returns the stock Discourse thresholds. The two dynamic TL2
// values are zero until resolved against site stats.
func DefaultTable() Table {
	return Table{
		0: {
			{TopicsEntered, 5},
			{PostsReadCount, 30},
			{TimeRead, 10 * 60},
		},
		1: {
			{DaysVisited, 15},
			{LikesGiven, 1},
			{LikesReceived, 1},
			{PostsCount, 3},
			{TopicsEntered, 20},
			{PostsReadCount, 100},
			{TimeRead, 60 * 60},
		},
		2: {
			{DaysVisited, 50},
			{PostsReadCount, 0},
			{TopicsEntered, 0},
			{LikesGiven, 30},
			{LikesReceived, 20},
			{PostsCount, 10},
		},
	}
}

// With returns a copy of t where the tier's threshold for k is needed.
// Keys the tier lacks are appended after the existing ones.
func (t Table) With(tier int, k Key, needed float64) (Table, error) {
	if tier < 0 || tier >= TierCount {
		return t, fmt.Errorf("tier %d out of range", tier)
	}
	out := t.clone()
	out[tier] = out[tier].with(k, needed)
	return out, nil
}

func (t Table) clone() Table {
	var out Table
	for i := range t {
		out[i] = t[i].Clone()
	}
	return out
}

// Resolution is the requirement set that applies to a user.
type Resolution struct {
	Requirements Requirements `json:"requirements"`
	Mode         Mode         `json:"mode"`
	Tier         int          `json:"tier"`
	DisplayLevel int          `json:"display_level"`
}

// Resolve resolves the default table. See Table.Resolve.
func Resolve(level int, site *SiteStats) (Resolution, error) {
	return DefaultTable().Resolve(level, site)
}

// Resolve picks the tier for level and fills in dynamic thresholds.
// Levels 4 and up return ErrHidden. Level 3 reuses tier 2 in maintain mode.
// The returned requirements are a fresh copy on every call.
func (t Table) Resolve(level int, site *SiteStats) (Resolution, error) {
	if level >= 4 {
		return Resolution{DisplayLevel: level}, ErrHidden
	}
	if level < 0 {
		level = 0
	}

	res := Resolution{Mode: ModeAdvance, Tier: level, DisplayLevel: level}
	if level >= 3 {
		res.Mode = ModeMaintain
		res.Tier = MaintainTier
	}

	reqs := t[res.Tier].Clone()
	if res.Tier == MaintainTier {
		if site == nil {
			return Resolution{}, ErrMissingSiteStats
		}
		reqs = reqs.
			with(PostsReadCount, float64(PostsReadThreshold(site.Posts30Days))).
			with(TopicsEntered, float64(TopicsEnteredThreshold(site.Topics30Days)))
	}
	res.Requirements = reqs
	return res, nil
}

// PostsReadThreshold is a quarter of the site's 30 day post count, capped.
func PostsReadThreshold(posts30Days int64) int64 {
	return dynamicThreshold(posts30Days, MaxPostsReadThreshold)
}

// TopicsEnteredThreshold is a quarter of the site's 30 day topic count, capped.
func TopicsEnteredThreshold(topics30Days int64) int64 {
	return dynamicThreshold(topics30Days, MaxTopicsEnteredThreshold)
}

func dynamicThreshold(count, ceiling int64) int64 {
	if count <= 0 {
		return 0
	}
	return min(count/4, ceiling)
}
