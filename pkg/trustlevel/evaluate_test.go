package trustlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_PartialProgress(t *testing.T) {
	reqs := Requirements{
		{TopicsEntered, 5},
		{PostsReadCount, 30},
		{TimeRead, 600},
	}
	stats := Stats{TopicsEntered: 5, PostsReadCount: 10, TimeRead: 700}

	report := EvaluateRequirements(reqs, stats, ModeAdvance, 0)

	assert.Equal(t, 2, report.MetCount)
	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 67, report.PercentComplete)
	assert.Equal(t, "needs 1 more to advance", report.Headline.String())
	assert.Equal(t, 1, report.TargetLevel)
	assert.False(t, report.Degenerate)

	require.Len(t, report.Entries, 3)
	assert.True(t, report.Entries[0].Met, "equal counts as met")
	assert.False(t, report.Entries[1].Met)
	assert.True(t, report.Entries[2].Met)

	require.Len(t, report.Unmet(), 1)
	assert.Equal(t, PostsReadCount, report.Unmet()[0].Key)
}

func TestEvaluate_TimeReadMinutes(t *testing.T) {
	reqs := Requirements{{TimeRead, 3600}}

	report := EvaluateRequirements(reqs, Stats{TimeRead: 3569}, ModeAdvance, 1)
	entry := report.Entries[0]

	assert.True(t, entry.IsTime)
	assert.Equal(t, int64(59), entry.CurrentMinutes)
	assert.Equal(t, int64(60), entry.NeededMinutes)
	assert.False(t, entry.Met, "comparison uses raw seconds")

	report = EvaluateRequirements(reqs, Stats{TimeRead: 3590}, ModeAdvance, 1)
	assert.Equal(t, int64(60), report.Entries[0].CurrentMinutes)
	assert.False(t, report.Entries[0].Met, "rounded minutes must not decide met")
}

func TestEvaluate_MissingStatsCountAsZero(t *testing.T) {
	reqs := Requirements{{LikesGiven, 1}, {DaysVisited, 0}}

	report := EvaluateRequirements(reqs, nil, ModeAdvance, 1)

	assert.Equal(t, float64(0), report.Entries[0].Current)
	assert.False(t, report.Entries[0].Met)
	assert.True(t, report.Entries[1].Met)
	assert.Equal(t, 50, report.PercentComplete)
}

func TestEvaluate_Headlines(t *testing.T) {
	reqs := Requirements{{LikesGiven, 2}, {LikesReceived, 2}}
	full := Stats{LikesGiven: 2, LikesReceived: 9}
	partial := Stats{LikesGiven: 2}

	tests := []struct {
		name  string
		stats Stats
		mode  Mode
		state HeadlineState
		text  string
	}{
		{"advanced", full, ModeAdvance, HeadlineAdvanced, "advanced"},
		{"secured", full, ModeMaintain, HeadlineSecured, "secured"},
		{"needs advance", partial, ModeAdvance, HeadlineNeedsAdvance, "needs 1 more to advance"},
		{"needs retain", partial, ModeMaintain, HeadlineNeedsRetain, "needs 1 more to retain"},
		{"needs retain all", Stats{}, ModeMaintain, HeadlineNeedsRetain, "needs 2 more to retain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := EvaluateRequirements(reqs, tt.stats, tt.mode, 3)
			assert.Equal(t, tt.state, report.Headline.State)
			assert.Equal(t, tt.text, report.Headline.String())
			assert.Equal(t, report.MetCount == report.TotalCount, report.Headline.Complete())
		})
	}
}

func TestEvaluate_EmptyRequirementsIsDegenerate(t *testing.T) {
	report := EvaluateRequirements(nil, Stats{LikesGiven: 4}, ModeAdvance, 0)

	assert.True(t, report.Degenerate)
	assert.Equal(t, 100, report.PercentComplete)
	assert.Equal(t, 0, report.TotalCount)
	assert.Equal(t, HeadlineAdvanced, report.Headline.State)
	assert.NotNil(t, report.Entries)
}

func TestPercent_MatchesRounding(t *testing.T) {
	tests := []struct {
		met, total, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{1, 8, 13},
		{3, 8, 38},
		{5, 7, 71},
		{1, 6, 17},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.met, tt.total), "%d/%d", tt.met, tt.total)
	}
}

func TestEvaluate_MaintainAllMet(t *testing.T) {
	res, err := Resolve(3, &SiteStats{Posts30Days: 800, Topics30Days: 80})
	require.NoError(t, err)

	stats := Stats{
		DaysVisited:    50,
		PostsReadCount: 200,
		TopicsEntered:  20,
		LikesGiven:     30,
		LikesReceived:  20,
		PostsCount:     10,
	}
	report := Evaluate(res, stats)

	assert.Equal(t, ModeMaintain, report.Mode)
	assert.Equal(t, HeadlineSecured, report.Headline.State)
	assert.Equal(t, "secured", report.Headline.String())
	assert.Equal(t, 100, report.PercentComplete)
	assert.Equal(t, 3, report.Level)
	assert.Equal(t, 3, report.TargetLevel)
}

func TestEvaluate_DisplayOrderFollowsRequirements(t *testing.T) {
	res, err := Resolve(1, nil)
	require.NoError(t, err)

	report := Evaluate(res, Stats{})
	keys := make([]Key, len(report.Entries))
	for i, e := range report.Entries {
		keys[i] = e.Key
	}
	assert.Equal(t, res.Requirements.Keys(), keys)
	assert.Equal(t, "needs 7 more to advance", report.Headline.String())
}
