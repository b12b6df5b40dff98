package trustlevel

import (
	"fmt"
	"math"
)

// HeadlineState summarises a report in one word.
type HeadlineState string

const (
	HeadlineAdvanced     HeadlineState = "advanced"
	HeadlineSecured      HeadlineState = "secured"
	HeadlineNeedsAdvance HeadlineState = "needs_advance"
	HeadlineNeedsRetain  HeadlineState = "needs_retain"
)

// Headline is the overall status line of a report.
type Headline struct {
	State     HeadlineState `json:"state"`
	Remaining int           `json:"remaining"`
}

func (h Headline) String() string {
	switch h.State {
	case HeadlineNeedsRetain:
		return fmt.Sprintf("needs %d more to retain", h.Remaining)
	case HeadlineNeedsAdvance:
		return fmt.Sprintf("needs %d more to advance", h.Remaining)
	default:
		return string(h.State)
	}
}

// Complete reports whether every requirement is met.
func (h Headline) Complete() bool {
	return h.State == HeadlineAdvanced || h.State == HeadlineSecured
}

// Entry is one evaluated requirement.
type Entry struct {
	Key     Key     `json:"key"`
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Needed  float64 `json:"needed"`
	Met     bool    `json:"met"`

	// Rounded minutes, set for time_read only.
	IsTime         bool  `json:"is_time,omitempty"`
	CurrentMinutes int64 `json:"current_minutes,omitempty"`
	NeededMinutes  int64 `json:"needed_minutes,omitempty"`
}

// Report is the evaluated progress of one user.
type Report struct {
	Level           int      `json:"level"`
	TargetLevel     int      `json:"target_level"`
	Mode            Mode     `json:"mode"`
	Entries         []Entry  `json:"entries"`
	MetCount        int      `json:"met_count"`
	TotalCount      int      `json:"total_count"`
	PercentComplete int      `json:"percent_complete"`
	Headline        Headline `json:"headline"`

	// Degenerate is set when there were no requirements to evaluate.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Unmet returns the entries that are not yet met.
func (r Report) Unmet() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.Met {
			out = append(out, e)
		}
	}
	return out
}

// Evaluate compares stats against a resolution.
func Evaluate(res Resolution, stats Stats) Report {
	return EvaluateRequirements(res.Requirements, stats, res.Mode, res.DisplayLevel)
}

// EvaluateRequirements compares stats against reqs in order. Missing stats
// count as zero.
func EvaluateRequirements(reqs Requirements, stats Stats, mode Mode, displayLevel int) Report {
	report := Report{
		Level:       displayLevel,
		TargetLevel: targetLevel(mode, displayLevel),
		Mode:        mode,
		Entries:     make([]Entry, 0, len(reqs)),
		TotalCount:  len(reqs),
	}

	for _, t := range reqs {
		current := sanitize(stats[t.Key])
		needed := sanitize(t.Needed)
		e := Entry{
			Key:     t.Key,
			Label:   t.Key.Label(),
			Current: current,
			Needed:  needed,
			Met:     current >= needed,
		}
		if t.Key.IsTime() {
			e.IsTime = true
			e.CurrentMinutes = Minutes(current)
			e.NeededMinutes = Minutes(needed)
		}
		if e.Met {
			report.MetCount++
		}
		report.Entries = append(report.Entries, e)
	}

	if report.TotalCount == 0 {
		report.PercentComplete = 100
		report.Degenerate = true
	} else {
		report.PercentComplete = Percent(report.MetCount, report.TotalCount)
	}

	remaining := report.TotalCount - report.MetCount
	switch {
	case remaining == 0 && mode == ModeMaintain:
		report.Headline = Headline{State: HeadlineSecured}
	case remaining == 0:
		report.Headline = Headline{State: HeadlineAdvanced}
	case mode == ModeMaintain:
		report.Headline = Headline{State: HeadlineNeedsRetain, Remaining: remaining}
	default:
		report.Headline = Headline{State: HeadlineNeedsAdvance, Remaining: remaining}
	}
	return report
}

// Percent returns round(100*met/total).
func Percent(met, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(met) * 100 / float64(total)))
}

// Minutes converts seconds to rounded minutes.
func Minutes(seconds float64) int64 {
	return int64(math.Round(seconds / 60))
}

func targetLevel(mode Mode, level int) int {
	if mode == ModeMaintain {
		return 3
	}
	return level + 1
}

// sanitize maps NaN and infinities to zero.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
