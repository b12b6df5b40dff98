package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/trustlevel"
)

// BarWidth is the number of cells in a rendered progress bar.
const BarWidth = 20

var (
	Met   = color.New(color.FgGreen)
	Unmet = color.New(color.FgRed)
	Badge = color.New(color.FgHiYellow, color.Bold)
	Muted = color.New(color.Faint)
)

// ProgressBar draws percent as a fixed width bar.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// FormatValue renders a current or needed value. Times are shown in minutes.
func FormatValue(e trustlevel.Entry, v float64, minutes int64) string {
	if e.IsTime {
		return fmt.Sprintf("%d m", minutes)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatEntry renders "current / needed" for one requirement.
func FormatEntry(e trustlevel.Entry) string {
	return FormatValue(e, e.Current, e.CurrentMinutes) + " / " + FormatValue(e, e.Needed, e.NeededMinutes)
}

// TargetBadge is the "→ TL<n>" marker shown next to the level.
func TargetBadge(r trustlevel.Report) string {
	if r.Mode == trustlevel.ModeMaintain {
		return fmt.Sprintf("keep TL%d", r.TargetLevel)
	}
	return fmt.Sprintf("→ TL%d", r.TargetLevel)
}

// Footer is the closing message of a report.
func Footer(r trustlevel.Report) string {
	if r.Headline.Complete() {
		if r.Mode == trustlevel.ModeMaintain {
			return fmt.Sprintf("Congrats! You keep TL%d.", r.TargetLevel)
		}
		return fmt.Sprintf("Congrats! You meet TL%d.", r.TargetLevel)
	}
	return fmt.Sprintf("Need %d more target(s).", r.Headline.Remaining)
}

// RenderReport writes the progress widget for username to w.
func RenderReport(w io.Writer, username string, r trustlevel.Report) {
	Bold.Fprint(w, username)
	fmt.Fprint(w, "  ")
	Badge.Fprintf(w, "L%d", r.Level)
	fmt.Fprintf(w, "  %s\n", TargetBadge(r))

	fmt.Fprintf(w, "%s %3d%%  %d/%d  ", ProgressBar(r.PercentComplete, BarWidth), r.PercentComplete, r.MetCount, r.TotalCount)
	Muted.Fprintln(w, r.Headline.String())

	labelWidth := 0
	for _, e := range r.Entries {
		labelWidth = max(labelWidth, len(e.Label))
	}
	for _, e := range r.Entries {
		fmt.Fprintf(w, "  %-*s  ", labelWidth, e.Label)
		if e.Met {
			Met.Fprintln(w, FormatEntry(e))
		} else {
			Unmet.Fprintln(w, FormatEntry(e))
		}
	}

	if r.Headline.Complete() {
		Success.Fprintln(w, Footer(r))
	} else {
		Warning.Fprintln(w, Footer(r))
	}
}

// ReportRows is the report as table rows for output.PrintList.
func ReportRows(r trustlevel.Report) [][]string {
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		status := "no"
		if e.Met {
			status = "yes"
		}
		rows = append(rows, []string{
			e.Label,
			FormatValue(e, e.Current, e.CurrentMinutes),
			FormatValue(e, e.Needed, e.NeededMinutes),
			status,
		})
	}
	return rows
}

// ReportHeaders are the column names matching ReportRows.
var ReportHeaders = []string{"Requirement", "Current", "Needed", "Met"}

// RenderRequirements lists a resolved requirement set.
func RenderRequirements(w io.Writer, res trustlevel.Resolution) {
	if res.Mode == trustlevel.ModeMaintain {
		Bold.Fprintf(w, "TL%d (keep TL3)\n", res.DisplayLevel)
	} else {
		Bold.Fprintf(w, "TL%d → TL%d\n", res.DisplayLevel, res.DisplayLevel+1)
	}

	labelWidth := 0
	for _, t := range res.Requirements {
		labelWidth = max(labelWidth, len(t.Key.Label()))
	}
	for _, t := range res.Requirements {
		e := trustlevel.Entry{Key: t.Key, IsTime: t.Key.IsTime(), NeededMinutes: trustlevel.Minutes(t.Needed)}
		fmt.Fprintf(w, "  %-*s  %s\n", labelWidth, t.Key.Label(), FormatValue(e, t.Needed, e.NeededMinutes))
	}
}
