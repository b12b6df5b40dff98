package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/api"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/auth"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/client"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/formatter"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/output"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/tracker"
)

// ProgressService checks a user's trust level progress
type ProgressService struct{}

// NewProgressService creates a new progress service
func NewProgressService() *ProgressService {
	return &ProgressService{}
}

// Check runs one refresh for arg (a username, a profile URL or empty) and
// prints the report. When nobody can be identified a notice is printed
// and nil is returned.
func (ps *ProgressService) Check(ctx context.Context, arg string) error {
	tr, target, err := ps.open(ctx, arg)
	if err != nil {
		return noticeUnauthenticated(err)
	}

	snap, err := tr.Refresh(ctx, target.Username)
	if err != nil {
		return err
	}
	return RenderSnapshot(snap)
}

// noticeUnauthenticated prints a notice and returns nil when err means no
// user could be identified. Other errors are returned unchanged.
func noticeUnauthenticated(err error) error {
	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) && cliErr.Type == clierrors.ErrorTypeUnauthenticated {
		formatter.PrintInfo("%s. %s", cliErr.Message, cliErr.Suggestion)
		return nil
	}
	return err
}

// open resolves the target and builds a tracker for it.
func (ps *ProgressService) open(ctx context.Context, arg string) (*tracker.Tracker, auth.Target, error) {
	target, err := auth.ResolveTarget(arg)
	if err != nil {
		return nil, target, err
	}

	source, err := openSource(target)
	if err != nil {
		return nil, target, err
	}

	target, err = auth.ResolveUsername(ctx, target, source)
	if err != nil {
		return nil, target, err
	}
	logger.Debug("Resolved target", "forum", target.BaseURL, "username", target.Username, "from", target.Origin)

	table, err := BuildTable()
	if err != nil {
		return nil, target, err
	}
	return tracker.New(source, table), target, nil
}

// openSource points the shared client at target's forum.
func openSource(target auth.Target) (*api.Source, error) {
	if _, err := auth.ApplySession(target); err != nil {
		return nil, err
	}
	source := api.NewSource(client.GetClient()).
		WithDirectory(config.GetString("directory.period"), config.GetString("directory.order"))
	return source, nil
}

// RenderSnapshot prints a ready snapshot in the configured format. Hidden
// snapshots print nothing except in json mode.
func RenderSnapshot(snap tracker.Snapshot) error {
	if snap.Hidden {
		logger.Info(clierrors.UnsupportedLevelError(snap.Level).Message, "username", snap.Username)
		if output.GetOutputFormat() == output.FormatJSON {
			return output.Print(snap, nil)
		}
		return nil
	}
	if snap.Report == nil {
		return fmt.Errorf("refresh %d produced no report (state %s)", snap.Seq, snap.State)
	}

	r := *snap.Report
	switch output.GetOutputFormat() {
	case output.FormatTable:
		formatter.Bold.Fprintf(output.Writer, "%s  L%d  %s  %d/%d (%d%%)\n",
			snap.Username, r.Level, formatter.TargetBadge(r), r.MetCount, r.TotalCount, r.PercentComplete)
		return output.PrintList(snap, formatter.ReportHeaders, formatter.ReportRows(r))
	default:
		return output.Print(snap, func(w io.Writer) {
			formatter.RenderReport(w, snap.Username, r)
		})
	}
}
