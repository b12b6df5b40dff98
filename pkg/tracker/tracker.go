// Package tracker runs refresh cycles: it fetches a user's raw stats,
// reconciles them and evaluates progress against the resolved requirements.
package tracker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/api"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/trustlevel"
	"golang.org/x/sync/errgroup"
)

// ErrStale is returned when a newer refresh started before this one finished.
// The stale result is not published.
var ErrStale = errors.New("refresh was superseded by a newer one")

// State is the lifecycle of a refresh.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// StatSource fetches the raw records for one forum.
type StatSource interface {
	FetchSiteStats(ctx context.Context) (trustlevel.SiteStats, error)
	FetchUserSummaryStats(ctx context.Context, username string) (api.SummaryStats, error)
	FetchUserDirectoryStats(ctx context.Context, username string) (api.DirectoryStats, error)
}

// Snapshot is the published outcome of a refresh.
type Snapshot struct {
	Seq       uint64             `json:"seq"`
	State     State              `json:"state"`
	Username  string             `json:"username"`
	Level     int                `json:"level"`
	Hidden    bool               `json:"hidden"`
	Report    *trustlevel.Report `json:"report,omitempty"`
	Error     string             `json:"error,omitempty"`
	Err       error              `json:"-"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Tracker evaluates one user's progress on demand. It is safe for
// concurrent use; only the newest refresh is ever published.
type Tracker struct {
	source StatSource
	table  trustlevel.Table

	seq    atomic.Uint64
	mu     sync.RWMutex
	latest Snapshot

	now func() time.Time
}

// New creates a tracker that resolves requirements from table.
func New(source StatSource, table trustlevel.Table) *Tracker {
	t := &Tracker{
		source: source,
		table:  table,
		now:    time.Now,
	}
	t.latest = Snapshot{State: StateIdle, UpdatedAt: t.now()}
	return t
}

// Latest returns the most recently published snapshot.
func (t *Tracker) Latest() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.latest
}

// Refresh runs one cycle for username. A failed cycle returns a StateFailed
// snapshot and its error. A cycle overtaken by a newer one returns ErrStale.
func (t *Tracker) Refresh(ctx context.Context, username string) (Snapshot, error) {
	seq := t.seq.Add(1)
	t.publish(Snapshot{Seq: seq, State: StateFetching, Username: username, UpdatedAt: t.now()})

	logger.Debug("Refreshing progress", "username", username, "seq", seq)
	snap, err := t.run(ctx, username)
	snap.Seq = seq
	snap.Username = username
	snap.UpdatedAt = t.now()

	if !t.publish(snap) {
		logger.Debug("Discarding stale refresh", "seq", seq)
		return snap, ErrStale
	}
	return snap, err
}

// publish stores snap if it belongs to the newest refresh.
func (t *Tracker) publish(snap Snapshot) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if snap.Seq != t.seq.Load() {
		return false
	}
	t.latest = snap
	return true
}

func (t *Tracker) run(ctx context.Context, username string) (Snapshot, error) {
	var (
		site    trustlevel.SiteStats
		summary api.SummaryStats
		dir     api.DirectoryStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		site, err = t.source.FetchSiteStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = t.source.FetchUserSummaryStats(gctx, username)
		return err
	})
	g.Go(func() error {
		d, err := t.source.FetchUserDirectoryStats(gctx, username)
		if errors.Is(err, api.ErrDirectoryUserNotFound) {
			logger.Warn("Using summary stats only", "error", clierrors.UserNotFoundError(username))
			return nil
		}
		if err != nil {
			return err
		}
		dir = d
		return nil
	})

	if err := g.Wait(); err != nil {
		return failed(err), err
	}

	level := trustlevel.ReconcileLevel(summary.TrustLevel, dir.TrustLevel)
	if level < 0 {
		level = 0
	}
	stats := trustlevel.Merge(summary.Stats, dir.Stats)

	res, err := t.table.Resolve(level, &site)
	if errors.Is(err, trustlevel.ErrHidden) {
		return Snapshot{State: StateReady, Level: level, Hidden: true}, nil
	}
	if err != nil {
		return failed(err), err
	}

	report := trustlevel.Evaluate(res, stats)
	return Snapshot{State: StateReady, Level: level, Report: &report}, nil
}

func failed(err error) Snapshot {
	return Snapshot{State: StateFailed, Err: err, Error: err.Error()}
}
