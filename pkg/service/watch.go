package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/json-iterator/go"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/formatter"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/metrics"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/output"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/tracker"
	"golang.org/x/term"
)

// MinWatchInterval keeps watch mode from hammering the forum.
const MinWatchInterval = 30 * time.Second

// WatchOptions configures a watch session
type WatchOptions struct {
	Interval    time.Duration
	MetricsAddr string

	// Triggers, when set, replaces the Enter key as the manual refresh
	// source. A closed channel stops manual refreshes.
	Triggers <-chan struct{}

	// OnRefresh is called after each refresh result has been shown.
	OnRefresh func(snap tracker.Snapshot, err error)
}

// WatchService refreshes progress on a timer and on demand
type WatchService struct {
	progress *ProgressService
}

// NewWatchService creates a new watch service
func NewWatchService() *WatchService {
	return &WatchService{progress: NewProgressService()}
}

// Watch refreshes until ctx is cancelled or the process is interrupted.
// Refresh failures are printed and the loop keeps going.
func (ws *WatchService) Watch(ctx context.Context, arg string, opts WatchOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, target, err := ws.progress.open(ctx, arg)
	if err != nil {
		return noticeUnauthenticated(err)
	}

	interval := opts.Interval
	if interval < MinWatchInterval {
		logger.Warn("Watch interval too short, using minimum", "interval", interval, "minimum", MinWatchInterval)
		interval = MinWatchInterval
	}

	var m *metrics.Metrics
	if opts.MetricsAddr != "" {
		m = metrics.Get()
		srv := &http.Server{Addr: opts.MetricsAddr, Handler: metricsRouter(m, tr)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("Serving metrics", "addr", opts.MetricsAddr)
	}

	triggers := opts.Triggers
	if triggers == nil {
		triggers = enterKey(ctx)
	}

	formatter.PrintInfo("Watching @%s on %s every %s", target.Username, target.BaseURL, interval)
	if opts.Triggers == nil && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(output.Writer, "Press Enter to refresh, Ctrl+C to stop")
	}

	results := make(chan refreshResult)
	refresh := func() {
		go func() {
			snap, err := tr.Refresh(ctx, target.Username)
			select {
			case results <- refreshResult{snap, err}:
			case <-ctx.Done():
			}
		}()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	refresh()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(output.Writer)
			formatter.PrintSuccess("Watch stopped")
			return nil
		case <-ticker.C:
			refresh()
		case _, ok := <-triggers:
			if !ok {
				triggers = nil
				continue
			}
			logger.Debug("Manual refresh")
			refresh()
		case res := <-results:
			if m != nil {
				m.Observe(res.snap, res.err)
			}
			ws.show(res)
			if opts.OnRefresh != nil {
				opts.OnRefresh(res.snap, res.err)
			}
		}
	}
}

type refreshResult struct {
	snap tracker.Snapshot
	err  error
}

func (ws *WatchService) show(res refreshResult) {
	switch {
	case errors.Is(res.err, tracker.ErrStale):
		logger.Debug("Skipping stale refresh", "seq", res.snap.Seq)
	case errors.Is(res.err, context.Canceled):
		// shutting down
	case res.err != nil:
		formatter.PrintError("%s", clierrors.FormatError(res.err))
	default:
		fmt.Fprintf(output.Writer, "\n%s\n", formatter.Muted.Sprint(res.snap.UpdatedAt.Format(time.Kitchen)))
		if err := RenderSnapshot(res.snap); err != nil {
			formatter.PrintError("%v", err)
		}
	}
}

// metricsRouter serves Prometheus metrics next to the latest snapshot.
func metricsRouter(m *metrics.Metrics, tr *tracker.Tracker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tr.Latest())
	})
	r.Handle("/metrics", m.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Failed to write response", "error", err)
	}
}

// enterKey emits on every line read from stdin. It returns a nil channel
// when stdin is not a terminal.
func enterKey(ctx context.Context) <-chan struct{} {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return lines(ctx, os.Stdin)
}

func lines(ctx context.Context, r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
