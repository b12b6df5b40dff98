package api

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/trustlevel"
)

// ErrDirectoryUserNotFound is returned when the directory has no row for
// the requested username.
var ErrDirectoryUserNotFound = errors.New("user not found in directory")

// Source names used in errors and logs.
const (
	SourceAbout     = "about.json"
	SourceSummary   = "summary.json"
	SourceDirectory = "directory_items"
	SourceSession   = "session/current.json"
)

// Source fetches the raw statistics the tracker needs from one forum.
type Source struct {
	http            *resty.Client
	directoryPeriod string
	directoryOrder  string
}

// NewSource wraps a forum client. The directory defaults to the quarterly
// period ordered by days visited.
func NewSource(c *resty.Client) *Source {
	return &Source{
		http:            c,
		directoryPeriod: "quarterly",
		directoryOrder:  "days_visited",
	}
}

// WithDirectory sets the directory period and order; empty values keep
// the current setting.
func (s *Source) WithDirectory(period, order string) *Source {
	if period != "" {
		s.directoryPeriod = period
	}
	if order != "" {
		s.directoryOrder = order
	}
	return s
}

// FetchSiteStats reads the 30 day site counters from about.json
func (s *Source) FetchSiteStats(ctx context.Context) (trustlevel.SiteStats, error) {
	logger.Debug("Fetching site stats")

	var out aboutResponse
	if err := s.get(ctx, SourceAbout, "/about.json", nil, &out); err != nil {
		return trustlevel.SiteStats{}, err
	}
	if out.About == nil || out.About.Stats == nil {
		return trustlevel.SiteStats{}, clierrors.SourceFetchError(SourceAbout, 0, errors.New("response has no about.stats"))
	}

	return trustlevel.SiteStats{
		Posts30Days:  out.About.Stats.Posts30Days,
		Topics30Days: out.About.Stats.Topics30Days,
	}, nil
}

// FetchUserSummaryStats reads a user's summary counters and trust level
func (s *Source) FetchUserSummaryStats(ctx context.Context, username string) (SummaryStats, error) {
	logger.Debug("Fetching user summary", "username", username)

	var out summaryResponse
	path := "/u/" + url.PathEscape(username) + "/summary.json"
	if err := s.get(ctx, SourceSummary, path, nil, &out); err != nil {
		return SummaryStats{}, err
	}
	if out.UserSummary == nil {
		return SummaryStats{}, clierrors.SourceFetchError(SourceSummary, 0, errors.New("response has no user_summary"))
	}

	return SummaryStats{
		TrustLevel: summaryTrustLevel(out.Users, username),
		Stats:      summaryToStats(out.UserSummary),
	}, nil
}

// FetchUserDirectoryStats reads the user's directory row. It returns
// ErrDirectoryUserNotFound when no row matches username; rows for other
// users are never used in its place.
func (s *Source) FetchUserDirectoryStats(ctx context.Context, username string) (DirectoryStats, error) {
	logger.Debug("Fetching directory stats", "username", username, "period", s.directoryPeriod)

	query := map[string]string{
		"period": s.directoryPeriod,
		"order":  s.directoryOrder,
		"name":   username,
	}

	var out directoryResponse
	if err := s.get(ctx, SourceDirectory, "/directory_items", query, &out); err != nil {
		return DirectoryStats{}, err
	}

	for _, item := range out.DirectoryItems {
		if item.User == nil || !strings.EqualFold(item.User.Username, username) {
			continue
		}
		return DirectoryStats{
			TrustLevel: item.User.TrustLevel,
			Stats: trustlevel.Overrides{
				trustlevel.DaysVisited:    item.DaysVisited,
				trustlevel.LikesGiven:     item.LikesGiven,
				trustlevel.LikesReceived:  item.LikesReceived,
				trustlevel.PostsCount:     item.PostCount,
				trustlevel.TopicsEntered:  item.TopicsEntered,
				trustlevel.PostsReadCount: item.PostsRead,
				trustlevel.TimeRead:       nil,
			},
		}, nil
	}

	return DirectoryStats{}, ErrDirectoryUserNotFound
}

// CurrentUsername asks the forum who the session cookie belongs to.
// An anonymous session yields an unauthenticated error.
func (s *Source) CurrentUsername(ctx context.Context) (string, error) {
	logger.Debug("Resolving current session user")

	var out sessionResponse
	err := s.get(ctx, SourceSession, "/session/current.json", nil, &out)
	if err != nil {
		if IsNotFound(err) || IsForbidden(err) {
			return "", clierrors.UnauthenticatedError()
		}
		return "", err
	}
	if out.CurrentUser == nil || out.CurrentUser.Username == "" {
		return "", clierrors.UnauthenticatedError()
	}
	return out.CurrentUser.Username, nil
}

// get performs a GET and decodes the body. Every failure is reported as a
// source fetch error naming the endpoint.
func (s *Source) get(ctx context.Context, source, path string, query map[string]string, target interface{}) error {
	req := s.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err := CheckResponse(resp, err); err != nil {
		return clierrors.SourceFetchError(source, StatusCode(err), err)
	}

	if err := ParseResponseBody(resp.Body(), target); err != nil {
		return clierrors.SourceFetchError(source, 0, err)
	}
	return nil
}

// summaryTrustLevel picks the requested user from the sideloaded users,
// falling back to the first entry, then to 0.
func summaryTrustLevel(users []summaryUser, username string) int {
	for _, u := range users {
		if strings.EqualFold(u.Username, username) && u.TrustLevel != nil {
			return *u.TrustLevel
		}
	}
	if len(users) > 0 && users[0].TrustLevel != nil {
		return *users[0].TrustLevel
	}
	return 0
}

// summaryToStats keeps the requirement keys from user_summary. The summary
// calls the post counter post_count, so that is accepted for posts_count.
func summaryToStats(summary map[string]interface{}) trustlevel.Stats {
	stats := make(trustlevel.Stats)
	for _, k := range trustlevel.AllKeys {
		if v, ok := toNumber(summary[string(k)]); ok {
			stats[k] = v
		}
	}
	if _, ok := stats[trustlevel.PostsCount]; !ok {
		if v, ok := toNumber(summary["post_count"]); ok {
			stats[trustlevel.PostsCount] = v
		}
	}
	return stats
}

// toNumber coerces a decoded JSON value to a number. Values that are not
// numeric report false and are left out of the stats.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
