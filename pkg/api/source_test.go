package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/client"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/trustlevel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aboutBody = `{"about":{"title":"Example","stats":{"posts_30_days":100000,"topics_30_days":3000,"users_count":42}}}`

const summaryBody = `{
  "users": [
    {"id": 9, "username": "helper", "trust_level": 4},
    {"id": 1, "username": "Alice", "trust_level": 2}
  ],
  "user_summary": {
    "likes_given": 12,
    "likes_received": 7,
    "topics_entered": 40,
    "posts_read_count": 300,
    "days_visited": 20,
    "topic_count": 2,
    "post_count": 9,
    "time_read": 7200,
    "bookmark_count": null
  }
}`

const directoryBody = `{
  "directory_items": [
    {"id": 5, "days_visited": 99, "likes_given": 99, "user": {"username": "bob", "trust_level": 3}},
    {"id": 1, "likes_received": 8, "likes_given": 13, "topics_entered": 41,
     "post_count": 10, "posts_read": 310, "days_visited": 21, "time_read": 1,
     "user": {"id": 1, "username": "alice", "trust_level": 2}}
  ]
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) (*Source, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return NewSource(c), srv
}

func TestFetchSiteStats(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/about.json", r.URL.Path)
		w.Write([]byte(aboutBody))
	})

	stats, err := src.FetchSiteStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trustlevel.SiteStats{Posts30Days: 100000, Topics30Days: 3000}, stats)
}

func TestFetchSiteStats_MissingStats(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"about":{}}`))
	})

	_, err := src.FetchSiteStats(context.Background())
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeSourceFetch))
}

func TestFetchUserSummaryStats(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/u/alice/summary.json", r.URL.Path)
		w.Write([]byte(summaryBody))
	})

	summary, err := src.FetchUserSummaryStats(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TrustLevel, "trust level comes from the matching user, not users[0]")
	assert.Equal(t, float64(12), summary.Stats[trustlevel.LikesGiven])
	assert.Equal(t, float64(7200), summary.Stats[trustlevel.TimeRead])
	assert.Equal(t, float64(9), summary.Stats[trustlevel.PostsCount], "post_count is accepted for posts_count")
	_, ok := summary.Stats[trustlevel.RepliesToDifferentTopics]
	assert.False(t, ok)
}

func TestFetchUserSummaryStats_HTTPError(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":["The requested URL or resource could not be found."],"error_type":"not_found"}`))
	})

	_, err := src.FetchUserSummaryStats(context.Background(), "ghost")
	require.Error(t, err)

	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, clierrors.ErrorTypeSourceFetch, cliErr.Type)
	assert.Equal(t, 404, cliErr.StatusCode)
	assert.Equal(t, SourceSummary, cliErr.Source)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestFetchUserSummaryStats_BadJSON(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := src.FetchUserSummaryStats(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeSourceFetch))
}

func TestFetchUserDirectoryStats(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/directory_items", r.URL.Path)
		assert.Equal(t, "quarterly", r.URL.Query().Get("period"))
		assert.Equal(t, "days_visited", r.URL.Query().Get("order"))
		assert.Equal(t, "Alice", r.URL.Query().Get("name"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(directoryBody))
	})

	dir, err := src.FetchUserDirectoryStats(context.Background(), "Alice")
	require.NoError(t, err)

	require.NotNil(t, dir.TrustLevel)
	assert.Equal(t, 2, *dir.TrustLevel)
	require.NotNil(t, dir.Stats[trustlevel.PostsCount])
	assert.Equal(t, float64(10), *dir.Stats[trustlevel.PostsCount])
	assert.Equal(t, float64(310), *dir.Stats[trustlevel.PostsReadCount])
	assert.Equal(t, float64(21), *dir.Stats[trustlevel.DaysVisited])
	assert.Nil(t, dir.Stats[trustlevel.TimeRead], "time_read is never taken from the directory")
}

func TestFetchUserDirectoryStats_NotFoundNeverSubstitutes(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"directory_items":[{"days_visited":99,"user":{"username":"bob","trust_level":3}}]}`))
	})

	dir, err := src.FetchUserDirectoryStats(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrDirectoryUserNotFound)
	assert.Nil(t, dir.Stats)
	assert.Nil(t, dir.TrustLevel)
}

func TestFetchUserDirectoryStats_CustomPeriod(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "yearly", r.URL.Query().Get("period"))
		assert.Equal(t, "likes_received", r.URL.Query().Get("order"))
		w.Write([]byte(`{"directory_items":[]}`))
	})
	src.WithDirectory("yearly", "likes_received")

	_, err := src.FetchUserDirectoryStats(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrDirectoryUserNotFound)
}

func TestCurrentUsername(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session/current.json", r.URL.Path)
		w.Write([]byte(`{"current_user":{"id":1,"username":"alice","trust_level":1}}`))
	})

	name, err := src.CurrentUsername(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestCurrentUsername_Anonymous(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":["not logged in"],"error_type":"not_found"}`))
	})

	_, err := src.CurrentUsername(context.Background())
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeUnauthenticated))
}

func TestFetch_ContextCanceled(t *testing.T) {
	src, _ := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(aboutBody))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchSiteStats(ctx)
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeSourceFetch))
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{float64(3), 3, true},
		{"42", 42, true},
		{" 7 ", 7, true},
		{"abc", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := toNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestSummaryTrustLevel_Fallbacks(t *testing.T) {
	one := 1
	assert.Equal(t, 1, summaryTrustLevel([]summaryUser{{Username: "someone", TrustLevel: &one}}, "alice"))
	assert.Equal(t, 0, summaryTrustLevel(nil, "alice"))
}
