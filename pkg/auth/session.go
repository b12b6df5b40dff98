package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/api"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/client"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/credentials"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
)

// Where a target username came from.
const (
	FromProfileURL = "profile-url"
	FromArgument   = "argument"
	FromSession    = "session"
	FromConfig     = "config"
	FromForum      = "session/current.json"
)

// Target is the forum and user a command works on. Username is empty
// until it has been resolved.
type Target struct {
	BaseURL  string
	Username string
	Origin   string
}

// UsernameLookup asks the forum who is logged in.
type UsernameLookup interface {
	CurrentUsername(ctx context.Context) (string, error)
}

// ResolveTarget works out the forum and user from a command argument.
// The argument is either a username or a profile URL; without one the
// stored session and then forum.username are tried.
func ResolveTarget(arg string) (Target, error) {
	arg = strings.TrimSpace(arg)

	if api.LooksLikeURL(arg) {
		pt, err := api.ParseProfileURL(arg)
		if err != nil {
			return Target{}, clierrors.ValidationError("profile URL", err.Error())
		}
		return Target{BaseURL: pt.BaseURL, Username: pt.Username, Origin: FromProfileURL}, nil
	}

	base := strings.TrimRight(config.GetString("forum.base_url"), "/")
	if base == "" {
		return Target{}, clierrors.ConfigError("forum.base_url", "no forum configured").
			WithSuggestion("Run 'tlprogress config set forum.base_url https://your.forum' or pass a profile URL")
	}
	t := Target{BaseURL: base}

	if arg != "" {
		t.Username, t.Origin = arg, FromArgument
		return t, nil
	}

	creds, err := credentials.Load()
	if err != nil {
		logger.Warn("Failed to read stored session", "error", err)
	}
	if creds.IsValid() && creds.Matches(base) && creds.Username != "" {
		t.Username, t.Origin = creds.Username, FromSession
		return t, nil
	}

	if name := config.GetString("forum.username"); name != "" {
		t.Username, t.Origin = name, FromConfig
	}
	return t, nil
}

// ApplySession points the shared client at t's forum and attaches the
// stored session cookie when it belongs to that forum. It reports whether
// a session was attached.
func ApplySession(t Target) (bool, error) {
	config.Set("forum.base_url", t.BaseURL)

	creds, err := credentials.Load()
	if err != nil {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if !creds.IsValid() || !creds.Matches(t.BaseURL) {
		client.ClearSessionCookie()
		return false, nil
	}

	logger.Debug("Using stored session", "forum", creds.BaseURL)
	client.SetSessionCookie(creds.CookieName, creds.Cookie)
	return true, nil
}

// ResolveUsername fills in t.Username from the forum session when it is
// still unknown. Anonymous sessions yield an unauthenticated error.
func ResolveUsername(ctx context.Context, t Target, lookup UsernameLookup) (Target, error) {
	if t.Username != "" {
		return t, nil
	}

	name, err := lookup.CurrentUsername(ctx)
	if err != nil {
		return t, err
	}
	t.Username, t.Origin = name, FromForum
	return t, nil
}
