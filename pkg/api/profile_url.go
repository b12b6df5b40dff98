package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	subdirPattern   = regexp.MustCompile(`^/([^/]+)/u/`)
	usernamePattern = regexp.MustCompile(`/u/([^/?#]+)(?:/|$)`)
)

// ProfileTarget is a forum and user taken from a profile page URL.
type ProfileTarget struct {
	BaseURL  string
	Username string
}

// LooksLikeURL reports whether s should be parsed as a profile URL rather
// than taken as a username.
func LooksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ParseProfileURL extracts the API base and username from a profile URL
// such as https://example.com/forum/u/alice/summary. A single leading path
// segment before /u/ is treated as a sub-directory install.
func ParseProfileURL(raw string) (ProfileTarget, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ProfileTarget{}, fmt.Errorf("parse profile URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return ProfileTarget{}, fmt.Errorf("profile URL %q has no scheme or host", raw)
	}

	base := u.Scheme + "://" + u.Host
	if m := subdirPattern.FindStringSubmatch(u.Path); m != nil {
		base += "/" + m[1]
	}

	m := usernamePattern.FindStringSubmatch(u.Path)
	if m == nil {
		return ProfileTarget{}, fmt.Errorf("profile URL %q has no /u/<username> segment", raw)
	}
	username, err := url.PathUnescape(m[1])
	if err != nil {
		username = m[1]
	}

	return ProfileTarget{BaseURL: base, Username: username}, nil
}
