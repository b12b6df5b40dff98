package credentials

import (
	"os"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
)

// DefaultCookieName is the Discourse session cookie.
const DefaultCookieName = "_t"

// Credentials is a browser session reused for forum requests. Only one
// session is stored at a time.
type Credentials struct {
	BaseURL    string    `json:"base_url"`
	CookieName string    `json:"cookie_name"`
	Cookie     string    `json:"cookie"`
	Username   string    `json:"username,omitempty"`
	SavedAt    time.Time `json:"saved_at"`
}

// Load loads credentials from disk. A missing file is not an error.
func Load() (*Credentials, error) {
	path := config.GetCredentialsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// Save saves credentials to disk
func Save(creds *Credentials) error {
	path := config.GetCredentialsPath()

	if creds.CookieName == "" {
		creds.CookieName = DefaultCookieName
	}
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	// Owner read/write only
	return os.WriteFile(path, data, 0600)
}

// Delete deletes credentials from disk
func Delete() error {
	path := config.GetCredentialsPath()
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsValid checks that a cookie value is present
func (c *Credentials) IsValid() bool {
	return c != nil && strings.TrimSpace(c.Cookie) != ""
}

// Matches reports whether the session belongs to the forum at baseURL
func (c *Credentials) Matches(baseURL string) bool {
	if c == nil {
		return false
	}
	return normalize(c.BaseURL) == normalize(baseURL)
}

func normalize(u string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(u), "/"))
}
