package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
)

// Options configures a forum HTTP client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	CookieName string
	Cookie     string
}

var httpClient *resty.Client
var session *http.Cookie

// New builds a resty client for one forum. Requests are relative to
// BaseURL, which may include a sub-directory such as /forum.
func New(opts Options) *resty.Client {
	c := resty.New()

	c.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		c.SetHeader("User-Agent", opts.UserAgent)
	}
	c.SetHeader("Accept", "application/json")

	if opts.Cookie != "" {
		name := opts.CookieName
		if name == "" {
			name = "_t"
		}
		c.SetCookie(&http.Cookie{Name: name, Value: opts.Cookie})
	}

	c.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	c.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response",
			"status", resp.StatusCode(),
			"url", resp.Request.URL,
			"duration", resp.Time())
		return nil
	})

	return c
}

// OptionsFromConfig reads client options from the loaded configuration.
func OptionsFromConfig() Options {
	opts := Options{
		BaseURL:   config.GetString("forum.base_url"),
		Timeout:   time.Duration(config.GetInt("api.timeout")) * time.Second,
		UserAgent: config.GetString("api.user_agent"),
	}
	if session != nil {
		opts.CookieName = session.Name
		opts.Cookie = session.Value
	}
	return opts
}

// Init initializes the shared HTTP client from config
func Init() {
	httpClient = New(OptionsFromConfig())
}

// GetClient returns the shared HTTP client
func GetClient() *resty.Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}

// SetSessionCookie attaches a forum session cookie to every request
func SetSessionCookie(name, value string) {
	if value == "" {
		ClearSessionCookie()
		return
	}
	if name == "" {
		name = "_t"
	}
	session = &http.Cookie{Name: name, Value: value}
	Init()
}

// ClearSessionCookie re-initializes the client without a session
func ClearSessionCookie() {
	session = nil
	Init()
}
