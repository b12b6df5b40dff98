package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/api"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/auth"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/client"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/credentials"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/formatter"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/logger"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/prompter"
)

// SessionService stores the forum session cookie used for requests
type SessionService struct{}

// NewSessionService creates a new session service
func NewSessionService() *SessionService {
	return &SessionService{}
}

// LoginOptions are the values for a login; empty fields are prompted for.
type LoginOptions struct {
	BaseURL    string
	CookieName string
	Cookie     string
	Force      bool
}

// Login stores a browser session cookie after checking it with the forum.
func (s *SessionService) Login(ctx context.Context, opts LoginOptions) error {
	creds, err := credentials.Load()
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		return err
	}

	if creds.IsValid() && !opts.Force {
		formatter.PrintWarning("Already logged in to %s as %s", creds.BaseURL, creds.Username)
		confirm, err := prompter.PromptConfirm("Replace the stored session?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	base := opts.BaseURL
	if base == "" {
		base = config.GetString("forum.base_url")
	}
	if base == "" {
		if base, err = prompter.PromptString("Forum URL: "); err != nil {
			return err
		}
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if !api.LooksLikeURL(base) {
		return clierrors.ValidationError("forum URL", "must start with http:// or https://")
	}

	cookie := opts.Cookie
	if cookie == "" {
		if cookie, err = prompter.PromptPassword("Session cookie (" + cookieName(opts.CookieName) + "): "); err != nil {
			return err
		}
	}
	if cookie == "" {
		return clierrors.ValidationError("cookie", "cannot be empty")
	}

	config.Set("forum.base_url", base)
	client.SetSessionCookie(cookieName(opts.CookieName), cookie)

	formatter.PrintInfo("Checking session...")
	username, err := api.NewSource(client.GetClient()).CurrentUsername(ctx)
	if err != nil {
		client.ClearSessionCookie()
		return err
	}

	creds = &credentials.Credentials{
		BaseURL:    base,
		CookieName: cookieName(opts.CookieName),
		Cookie:     cookie,
		Username:   username,
		SavedAt:    time.Now(),
	}
	if err := credentials.Save(creds); err != nil {
		formatter.PrintError("Failed to save session: %v", err)
		return err
	}

	formatter.PrintSuccess("✓ Logged in to %s as %s", base, formatter.Bold.Sprint(username))
	return nil
}

// Logout removes the stored session.
func (s *SessionService) Logout(force bool) error {
	creds, err := credentials.Load()
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		return err
	}

	if creds == nil {
		formatter.PrintWarning("Not logged in")
		return nil
	}

	if !force {
		confirm, err := prompter.PromptConfirm(fmt.Sprintf("Log out of %s?", creds.BaseURL))
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	if err := credentials.Delete(); err != nil {
		formatter.PrintError("Failed to delete session: %v", err)
		return err
	}
	client.ClearSessionCookie()

	formatter.PrintSuccess("✓ Logged out")
	return nil
}

// Status prints the stored session and, with verify, who the forum
// thinks it belongs to.
func (s *SessionService) Status(ctx context.Context, verify bool) error {
	creds, err := credentials.Load()
	if err != nil {
		return err
	}
	if !creds.IsValid() {
		formatter.PrintWarning("Not logged in")
		return nil
	}

	record := map[string]interface{}{
		"forum":    creds.BaseURL,
		"username": creds.Username,
		"cookie":   creds.CookieName,
		"saved_at": creds.SavedAt.Format(time.RFC3339),
	}

	if verify {
		target := auth.Target{BaseURL: creds.BaseURL}
		if _, err := auth.ApplySession(target); err != nil {
			return err
		}
		username, err := api.NewSource(client.GetClient()).CurrentUsername(ctx)
		switch {
		case clierrors.IsType(err, clierrors.ErrorTypeUnauthenticated):
			record["valid"] = false
		case err != nil:
			return err
		default:
			record["valid"] = true
			record["username"] = username
		}
	}

	return formatter.PrintKeyValue(record)
}

func cookieName(name string) string {
	if name == "" {
		return credentials.DefaultCookieName
	}
	return name
}
