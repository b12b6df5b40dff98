package cmd

import (
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/service"
	"github.com/spf13/cobra"
)

var (
	sessionCookie     string
	sessionCookieName string
	sessionForce      bool
	sessionVerify     bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the stored forum session",
	Long: `Store a browser session cookie so requests are made as a logged in user.

Copy the value of the _t cookie from a logged in browser tab. It is kept in
session.json next to the config file, readable only by you.`,
}

var sessionLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a session cookie",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSessionService().Login(cmd.Context(), service.LoginOptions{
			BaseURL:    forumURL,
			CookieName: sessionCookieName,
			Cookie:     sessionCookie,
			Force:      sessionForce,
		})
	},
}

var sessionLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSessionService().Logout(sessionForce)
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.NewSessionService().Status(cmd.Context(), sessionVerify)
	},
}

func init() {
	sessionLoginCmd.Flags().StringVar(&sessionCookie, "cookie", "", "Session cookie value (prompted for when empty)")
	sessionLoginCmd.Flags().StringVar(&sessionCookieName, "cookie-name", "_t", "Session cookie name")
	sessionLoginCmd.Flags().BoolVarP(&sessionForce, "force", "f", false, "Replace an existing session without asking")

	sessionLogoutCmd.Flags().BoolVarP(&sessionForce, "force", "f", false, "Do not ask for confirmation")

	sessionStatusCmd.Flags().BoolVar(&sessionVerify, "verify", false, "Ask the forum whether the session is still valid")

	sessionCmd.AddCommand(sessionLoginCmd)
	sessionCmd.AddCommand(sessionLogoutCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
}
