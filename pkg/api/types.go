package api

import "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/trustlevel"

// Wire types for the Discourse endpoints. Only the fields used for
// progress tracking are declared.

type aboutResponse struct {
	About *struct {
		Stats *struct {
			Posts30Days  int64 `json:"posts_30_days"`
			Topics30Days int64 `json:"topics_30_days"`
		} `json:"stats"`
	} `json:"about"`
}

type summaryUser struct {
	Username   string `json:"username"`
	TrustLevel *int   `json:"trust_level"`
}

type summaryResponse struct {
	UserSummary map[string]interface{} `json:"user_summary"`
	Users       []summaryUser          `json:"users"`
}

type directoryItem struct {
	DaysVisited   *float64 `json:"days_visited"`
	LikesGiven    *float64 `json:"likes_given"`
	LikesReceived *float64 `json:"likes_received"`
	PostCount     *float64 `json:"post_count"`
	TopicsEntered *float64 `json:"topics_entered"`
	PostsRead     *float64 `json:"posts_read"`
	User          *struct {
		Username   string `json:"username"`
		TrustLevel *int   `json:"trust_level"`
	} `json:"user"`
}

type directoryResponse struct {
	DirectoryItems []directoryItem `json:"directory_items"`
}

type sessionResponse struct {
	CurrentUser *struct {
		Username   string `json:"username"`
		TrustLevel *int   `json:"trust_level"`
	} `json:"current_user"`
}

// SummaryStats is what summary.json reports for a user.
type SummaryStats struct {
	TrustLevel int              `json:"trust_level"`
	Stats      trustlevel.Stats `json:"stats"`
}

// DirectoryStats is what directory_items reports for a user. TrustLevel is
// nil when the row carries no user object. Fields the directory lacks
// (time_read) are nil in Stats.
type DirectoryStats struct {
	TrustLevel *int                 `json:"trust_level,omitempty"`
	Stats      trustlevel.Overrides `json:"stats"`
}
