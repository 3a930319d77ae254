package models

// DashboardSummary backs the admin landing page counters.
type DashboardSummary struct {
	TeamCount      int `json:"team_count"`
	GroupCount     int `json:"group_count"`
	ScheduledCount int `json:"scheduled_count"`
	LiveCount      int `json:"live_count"`
	CompletedCount int `json:"completed_count"`
}
