package models

import "time"

// ActivityItem is a single entry in the recent-activity feed, merged from
// the newest profiles and content records.
type ActivityItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatusCount is a labelled count used by dashboard charts.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendPoint is a daily new-user count for the trend chart.
type TrendPoint struct {
	Name  string `json:"name"`
	Users int    `json:"users"`
}

// OverviewStats aggregates dashboard counters across collections.
type OverviewStats struct {
	TotalStudents               int            `json:"totalStudents"`
	ActiveSubscriptions         int            `json:"activeSubscriptions"`
	ExpiredSubscriptions        int            `json:"expiredSubscriptions"`
	TotalContentItems           int            `json:"totalContentItems"`
	UsedAccessCodes             int            `json:"usedAccessCodes"`
	RecentActivity              []ActivityItem `json:"recentActivity"`
	SubscriptionStatusBreakdown []StatusCount  `json:"subscriptionStatusBreakdown"`
	NewUsersTrend               []TrendPoint   `json:"newUsersTrend"`
}
