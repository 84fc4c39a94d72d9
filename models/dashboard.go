package models

import "time"

// DashboardStatistics is the headline counter block of a dashboard response.
type DashboardStatistics struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	OverdueTasks    int64 `json:"overdueTasks"`
}

// DashboardCharts carries the distribution maps. Both maps cover their full enum
// (plus the "All" total key for the status distribution) even when a bucket is
// empty, so chart consumers never see sparse keys.
type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

// RecentTaskSummary is the reduced projection of a task shown in the user
// dashboard's recent list.
type RecentTaskSummary struct {
	Title     string       `bson:"title" json:"title"`
	Status    TaskStatus   `bson:"status" json:"status"`
	Priority  TaskPriority `bson:"priority" json:"priority"`
	DueDate   time.Time    `bson:"dueDate" json:"dueDate"`
	CreatedAt time.Time    `bson:"createdAt" json:"createdAt"`
}

// AdminDashboard is the global view: full task objects in the recent list.
type AdminDashboard struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []Task              `json:"recentTasks"`
}

// UserDashboard is the per-user view, scoped to the principal's assignments.
type UserDashboard struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTaskSummary `json:"recentTasks"`
}
