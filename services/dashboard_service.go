package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boylish/Task-Manager-backend/models"
)

// DashboardService computes the admin (global) and user (scoped) dashboard
// aggregates. The grouping pipelines run behind a circuit breaker so a failing
// store sheds dashboard load fast instead of piling up aggregation queries.
type DashboardService struct {
	tasksCollection *mongo.Collection
	breaker         *gobreaker.CircuitBreaker
}

func NewDashboardService(tasksCollection *mongo.Collection, breaker *gobreaker.CircuitBreaker) *DashboardService {
	return &DashboardService{
		tasksCollection: tasksCollection,
		breaker:         breaker,
	}
}

const recentTaskLimit = 10

// AdminDashboard aggregates over every task in the collection.
func (s *DashboardService) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	scope := bson.M{}

	stats, err := s.statistics(ctx, scope)
	if err != nil {
		return nil, err
	}
	charts, err := s.charts(ctx, scope, stats.TotalTasks)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(recentTaskLimit)
	cursor, err := s.tasksCollection.Find(ctx, scope, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent tasks: %v", err)
	}
	defer cursor.Close(ctx)

	recent := []models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		recent = append(recent, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return &models.AdminDashboard{
		Statistics:  stats,
		Charts:      charts,
		RecentTasks: recent,
	}, nil
}

// UserDashboard aggregates over the tasks assigned to the principal. Recent tasks
// are projected down to the reduced summary shape.
func (s *DashboardService) UserDashboard(ctx context.Context, principal models.Principal) (*models.UserDashboard, error) {
	scope := bson.M{"assignedTo": principal.ID}

	stats, err := s.statistics(ctx, scope)
	if err != nil {
		return nil, err
	}
	charts, err := s.charts(ctx, scope, stats.TotalTasks)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(recentTaskLimit).
		SetProjection(bson.M{"title": 1, "status": 1, "priority": 1, "dueDate": 1, "createdAt": 1})
	cursor, err := s.tasksCollection.Find(ctx, scope, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve recent tasks: %v", err)
	}
	defer cursor.Close(ctx)

	recent := []models.RecentTaskSummary{}
	for cursor.Next(ctx) {
		var summary models.RecentTaskSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode task summary: %v", err)
		}
		recent = append(recent, summary)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return &models.UserDashboard{
		Statistics:  stats,
		Charts:      charts,
		RecentTasks: recent,
	}, nil
}

// statistics builds the headline counters. Overdue is evaluated against the
// wall clock at call time, never cached.
func (s *DashboardService) statistics(ctx context.Context, scope bson.M) (models.DashboardStatistics, error) {
	var stats models.DashboardStatistics

	count := func(extra bson.M) (int64, error) {
		filter := bson.M{}
		for k, v := range scope {
			filter[k] = v
		}
		for k, v := range extra {
			filter[k] = v
		}
		return s.tasksCollection.CountDocuments(ctx, filter)
	}

	var err error
	if stats.TotalTasks, err = count(bson.M{}); err != nil {
		return stats, fmt.Errorf("failed to count tasks: %v", err)
	}
	if stats.PendingTasks, err = count(bson.M{"status": models.StatusPending}); err != nil {
		return stats, fmt.Errorf("failed to count tasks: %v", err)
	}
	if stats.InProgressTasks, err = count(bson.M{"status": models.StatusInProgress}); err != nil {
		return stats, fmt.Errorf("failed to count tasks: %v", err)
	}
	if stats.CompletedTasks, err = count(bson.M{"status": models.StatusCompleted}); err != nil {
		return stats, fmt.Errorf("failed to count tasks: %v", err)
	}
	if stats.OverdueTasks, err = count(bson.M{
		"dueDate": bson.M{"$lt": time.Now()},
		"status":  bson.M{"$ne": models.StatusCompleted},
	}); err != nil {
		return stats, fmt.Errorf("failed to count overdue tasks: %v", err)
	}

	return stats, nil
}

func (s *DashboardService) charts(ctx context.Context, scope bson.M, total int64) (models.DashboardCharts, error) {
	statusCounts, err := s.groupCounts(ctx, scope, "status")
	if err != nil {
		return models.DashboardCharts{}, err
	}
	priorityCounts, err := s.groupCounts(ctx, scope, "priority")
	if err != nil {
		return models.DashboardCharts{}, err
	}

	return models.DashboardCharts{
		TaskDistribution:   BuildStatusDistribution(statusCounts, total),
		TaskPriorityLevels: BuildPriorityLevels(priorityCounts),
	}, nil
}

// groupCounts runs a $group pipeline over the scoped tasks, counting documents per
// distinct value of the given field. The call goes through the circuit breaker.
func (s *DashboardService) groupCounts(ctx context.Context, scope bson.M, field string) (map[string]int64, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		pipeline := mongo.Pipeline{
			bson.D{{Key: "$match", Value: scope}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + field},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}

		cursor, err := s.tasksCollection.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate by %s: %v", field, err)
		}
		defer cursor.Close(ctx)

		counts := make(map[string]int64)
		for cursor.Next(ctx) {
			var row struct {
				ID    string `bson:"_id"`
				Count int64  `bson:"count"`
			}
			if err := cursor.Decode(&row); err != nil {
				return nil, fmt.Errorf("failed to decode aggregation row: %v", err)
			}
			counts[row.ID] = row.Count
		}
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("cursor error: %v", err)
		}
		return counts, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]int64), nil
}

// BuildStatusDistribution assembles the status chart map. Every status appears
// even at zero, and "All" carries the scoped total.
func BuildStatusDistribution(counts map[string]int64, total int64) map[string]int64 {
	distribution := make(map[string]int64, len(models.TaskStatuses)+1)
	for _, status := range models.TaskStatuses {
		distribution[string(status)] = counts[string(status)]
	}
	distribution["All"] = total
	return distribution
}

// BuildPriorityLevels assembles the priority chart map with title-cased keys,
// matching the stored lowercase priorities case-insensitively. Every priority
// appears even at zero.
func BuildPriorityLevels(counts map[string]int64) map[string]int64 {
	levels := map[string]int64{"Low": 0, "Medium": 0, "High": 0}
	for raw, count := range counts {
		switch models.TaskPriority(strings.ToLower(raw)) {
		case models.PriorityLow:
			levels["Low"] += count
		case models.PriorityMedium:
			levels["Medium"] += count
		case models.PriorityHigh:
			levels["High"] += count
		}
	}
	return levels
}
