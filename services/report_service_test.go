package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boylish/Task-Manager-backend/models"
)

func TestBuildTasksWorkbook(t *testing.T) {
	rows := []TaskReportRow{
		{
			ID:             "65f000000000000000000001",
			Title:          "Ship release",
			Status:         models.StatusInProgress,
			Priority:       models.PriorityHigh,
			DueDate:        "2026-09-15",
			AssignedNames:  "Alice; Bob",
			AssignedEmails: "alice@example.com; bob@example.com",
			CreatedAt:      "2026-09-01",
		},
	}

	file, err := BuildTasksWorkbook(rows)
	require.NoError(t, err)
	defer file.Close()

	header, err := file.GetCellValue("Tasks Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Task ID", header)

	title, err := file.GetCellValue("Tasks Report", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ship release", title)

	status, err := file.GetCellValue("Tasks Report", "C2")
	require.NoError(t, err)
	assert.Equal(t, "in-progress", status)

	names, err := file.GetCellValue("Tasks Report", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Alice; Bob", names)
}

func TestBuildUsersWorkbook(t *testing.T) {
	rows := []UserReportRow{
		{
			ID:              "65f000000000000000000002",
			Name:            "Alice",
			Email:           "alice@example.com",
			TaskCount:       6,
			PendingTasks:    1,
			InProgressTasks: 2,
			CompletedTasks:  3,
		},
	}

	file, err := BuildUsersWorkbook(rows)
	require.NoError(t, err)
	defer file.Close()

	name, err := file.GetCellValue("Users Report", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	total, err := file.GetCellValue("Users Report", "D2")
	require.NoError(t, err)
	assert.Equal(t, "6", total)

	completed, err := file.GetCellValue("Users Report", "G2")
	require.NoError(t, err)
	assert.Equal(t, "3", completed)
}

func TestBuildWorkbook_EmptyRows(t *testing.T) {
	file, err := BuildTasksWorkbook(nil)
	require.NoError(t, err)
	defer file.Close()

	header, err := file.GetCellValue("Tasks Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Task ID", header)

	// No data rows below the header.
	rows, err := file.GetRows("Tasks Report")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestJoinOrNA(t *testing.T) {
	assert.Equal(t, "N/A", joinOrNA(nil))
	assert.Equal(t, "Alice", joinOrNA([]string{"Alice"}))
	assert.Equal(t, "Alice; Bob", joinOrNA([]string{"Alice", "Bob"}))
}
