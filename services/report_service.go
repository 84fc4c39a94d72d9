package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/boylish/Task-Manager-backend/models"
)

// ReportService produces the tabular Excel exports consumed by admins. It reads
// through the task and user services and only formats, never mutates.
type ReportService struct {
	tasks *TaskService
	users *UserService
}

func NewReportService(tasks *TaskService, users *UserService) *ReportService {
	return &ReportService{tasks: tasks, users: users}
}

// TaskReportRow is one line of the tasks report.
type TaskReportRow struct {
	ID             string
	Title          string
	Status         models.TaskStatus
	Priority       models.TaskPriority
	DueDate        string
	AssignedNames  string
	AssignedEmails string
	CreatedAt      string
}

// UserReportRow is one line of the users report.
type UserReportRow struct {
	ID              string
	Name            string
	Email           string
	TaskCount       int64
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
}

const reportDateLayout = "2006-01-02"

// ExportTasksReport builds the tasks workbook and its attachment filename.
func (s *ReportService) ExportTasksReport(ctx context.Context) (*excelize.File, string, error) {
	admin := models.Principal{Role: models.RoleAdmin}
	tasks, _, err := s.tasks.ListTasks(ctx, admin, "")
	if err != nil {
		return nil, "", err
	}

	rows := make([]TaskReportRow, 0, len(tasks))
	for _, task := range tasks {
		names := make([]string, 0, len(task.AssignedTo))
		emails := make([]string, 0, len(task.AssignedTo))
		for _, assignee := range task.AssignedTo {
			names = append(names, assignee.Name)
			emails = append(emails, assignee.Email)
		}
		rows = append(rows, TaskReportRow{
			ID:             task.Task.ID.Hex(),
			Title:          task.Title,
			Status:         task.Status,
			Priority:       task.Priority,
			DueDate:        task.DueDate.Format(reportDateLayout),
			AssignedNames:  joinOrNA(names),
			AssignedEmails: joinOrNA(emails),
			CreatedAt:      task.CreatedAt.Format(reportDateLayout),
		})
	}

	file, err := BuildTasksWorkbook(rows)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("tasks_report_%s.xlsx", time.Now().Format(reportDateLayout))
	return file, filename, nil
}

// ExportUsersReport builds the users workbook and its attachment filename.
func (s *ReportService) ExportUsersReport(ctx context.Context) (*excelize.File, string, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, "", err
	}

	rows := make([]UserReportRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, UserReportRow{
			ID:              user.User.ID.Hex(),
			Name:            user.Name,
			Email:           user.Email,
			TaskCount:       user.PendingTasks + user.InProgressTasks + user.CompletedTasks,
			PendingTasks:    user.PendingTasks,
			InProgressTasks: user.InProgressTasks,
			CompletedTasks:  user.CompletedTasks,
		})
	}

	file, err := BuildUsersWorkbook(rows)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("users_report_%s.xlsx", time.Now().Format(reportDateLayout))
	return file, filename, nil
}

const tasksSheet = "Tasks Report"

// BuildTasksWorkbook renders task rows into a workbook.
func BuildTasksWorkbook(rows []TaskReportRow) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", tasksSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %v", err)
	}

	headers := []string{"Task ID", "Title", "Status", "Priority", "Due Date", "Assigned To", "Assigned Email", "Created At"}
	widths := []float64{25, 30, 15, 15, 20, 25, 30, 20}
	if err := writeHeader(file, tasksSheet, headers, widths); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{row.ID, row.Title, string(row.Status), string(row.Priority), row.DueDate, row.AssignedNames, row.AssignedEmails, row.CreatedAt}
		if err := writeRow(file, tasksSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	return file, nil
}

const usersSheet = "Users Report"

// BuildUsersWorkbook renders user rows into a workbook.
func BuildUsersWorkbook(rows []UserReportRow) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", usersSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %v", err)
	}

	headers := []string{"User ID", "Name", "Email", "Total Tasks", "Pending Tasks", "In Progress", "Completed Tasks"}
	widths := []float64{25, 30, 30, 15, 20, 20, 20}
	if err := writeHeader(file, usersSheet, headers, widths); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{row.ID, row.Name, row.Email, row.TaskCount, row.PendingTasks, row.InProgressTasks, row.CompletedTasks}
		if err := writeRow(file, usersSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	return file, nil
}

func writeHeader(file *excelize.File, sheet string, headers []string, widths []float64) error {
	for i, header := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column: %v", err)
		}
		if err := file.SetCellValue(sheet, col+"1", header); err != nil {
			return fmt.Errorf("failed to write header: %v", err)
		}
		if err := file.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return fmt.Errorf("failed to set column width: %v", err)
		}
	}
	return nil
}

func writeRow(file *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %v", err)
		}
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell: %v", err)
		}
	}
	return nil
}

func joinOrNA(parts []string) string {
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, "; ")
}
