package dto

import (
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	TaskType    models.TaskType   `json:"task_type"`
	Status      models.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at"`
}

// TaskDetailDTO is a task together with its assignees
type TaskDetailDTO struct {
	TaskDTO
	AssignedUserIDs []uint64 `json:"assigned_user_ids"`
}

// AssignmentResponse summarizes an assign call
type AssignmentResponse struct {
	Message       string   `json:"message"`
	TaskID        uint64   `json:"task_id"`
	AssignedCount int      `json:"assigned_count"`
	AssignedUsers []uint64 `json:"assigned_users"`
}

// UnassignmentResponse summarizes an unassign call
type UnassignmentResponse struct {
	Message      string   `json:"message"`
	TaskID       uint64   `json:"task_id"`
	RemovedCount int      `json:"removed_count"`
	RemovedUsers []uint64 `json:"removed_users"`
}

// UserTasksDTO is the body of one page of a user's tasks
type UserTasksDTO struct {
	User  UserSummaryDTO `json:"user"`
	Tasks []TaskDTO      `json:"tasks"`
}

// UserTasksResponse represents a paginated list of a user's tasks.
// Next and Previous are page numbers, null when there is no such page.
type UserTasksResponse struct {
	Count      int64        `json:"count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	Next       *int         `json:"next"`
	Previous   *int         `json:"previous"`
	Results    UserTasksDTO `json:"results"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		TaskType:    task.TaskType,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// ToTaskDetailDTO converts a task and its assignee IDs to TaskDetailDTO
func ToTaskDetailDTO(task models.Task, assignedUserIDs []uint64) TaskDetailDTO {
	if assignedUserIDs == nil {
		assignedUserIDs = []uint64{}
	}
	return TaskDetailDTO{
		TaskDTO:         ToTaskDTO(task),
		AssignedUserIDs: assignedUserIDs,
	}
}

// ToUserTasksResponse builds the paginated listing envelope
func ToUserTasksResponse(user models.User, tasks []models.Task, page, pageSize int, totalCount int64) UserTasksResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	var next, previous *int
	if page < totalPages {
		n := page + 1
		next = &n
	}
	// A page past the end points back at the last real page
	if p := min(page-1, totalPages); p >= 1 {
		previous = &p
	}

	return UserTasksResponse{
		Count:      totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Next:       next,
		Previous:   previous,
		Results: UserTasksDTO{
			User:  ToUserSummaryDTO(user),
			Tasks: items,
		},
	}
}
