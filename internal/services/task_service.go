package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-assignment-api/internal/auth"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/repository"
	"github.com/yukikurage/task-assignment-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNameEmpty    = &ValidationError{
		Message: "name cannot be empty",
		Fields:  map[string]string{"name": "cannot be empty"},
	}
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string
	Description string
	TaskType    models.TaskType
	Status      models.TaskStatus
	AssigneeIDs []uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Name             *string
	Description      *string
	TaskType         *models.TaskType
	Status           *models.TaskStatus
	CompletedAt      *time.Time
	ClearCompletedAt bool
}

// AssignUsersInput represents input for assigning users to a task.
// UserIDsErr carries a failure to read the user list from the request; it
// is reported only once the task is known to exist.
type AssignUsersInput struct {
	TaskID     uint64
	UserIDs    []uint64
	UserIDsErr error
}

// TaskWithAssignees is a task together with its assignee IDs in ascending order
type TaskWithAssignees struct {
	Task            *models.Task
	AssignedUserIDs []uint64
}

// AssignmentResult summarizes one assign or unassign call
type AssignmentResult struct {
	TaskID  uint64
	Count   int
	UserIDs []uint64
}

// UserTaskPage is one page of the tasks assigned to a user
type UserTaskPage struct {
	User   *models.User
	Tasks  []models.Task
	Total  int64
	Params utils.PaginationParams
}

// CreateTask validates the input, resolves the assignees, then writes the
// task and its memberships in a single transaction.
func (s *TaskService) CreateTask(actor auth.Identity, input CreateTaskInput) (*TaskWithAssignees, error) {
	if !actor.CanManageTasks() {
		return nil, ErrAdminRequired
	}

	if verr := newRequiredFieldsError(map[string]string{
		"name":        input.Name,
		"description": input.Description,
		"task_type":   string(input.TaskType),
	}); verr != nil {
		return nil, verr
	}
	if !input.TaskType.Valid() {
		return nil, invalidChoice("task_type", string(input.TaskType))
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, invalidChoice("status", string(input.Status))
	}

	assigneeIDs, err := s.resolveUsers(input.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:        input.Name,
		Description: input.Description,
		TaskType:    input.TaskType,
		Status:      input.Status,
	}

	if err := s.taskRepo.CreateWithAssignees(task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.withAssignees(task)
}

// GetTask returns a task and its assignees
func (s *TaskService) GetTask(taskID uint64) (*TaskWithAssignees, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}
	return s.withAssignees(task)
}

// UpdateTask updates an existing task. Any status may move to any other
// status; completed_at is only changed when explicitly provided.
func (s *TaskService) UpdateTask(actor auth.Identity, taskID uint64, input UpdateTaskInput) (*TaskWithAssignees, error) {
	if !actor.CanManageTasks() {
		return nil, ErrAdminRequired
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrNameEmpty
		}
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.TaskType != nil {
		if !input.TaskType.Valid() {
			return nil, invalidChoice("task_type", string(*input.TaskType))
		}
		task.TaskType = *input.TaskType
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalidChoice("status", string(*input.Status))
		}
		task.Status = *input.Status
	}
	if input.ClearCompletedAt {
		task.CompletedAt = nil
	} else if input.CompletedAt != nil {
		task.CompletedAt = input.CompletedAt
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.withAssignees(task)
}

// AssignUsers adds users to a task. Membership is idempotent: users that are
// already assigned stay assigned once.
func (s *TaskService) AssignUsers(actor auth.Identity, input AssignUsersInput) (*AssignmentResult, error) {
	if !actor.CanManageTasks() {
		return nil, ErrAdminRequired
	}

	task, err := s.findTask(input.TaskID)
	if err != nil {
		return nil, err
	}
	if input.UserIDsErr != nil {
		return nil, &ValidationError{
			Message: input.UserIDsErr.Error(),
			Fields:  map[string]string{"user_ids": input.UserIDsErr.Error()},
		}
	}

	userIDs, err := s.resolveUsers(input.UserIDs)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.AssignUsers(task.ID, userIDs); err != nil {
		return nil, fmt.Errorf("failed to assign users: %w", err)
	}

	return &AssignmentResult{
		TaskID:  task.ID,
		Count:   len(userIDs),
		UserIDs: sortedIDs(userIDs),
	}, nil
}

// UnassignUsers removes user assignments from a task
func (s *TaskService) UnassignUsers(actor auth.Identity, input AssignUsersInput) (*AssignmentResult, error) {
	if !actor.CanManageTasks() {
		return nil, ErrAdminRequired
	}

	task, err := s.findTask(input.TaskID)
	if err != nil {
		return nil, err
	}
	if input.UserIDsErr != nil {
		return nil, &ValidationError{
			Message: input.UserIDsErr.Error(),
			Fields:  map[string]string{"user_ids": input.UserIDsErr.Error()},
		}
	}

	userIDs, err := s.resolveUsers(input.UserIDs)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UnassignUsers(task.ID, userIDs); err != nil {
		return nil, fmt.Errorf("failed to unassign users: %w", err)
	}

	return &AssignmentResult{
		TaskID:  task.ID,
		Count:   len(userIDs),
		UserIDs: sortedIDs(userIDs),
	}, nil
}

// ListUserTasks returns one page of the tasks assigned to a user, newest
// first. A page past the end yields no tasks rather than an error.
func (s *TaskService) ListUserTasks(userID uint64, params utils.PaginationParams) (*UserTaskPage, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	tasks, total, err := s.taskRepo.ListByAssignee(user.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &UserTaskPage{
		User:   user,
		Tasks:  tasks,
		Total:  total,
		Params: params,
	}, nil
}

// resolveUsers deduplicates ids and verifies every one of them exists.
func (s *TaskService) resolveUsers(ids []uint64) ([]uint64, error) {
	requested := uniqueIDs(ids)
	if len(requested) == 0 {
		return requested, nil
	}

	found, err := s.userRepo.FindExistingIDs(requested)
	if err != nil {
		return nil, fmt.Errorf("failed to verify users: %w", err)
	}

	if missing := missingIDs(requested, found); len(missing) > 0 {
		return nil, &MissingUsersError{IDs: missing}
	}

	return requested, nil
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) withAssignees(task *models.Task) (*TaskWithAssignees, error) {
	ids, err := s.taskRepo.AssignedUserIDs(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}
	return &TaskWithAssignees{Task: task, AssignedUserIDs: ids}, nil
}

func invalidChoice(field, value string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("%q is not a valid %s", value, field),
		Fields:  map[string]string{field: "is not a valid choice"},
	}
}

func sortedIDs(ids []uint64) []uint64 {
	out := append([]uint64(nil), ids...)
	sortUint64s(out)
	return out
}
