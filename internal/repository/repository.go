package repository

import (
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithAssignees creates a task and its assignments in one transaction
	CreateWithAssignees(task *models.Task, userIDs []uint64) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// Update saves all task columns
	Update(task *models.Task) error

	// AssignUsers adds users to a task; existing memberships are left untouched
	AssignUsers(taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uint64, userIDs []uint64) error

	// AssignedUserIDs lists the IDs of a task's assignees in ascending order
	AssignedUserIDs(taskID uint64) ([]uint64, error)

	// ListByAssignee returns one page of a user's tasks, newest first, and the total count
	ListByAssignee(userID uint64, params utils.PaginationParams) ([]models.Task, int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// FindExistingIDs returns which of the given IDs belong to persisted users
	FindExistingIDs(ids []uint64) ([]uint64, error)
}
