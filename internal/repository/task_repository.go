package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/task-assignment-api/internal/database"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCreateTask is returned when inserting the task row fails inside the create transaction.
	ErrCreateTask = errors.New("task repository: create task failed")
	// ErrCreateAssignments is returned when inserting memberships fails inside the create transaction.
	ErrCreateAssignments = errors.New("task repository: create assignments failed")
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithAssignees creates a task and its memberships atomically.
func (r *GormTaskRepository) CreateWithAssignees(task *models.Task, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTask, err)
		}

		if err := insertAssignments(tx, task.ID, userIDs); err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAssignments, err)
		}

		return nil
	})
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// AssignUsers assigns multiple users to a task
func (r *GormTaskRepository) AssignUsers(taskID uint64, userIDs []uint64) error {
	return insertAssignments(r.db, taskID, userIDs)
}

// UnassignUsers removes user assignments from a task
func (r *GormTaskRepository) UnassignUsers(taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.Where("task_id = ? AND user_id IN ?", taskID, userIDs).
		Delete(&models.TaskAssignment{}).Error
}

// AssignedUserIDs lists a task's assignee IDs
func (r *GormTaskRepository) AssignedUserIDs(taskID uint64) ([]uint64, error) {
	ids := []uint64{}
	err := r.db.Model(&models.TaskAssignment{}).
		Where("task_id = ?", taskID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByAssignee retrieves a page of the tasks assigned to a user
func (r *GormTaskRepository) ListByAssignee(userID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	assigned := func() *gorm.DB {
		assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", userID)
		return r.db.Model(&models.Task{}).Where("EXISTS (?)", assignmentSubQuery)
	}

	var total int64
	if err := assigned().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if total == 0 || int64(params.Offset) >= total {
		return tasks, total, nil
	}

	if err := assigned().
		Order("tasks.created_at DESC").
		Order("tasks.id DESC").
		Scopes(database.Paginate(params)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// insertAssignments writes (task, user) memberships, ignoring pairs that already exist.
func insertAssignments(db *gorm.DB, taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(userIDs))
	for i, userID := range userIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&assignments).Error
}
