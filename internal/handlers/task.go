package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/dto"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
	"github.com/yukikurage/task-assignment-api/internal/models"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/utils"
)

const (
	ParamTaskID = "task_id"
	ParamUserID = "user_id"
)

// TaskHandler serves task creation, assignment and listing.
type TaskHandler struct {
	taskService *services.TaskService
	log         logrus.FieldLogger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// CreateTask creates a task, optionally assigned to one or more users.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name        string          `json:"name" binding:"max=255"`
		Description string          `json:"description"`
		TaskType    string          `json:"task_type"`
		Status      string          `json:"status"`
		UserID      json.RawMessage `json:"user_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	assigneeIDs, err := dto.ParseUserIDs(req.UserID, true)
	if err != nil {
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeInvalidFormat, err.Error(), gin.H{"user_id": err.Error()})
		return
	}

	result, err := h.taskService.CreateTask(middleware.GetIdentity(c), services.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		TaskType:    models.TaskType(req.TaskType),
		Status:      models.TaskStatus(req.Status),
		AssigneeIDs: assigneeIDs,
	})
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse{
		Message: "Task created successfully",
		Data:    dto.ToTaskDetailDTO(*result.Task, result.AssignedUserIDs),
	})
}

// GetTask returns a task with its assignees.
func (h *TaskHandler) GetTask(c *gin.Context) {
	result, err := h.taskService.GetTask(middleware.GetIDParam(c, ParamTaskID))
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*result.Task, result.AssignedUserIDs))
}

// UpdateTask applies a partial update. completed_at may be set to a
// timestamp or cleared with null; omitting it leaves it unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Name        *string         `json:"name" binding:"omitempty,max=255"`
		Description *string         `json:"description"`
		TaskType    *string         `json:"task_type"`
		Status      *string         `json:"status"`
		CompletedAt json.RawMessage `json:"completed_at"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.TaskType != nil {
		taskType := models.TaskType(*req.TaskType)
		input.TaskType = &taskType
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}

	switch raw := bytes.TrimSpace(req.CompletedAt); {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		input.ClearCompletedAt = true
	default:
		var completedAt time.Time
		if err := json.Unmarshal(raw, &completedAt); err != nil {
			apierrors.BadRequestWithDetails(c, apierrors.ErrCodeInvalidFormat, "Invalid completed_at", gin.H{
				"completed_at": "must be an RFC 3339 timestamp or null",
			})
			return
		}
		input.CompletedAt = &completedAt
	}

	result, err := h.taskService.UpdateTask(middleware.GetIdentity(c), middleware.GetIDParam(c, ParamTaskID), input)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*result.Task, result.AssignedUserIDs))
}

// AssignUsers adds users to an existing task.
func (h *TaskHandler) AssignUsers(c *gin.Context) {
	input, ok := h.bindAssignment(c)
	if !ok {
		return
	}

	result, err := h.taskService.AssignUsers(middleware.GetIdentity(c), input)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.AssignmentResponse{
		Message:       fmt.Sprintf("Task %d assigned to %d users", result.TaskID, result.Count),
		TaskID:        result.TaskID,
		AssignedCount: result.Count,
		AssignedUsers: nonNilIDs(result.UserIDs),
	})
}

// UnassignUsers removes users from an existing task.
func (h *TaskHandler) UnassignUsers(c *gin.Context) {
	input, ok := h.bindAssignment(c)
	if !ok {
		return
	}

	result, err := h.taskService.UnassignUsers(middleware.GetIdentity(c), input)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.UnassignmentResponse{
		Message:      fmt.Sprintf("Task %d unassigned from %d users", result.TaskID, result.Count),
		TaskID:       result.TaskID,
		RemovedCount: result.Count,
		RemovedUsers: nonNilIDs(result.UserIDs),
	})
}

func (h *TaskHandler) bindAssignment(c *gin.Context) (services.AssignUsersInput, bool) {
	type AssignUsersRequest struct {
		UserIDs json.RawMessage `json:"user_ids"`
	}

	// An empty body carries no user_ids, which is an empty assignment.
	var req AssignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return services.AssignUsersInput{}, false
	}

	input := services.AssignUsersInput{TaskID: middleware.GetIDParam(c, ParamTaskID)}
	input.UserIDs, input.UserIDsErr = dto.ParseUserIDs(req.UserIDs, false)
	return input, true
}

// ListUserTasks returns one page of the tasks assigned to a user.
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	page, err := h.taskService.ListUserTasks(middleware.GetIDParam(c, ParamUserID), params)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserTasksResponse(*page.User, page.Tasks, params.Page, params.PageSize, page.Total))
}

func nonNilIDs(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}
