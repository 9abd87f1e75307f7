package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yukikurage/task-assignment-api/internal/models"
)

func (suite *HandlerTestSuite) TestCreateTask_Success() {
	body := fmt.Sprintf(`{"name": "Fix bug", "description": "Crash on save", "task_type": "Bug", "user_id": ["%d", %d]}`,
		suite.member.ID, suite.admin.ID)
	w, response := suite.do(suite.admin, "PUT", "/task/", body)

	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Equal("Task created successfully", response["message"])

	data := response["data"].(map[string]any)
	suite.Equal("Fix bug", data["name"])
	suite.Equal("Pending", data["status"])
	suite.Nil(data["completed_at"])
	suite.ElementsMatch([]any{float64(suite.admin.ID), float64(suite.member.ID)}, data["assigned_user_ids"])
}

func (suite *HandlerTestSuite) TestCreateTask_SingleAssignee() {
	body := fmt.Sprintf(`{"name": "One", "description": "d", "task_type": "Feature", "status": "In Progress", "user_id": %d}`,
		suite.member.ID)
	w, response := suite.do(suite.admin, "PUT", "/task/", body)

	suite.Require().Equal(http.StatusCreated, w.Code)
	data := response["data"].(map[string]any)
	suite.Equal("In Progress", data["status"])
	suite.Equal([]any{float64(suite.member.ID)}, data["assigned_user_ids"])
}

func (suite *HandlerTestSuite) TestCreateTask_MissingUsers() {
	body := fmt.Sprintf(`{"name": "Ghost", "description": "d", "task_type": "Bug", "user_id": [%d, 999]}`, suite.member.ID)
	w, response := suite.do(suite.admin, "PUT", "/task/", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Users not found with IDs: [999]", response["error"])
	details := response["details"].(map[string]any)
	suite.Equal([]any{float64(999)}, details["missing_user_ids"])

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *HandlerTestSuite) TestCreateTask_MissingFields() {
	w, response := suite.do(suite.admin, "PUT", "/task/", `{"name": "Incomplete"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	details := response["details"].(map[string]any)
	suite.Contains(details, "description")
	suite.Contains(details, "task_type")
}

func (suite *HandlerTestSuite) TestCreateTask_BadUserID() {
	w, response := suite.do(suite.admin, "PUT", "/task/", `{"name": "x", "description": "d", "task_type": "Bug", "user_id": "abc"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(response, "error")
}

func (suite *HandlerTestSuite) TestCreateTask_UserIDOutOfRange() {
	w, response := suite.do(suite.admin, "PUT", "/task/", `{"name": "x", "description": "d", "task_type": "Bug", "user_id": 18446744073709551615}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(response, "error")

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	suite.Zero(count)
}

func (suite *HandlerTestSuite) TestCreateTask_Forbidden() {
	w, _ := suite.do(suite.member, "PUT", "/task/", `{"name": "x", "description": "d", "task_type": "Bug"}`)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do(nil, "PUT", "/task/", `{"name": "x", "description": "d", "task_type": "Bug"}`)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestAssignUsers_Success() {
	taskID := suite.createTask("Shared")
	body := fmt.Sprintf(`{"user_ids": [%d, %d]}`, suite.member.ID, suite.admin.ID)

	for i := 0; i < 2; i++ {
		w, response := suite.do(suite.admin, "POST", fmt.Sprintf("/tasks/%d/assign/", taskID), body)
		suite.Require().Equal(http.StatusOK, w.Code)
		suite.Equal(fmt.Sprintf("Task %d assigned to 2 users", taskID), response["message"])
		suite.Equal(float64(2), response["assigned_count"])
	}

	var count int64
	suite.db.Model(&models.TaskAssignment{}).Where("task_id = ?", taskID).Count(&count)
	suite.Equal(int64(2), count)
}

func (suite *HandlerTestSuite) TestAssignUsers_NotAList() {
	taskID := suite.createTask("Strict")
	w, response := suite.do(suite.admin, "POST", fmt.Sprintf("/tasks/%d/assign/", taskID), `{"user_ids": 5}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("user_ids must be a list", response["error"])
}

func (suite *HandlerTestSuite) TestAssignUsers_TaskNotFound() {
	for _, body := range []string{`{"user_ids": [1]}`, `{"user_ids": "nope"}`, `{}`} {
		w, response := suite.do(suite.admin, "POST", "/tasks/4040/assign/", body)
		suite.Equal(http.StatusNotFound, w.Code, body)
		suite.Equal("Task not found", response["error"])
	}
}

func (suite *HandlerTestSuite) TestAssignUsers_EmptyBody() {
	w, response := suite.do(suite.admin, "POST", "/tasks/4040/assign/", "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Task not found", response["error"])

	taskID := suite.createTask("Untouched")
	w, response = suite.do(suite.admin, "POST", fmt.Sprintf("/tasks/%d/assign/", taskID), "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(fmt.Sprintf("Task %d assigned to 0 users", taskID), response["message"])
	suite.Equal(float64(0), response["assigned_count"])
	suite.Empty(response["assigned_users"])
}

func (suite *HandlerTestSuite) TestAssignUsers_MissingUsers() {
	taskID := suite.createTask("Partial")
	body := fmt.Sprintf(`{"user_ids": [42, %d, 7]}`, suite.member.ID)
	w, response := suite.do(suite.admin, "POST", fmt.Sprintf("/tasks/%d/assign/", taskID), body)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("Users not found with IDs: [7 42]", response["error"])
}

func (suite *HandlerTestSuite) TestAssignUsers_Forbidden() {
	taskID := suite.createTask("Guarded")
	w, _ := suite.do(suite.member, "POST", fmt.Sprintf("/tasks/%d/assign/", taskID), `{"user_ids": []}`)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestUnassignUsers() {
	taskID := suite.createTask("Shrink", suite.member.ID, suite.admin.ID)
	body := fmt.Sprintf(`{"user_ids": [%d]}`, suite.member.ID)
	w, response := suite.do(suite.admin, "POST", fmt.Sprintf("/tasks/%d/unassign/", taskID), body)

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(1), response["removed_count"])

	w, response = suite.do(suite.admin, "GET", fmt.Sprintf("/tasks/%d/", taskID), "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal([]any{float64(suite.admin.ID)}, response["assigned_user_ids"])
}

func (suite *HandlerTestSuite) TestGetTask_NotFound() {
	w, _ := suite.do(suite.member, "GET", "/tasks/999/", "")
	suite.Equal(http.StatusNotFound, w.Code)

	w, _ = suite.do(suite.member, "GET", "/tasks/abc/", "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateTask() {
	taskID := suite.createTask("Before")
	w, response := suite.do(suite.admin, "PATCH", fmt.Sprintf("/tasks/%d/", taskID),
		`{"status": "Completed", "completed_at": "2024-05-01T12:00:00Z"}`)

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Completed", response["status"])
	suite.Equal("Before", response["name"])
	completedAt, err := time.Parse(time.RFC3339, response["completed_at"].(string))
	suite.Require().NoError(err)
	suite.True(completedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

	w, response = suite.do(suite.admin, "PATCH", fmt.Sprintf("/tasks/%d/", taskID), `{"status": "Pending", "completed_at": null}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Pending", response["status"])
	suite.Nil(response["completed_at"])
}

func (suite *HandlerTestSuite) TestUpdateTask_Invalid() {
	taskID := suite.createTask("Target")

	w, _ := suite.do(suite.admin, "PATCH", fmt.Sprintf("/tasks/%d/", taskID), `{"status": "Done"}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.do(suite.admin, "PATCH", fmt.Sprintf("/tasks/%d/", taskID), `{"completed_at": "yesterday"}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.do(suite.member, "PATCH", fmt.Sprintf("/tasks/%d/", taskID), `{"name": "Mine"}`)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestListUserTasks() {
	older := suite.createTask("Older", suite.member.ID)
	newer := suite.createTask("Newer", suite.member.ID)
	suite.createTask("Unrelated", suite.admin.ID)
	suite.db.Model(&models.Task{}).Where("id = ?", older).Update("created_at", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	suite.db.Model(&models.Task{}).Where("id = ?", newer).Update("created_at", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	w, response := suite.do(suite.member, "GET", fmt.Sprintf("/users/%d/tasks/", suite.member.ID), "")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(2), response["count"])
	suite.Equal(float64(10), response["page_size"])
	suite.Nil(response["next"])
	suite.Nil(response["previous"])

	results := response["results"].(map[string]any)
	user := results["user"].(map[string]any)
	suite.Equal("member@example.com", user["email"])
	suite.Equal(false, user["is_admin"])

	tasks := results["tasks"].([]any)
	suite.Require().Len(tasks, 2)
	suite.Equal("Newer", tasks[0].(map[string]any)["name"])
	suite.Equal("Older", tasks[1].(map[string]any)["name"])
}

func (suite *HandlerTestSuite) TestListUserTasks_PageOutOfRange() {
	suite.createTask("Only", suite.member.ID)

	w, response := suite.do(suite.member, "GET", fmt.Sprintf("/users/%d/tasks/?page=999&page_size=500", suite.member.ID), "")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(999), response["page"])
	suite.Equal(float64(100), response["page_size"])
	suite.Equal(float64(1), response["previous"])

	results := response["results"].(map[string]any)
	suite.Empty(results["tasks"])
	suite.Equal(float64(suite.member.ID), results["user"].(map[string]any)["id"])
}

func (suite *HandlerTestSuite) TestListUserTasks_HugePage() {
	suite.createTask("Only", suite.member.ID)

	w, response := suite.do(suite.member, "GET", fmt.Sprintf("/users/%d/tasks/?page=1844674407370955162&page_size=10", suite.member.ID), "")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(1), response["count"])
	suite.Nil(response["next"])
	suite.Equal(float64(1), response["previous"])
	results := response["results"].(map[string]any)
	suite.Empty(results["tasks"])
}

func (suite *HandlerTestSuite) TestListUserTasks_UserNotFound() {
	w, response := suite.do(suite.member, "GET", "/users/999/tasks/", "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("User not found", response["error"])
}
