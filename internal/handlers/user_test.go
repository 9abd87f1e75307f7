package handlers

import (
	"net/http"

	"github.com/yukikurage/task-assignment-api/internal/models"
)

func (suite *HandlerTestSuite) TestCreateUser_Success() {
	w, response := suite.do(nil, "PUT", "/user/",
		`{"name": "Grace", "email": "Grace@Example.com", "phone": "555", "password": "secret"}`)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Equal("User created successfully", response["message"])

	data := response["data"].(map[string]any)
	suite.Equal("grace@example.com", data["email"])
	suite.Equal(false, data["is_admin"])
	suite.Equal(true, data["is_active"])
	suite.NotContains(data, "password")
	suite.NotContains(data, "password_hash")
}

func (suite *HandlerTestSuite) TestCreateUser_Admin() {
	w, response := suite.do(nil, "PUT", "/user/",
		`{"name": "Root", "email": "root@example.com", "password": "secret", "is_admin": true}`)

	suite.Equal(http.StatusCreated, w.Code)
	data := response["data"].(map[string]any)
	suite.Equal(true, data["is_admin"])
	suite.Equal(true, data["is_staff"])
	suite.Equal(true, data["is_superadmin"])
}

func (suite *HandlerTestSuite) TestCreateUser_InvalidJSON() {
	w, response := suite.do(nil, "PUT", "/user/", `{"email": `)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid JSON", response["error"])
}

func (suite *HandlerTestSuite) TestCreateUser_EmptyEmail() {
	w, response := suite.do(nil, "PUT", "/user/", `{"name": "Nobody", "email": "  "}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(response, "error")
	suite.Contains(response["details"], "email")

	var count int64
	suite.db.Model(&models.User{}).Where("name = ?", "Nobody").Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *HandlerTestSuite) TestCreateUser_Duplicate() {
	w, response := suite.do(nil, "PUT", "/user/", `{"name": "Again", "email": "MEMBER@example.com"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("User already exists", response["error"])
}
