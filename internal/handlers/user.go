package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/dto"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

// UserHandler serves user registration.
type UserHandler struct {
	userService *services.UserService
	log         logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

// CreateUser registers a regular user, or an admin when is_admin is set.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name     string `json:"name" binding:"max=100"`
		Email    string `json:"email" binding:"max=100"`
		Phone    string `json:"phone" binding:"max=20"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Register(middleware.GetIdentity(c), services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}, req.IsAdmin)
	if err != nil {
		respondServiceError(c, h.log, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse{
		Message: "User created successfully",
		Data:    dto.ToUserDTO(*user),
	})
}
