package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-assignment-api/internal/constants"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/validation"
)

// respondServiceError maps service errors onto API errors. Missing-user
// errors use missingUsersStatus since creation reports them as bad input
// and assignment as not found. Unknown errors are logged and never echoed.
func respondServiceError(c *gin.Context, log logrus.FieldLogger, err error, missingUsersStatus int) {
	var validationErr *services.ValidationError
	var missingErr *services.MissingUsersError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeMissingField, validationErr.Message, validationErr.Fields)
	case errors.As(err, &missingErr):
		apierrors.UsersNotFound(c, missingUsersStatus, fmt.Sprintf("Users not found with IDs: %v", missingErr.IDs), missingErr.IDs)
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "User already exists")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, "You do not have permission to perform this action")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, apierrors.ErrCodeInvalidCredentials, "No active account found with the given credentials")
	case errors.Is(err, services.ErrInvalidToken):
		apierrors.Unauthorized(c, apierrors.ErrCodeInvalidToken, "Token is invalid or expired")
	default:
		log.WithError(err).
			WithField("request_id", c.GetString(constants.ContextKeyRequestID)).
			Error("request failed")
		apierrors.InternalError(c)
	}
}

// respondBindError reports a request body that could not be bound
func respondBindError(c *gin.Context, err error) {
	if validation.IsMalformedJSON(err) {
		apierrors.BadRequest(c, "Invalid JSON")
		return
	}
	apierrors.BadRequestWithDetails(c, apierrors.ErrCodeInvalidFormat, "Invalid request body", validation.ToDetails(err))
}
