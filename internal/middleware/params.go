package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
)

// RequireIDParam parses the named path parameter as a positive int64 and
// stores it in the context. Anything else does not match a resource, so it
// is reported as not found.
func RequireIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 63)
		if err != nil || id == 0 {
			apierrors.NotFound(c, "Not found")
			return
		}

		c.Set(paramKey(name), id)
		c.Next()
	}
}

// GetIDParam returns an ID stored by RequireIDParam
func GetIDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(paramKey(name))
}

func paramKey(name string) string {
	return "param." + name
}
