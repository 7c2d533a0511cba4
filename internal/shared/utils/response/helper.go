package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondJSON writes the envelope; success is derived from the status code.
func RespondJSON(c *gin.Context, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Success: code < http.StatusBadRequest,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondJSON(c, code, message, nil, nil)
}

func AbortWithError(c *gin.Context, code int, message string) {
	RespondJSON(c, code, message, nil, nil)
	c.Abort()
}

// PageParams reads page/limit query params with defaults 1/20, capping limit at 100
func PageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
