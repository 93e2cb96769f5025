package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Pagination normalise page/limit/sort et les place dans le contexte Gin.
// limit est borné par maxLimit, page commence à 1.
func Pagination(defaultLimit, maxLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
		if limit < 1 {
			limit = defaultLimit
		}
		if limit > maxLimit {
			limit = maxLimit
		}

		c.Set("page", page)
		c.Set("limit", limit)
		c.Set("sort", c.Query("sort"))

		c.Next()
	}
}
