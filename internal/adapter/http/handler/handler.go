package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func actorID(c *gin.Context) int64 {
	if value, exists := c.Get("x-user-id"); exists {
		if id, ok := value.(int64); ok {
			return id
		}
	}

	return 0
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("x-user-role") == "admin"
}

// includeDeleted honors the include_deleted query flag for admins only.
// Everyone else always sees the active-records view.
func includeDeleted(c *gin.Context) bool {
	if !isAdmin(c) {
		return false
	}

	return c.Query("include_deleted") == "true"
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 0 {
		return fallback
	}

	return value
}
