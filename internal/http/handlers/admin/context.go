package admin

import (
	"strconv"

	handlershared "github.com/himalbox/internal/http/handlers/shared"
	"github.com/himalbox/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// getAdminUsername 读取当前管理员用户名。
func getAdminUsername(c *gin.Context) string {
	value, exists := c.Get("admin_username")
	if !exists {
		return ""
	}
	if username, ok := value.(string); ok {
		return username
	}
	return ""
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(value), true
}
