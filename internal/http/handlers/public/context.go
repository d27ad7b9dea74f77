package public

import (
	handlershared "github.com/himalbox/internal/http/handlers/shared"
	"github.com/himalbox/internal/models"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

// getOptionalUserID 读取可选登录身份，未登录返回 0。
func getOptionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if uid, ok := value.(uint); ok {
		return uid
	}
	return 0
}

func getBearerToken(c *gin.Context) string {
	value, exists := c.Get("bearer_token")
	if !exists {
		return ""
	}
	if token, ok := value.(string); ok {
		return token
	}
	return ""
}

// currentUser 加载当前登录用户，未登录返回 nil。
func (h *Handler) currentUser(c *gin.Context) *models.User {
	uid := getOptionalUserID(c)
	if uid == 0 {
		return nil
	}
	user, err := h.UserRepo.GetByID(uid)
	if err != nil {
		return nil
	}
	return user
}
