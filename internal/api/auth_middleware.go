package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portal/internal/auth"
	"portal/internal/entity"
)

const (
	currentUserContextKey = "current-user"
)

// RequestUser 存储请求上下文中的认证用户信息
type RequestUser struct {
	ID       uint
	Email    string
	Name     string
	Role     entity.Role
	Approved bool
}

// IsAdmin 判断用户是否具有管理员权限
func (u *RequestUser) IsAdmin() bool {
	return u != nil && u.Role == entity.RoleAdmin
}

// IsTeacher 判断用户是否为教师
func (u *RequestUser) IsTeacher() bool {
	return u != nil && u.Role == entity.RoleTeacher
}

// IsStudent 判断用户是否为学生
func (u *RequestUser) IsStudent() bool {
	return u != nil && u.Role == entity.RoleStudent
}

// HasRole 判断用户角色是否在允许的角色集合内
func (u *RequestUser) HasRole(roles ...entity.Role) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// CanManageCourse reports whether the user may mutate resources under the
// course owned by teacherID. Admins bypass ownership; teachers must own the
// course; students never manage courses.
func (u *RequestUser) CanManageCourse(teacherID uint) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleTeacher:
		return u.ID == teacherID
	case entity.RoleStudent:
		return false
	default:
		return false
	}
}

// AuthMiddleware JWT 认证中间件。除了验证签名和有效期之外，每次请求都按
// subject 重新加载账户：授权决策永远基于数据库里的当前状态，而不是签发
// 时刻写进 token 的快照。
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 缺失凭证、格式错误和签名错误对客户端一律表现为同一个 401，
		// 只有 token 过期单独区分，便于前端引导重新登录。
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		claims, err := h.authManager.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeTokenExpired,
					Message: "token expired",
				})
				return
			}
			logrus.WithError(err).Warn("failed to parse jwt token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := h.repo.GetUserByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 账户已不存在：和坏 token 不可区分
				c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
					Code:    ErrCodeUnauthorized,
					Message: "authentication required",
				})
				return
			}
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load user")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, APIError{
				Code:    ErrCodeServiceUnavailable,
				Message: "failed to verify user",
			})
			return
		}

		if user.Role != entity.RoleAdmin && !user.Approved {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodePendingApproval,
				Message: "account pending approval",
			})
			return
		}

		requestUser := &RequestUser{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Role:     user.Role,
			Approved: user.Approved,
		}

		c.Set(currentUserContextKey, requestUser)
		c.Next()
	}
}

// RequireRoles 角色守卫中间件，角色不在集合内时返回 403
func (h *HTTPHandler) RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "insufficient privileges",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser 从上下文获取当前认证用户
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}
