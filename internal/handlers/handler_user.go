package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
)

type userHandler struct {
	userService portssvc.UserService
}

func newUserHandler(userService portssvc.UserService) *userHandler {
	return &userHandler{userService: userService}
}

// getMe godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	userID, _, ok := identityFromContext(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// registerUserRoutes registers user routes.
func registerUserRoutes(group *gin.RouterGroup, userService portssvc.UserService) {
	h := newUserHandler(userService)
	group.GET("/users/me", h.getMe)
}
