package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-board/internal/api/dto"
	"github.com/spec-kit/ticket-board/internal/service"
)

// UsersHandler lists the fetched users.
type UsersHandler struct {
	service *service.BoardService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(boardService *service.BoardService) *UsersHandler {
	return &UsersHandler{service: boardService}
}

// ListUsers GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users := h.service.Users()
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return c.JSON(fiber.Map{"data": items})
}
