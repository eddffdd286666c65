package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-board/internal/api/dto"
	"github.com/spec-kit/ticket-board/internal/domain"
	"github.com/spec-kit/ticket-board/internal/service"
	apperrors "github.com/spec-kit/ticket-board/pkg/util/errorutil"
)

// TicketsHandler serves the grouped board and the raw ticket list.
type TicketsHandler struct {
	service *service.BoardService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(boardService *service.BoardService) *TicketsHandler {
	return &TicketsHandler{service: boardService}
}

// Board GET /api/board. The grouping and ordering query parameters override
// the stored selections for this request only.
func (h *TicketsHandler) Board(c *fiber.Ctx) error {
	groupingRaw, orderingRaw := c.Query("grouping"), c.Query("ordering")
	if groupingRaw == "" && orderingRaw == "" {
		return c.JSON(fiber.Map{"data": dto.NewBoardResponse(h.service.View())})
	}

	state := h.service.State()
	grouping, ordering := state.Grouping, state.Ordering
	if groupingRaw != "" {
		mode, ok := domain.ParseGroupingMode(groupingRaw)
		if !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("unknown grouping %q", groupingRaw),
				map[string]any{"allowed": domain.GroupingModes})
		}
		grouping = mode
	}
	if orderingRaw != "" {
		mode, ok := domain.ParseOrderingMode(orderingRaw)
		if !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("unknown ordering %q", orderingRaw),
				map[string]any{"allowed": domain.OrderingModes})
		}
		ordering = mode
	}
	return c.JSON(fiber.Map{"data": dto.NewBoardResponse(h.service.ViewWith(grouping, ordering))})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets := h.service.Tickets()
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t))
	}
	return c.JSON(fiber.Map{"data": items})
}
