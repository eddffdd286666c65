package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-board/internal/api/dto"
	"github.com/spec-kit/ticket-board/internal/domain"
	"github.com/spec-kit/ticket-board/internal/service"
	apperrors "github.com/spec-kit/ticket-board/pkg/util/errorutil"
)

// PreferencesHandler reads and changes the display selections.
type PreferencesHandler struct {
	service *service.BoardService
}

// NewPreferencesHandler constructs handler.
func NewPreferencesHandler(boardService *service.BoardService) *PreferencesHandler {
	return &PreferencesHandler{service: boardService}
}

// Get GET /api/preferences.
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": displayState(h.service.State())})
}

// Update PATCH /api/preferences. The body is validated as a whole before any
// field is applied.
func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var (
		grouping domain.GroupingMode
		ordering domain.OrderingMode
		ok       bool
	)
	if req.Grouping != nil {
		if grouping, ok = domain.ParseGroupingMode(*req.Grouping); !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("unknown grouping %q", *req.Grouping),
				map[string]any{"allowed": domain.GroupingModes})
		}
	}
	if req.Ordering != nil {
		if ordering, ok = domain.ParseOrderingMode(*req.Ordering); !ok {
			return apperrors.NewValidationError(
				fmt.Sprintf("unknown ordering %q", *req.Ordering),
				map[string]any{"allowed": domain.OrderingModes})
		}
	}

	ctx := c.UserContext()
	if req.DarkMode != nil {
		h.service.SetDarkMode(ctx, *req.DarkMode)
	}
	if req.Grouping != nil {
		if _, err := h.service.SetGrouping(ctx, grouping); err != nil {
			return err
		}
	}
	if req.Ordering != nil {
		if _, err := h.service.SetOrdering(ctx, ordering); err != nil {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": displayState(h.service.State())})
}

// ToggleTheme POST /api/preferences/theme/toggle.
func (h *PreferencesHandler) ToggleTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": displayState(h.service.ToggleTheme(c.UserContext()))})
}

// ToggleDisplay POST /api/display/toggle.
func (h *PreferencesHandler) ToggleDisplay(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": displayState(h.service.ToggleDropdown())})
}

func displayState(state service.DisplayState) dto.DisplayStateResponse {
	return dto.DisplayStateResponse{
		DarkMode:        state.DarkMode,
		Theme:           state.Theme(),
		Grouping:        string(state.Grouping),
		Ordering:        string(state.Ordering),
		DropdownVisible: state.DropdownVisible,
	}
}
