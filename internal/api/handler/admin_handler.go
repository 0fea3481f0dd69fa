package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chat-api/internal/core/ports"
)

const defaultAuditLimit = 50

// AdminHandler handles user provisioning, deletion, statistics and the
// audit trail. Every route is guarded by admin-only RBAC in the router.
type AdminHandler struct {
	userService ports.UserService
	audit       ports.AuditRepository
}

func NewAdminHandler(userService ports.UserService, audit ports.AuditRepository) *AdminHandler {
	return &AdminHandler{userService: userService, audit: audit}
}

// RegisterUser provisions a new account with an explicit password.
//
// @Summary      Register a new user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerUserRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users [post]
func (h *AdminHandler) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// DeleteUser removes a user and reassigns their messages to anonymous.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username to delete"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{username} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	if err := h.userService.Delete(c.Request().Context(), username); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns per-user message statistics, ordered by username.
//
// @Summary      Get user statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.userService.Statistics(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]userStatsResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, userStatsResponse{
			Username:             s.Username,
			MessageCount:         s.MessageCount,
			FirstMessageAt:       s.FirstMessageAt,
			LastMessageAt:        s.LastMessageAt,
			AverageContentLength: s.AverageContentLength,
			LastMessageContent:   s.LastMessageContent,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Audit returns the most recent audit trail entries.
//
// @Summary      List recent audit entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries to return (default 50)"
// @Success      200    {array}   auditEntryResponse
// @Failure      403    {object}  errorResponse
// @Router       /admin/audit [get]
func (h *AdminHandler) Audit(c echo.Context) error {
	limit := int64(defaultAuditLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	entries, err := h.audit.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	resp := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, auditEntryResponse{
			Action:    e.Action,
			Actor:     e.Actor,
			Target:    e.Target,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
