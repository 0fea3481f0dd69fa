package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chat-api/internal/core/ports"
)

// ChatHandler handles message posting and listing for the shared channel.
type ChatHandler struct {
	chatService ports.ChatService
}

func NewChatHandler(chatService ports.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// List returns all messages, newest first.
//
// @Summary      List all messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /messages [get]
func (h *ChatHandler) List(c echo.Context) error {
	views, err := h.chatService.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]messageResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, messageResponse{
			Username:  v.Username,
			Content:   v.Content,
			Timestamp: v.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Post creates a message authored by the authenticated principal.
//
// @Summary      Post a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postMessageRequest  true  "Message content"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /messages [post]
func (h *ChatHandler) Post(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.chatService.Post(c.Request().Context(), principal.Username, req.Content)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{
		Username:  view.Username,
		Content:   view.Content,
		Timestamp: view.Timestamp,
	})
}
