package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/adchat/internal/services"
)

type ConversationHandler struct {
	svc services.ConversationService
}

func NewConversationHandler(svc services.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type HistoryItem struct {
	ID       int64   `json:"id"`
	Role     string  `json:"role"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
}

// History returns the caller's conversation with one assistant, newest first.
func (h *ConversationHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, offset := pageParams(c, 20, 200)

	rows, err := h.svc.History(c.Request.Context(), userID, c.Query("assistant_slug"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]HistoryItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, HistoryItem{ID: m.ID, Role: m.Role, Content: m.Content, ImageURL: m.ImageURL})
	}
	c.JSON(http.StatusOK, out)
}
