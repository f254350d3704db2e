package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/adchat/internal/services"
	"github.com/yoockh/adchat/internal/utils"
)

type ClickHandler struct {
	svc services.ClickService
}

func NewClickHandler(svc services.ClickService) *ClickHandler {
	return &ClickHandler{svc: svc}
}

// Track serves GET /api/click?product_id=<int>&user_id=<int optional>.
// Only a bad product_id is rejected.
func (h *ClickHandler) Track(c *gin.Context) {
	const op = "ClickHandler.Track"

	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "product_id must be a positive integer", err))
		return
	}

	// user_id is attribution only; a mangled value still counts as an anonymous click
	var userID int64
	if s := c.Query("user_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
			userID = id
		} else {
			_ = c.Error(utils.E(utils.CodeInvalidArgument, op, "ignored malformed user_id", err))
		}
	}

	link, err := h.svc.Record(c.Request.Context(), services.ClickInput{
		ProductID: productID,
		UserID:    userID,
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
		Referer:   c.Request.Referer(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusFound, link)
}
