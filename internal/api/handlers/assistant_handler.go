package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/services"
	"github.com/yoockh/adchat/internal/utils"
)

type AssistantHandler struct {
	svc services.AssistantService
}

func NewAssistantHandler(svc services.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

func (h *AssistantHandler) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []models.Assistant{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AssistantHandler) Create(c *gin.Context) {
	var a models.Assistant
	if err := c.ShouldBindJSON(&a); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AssistantHandler.Create", "invalid request body", err))
		return
	}
	if err := h.svc.Create(c.Request.Context(), &a); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AssistantHandler) Update(c *gin.Context) {
	var a models.Assistant
	if err := c.ShouldBindJSON(&a); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AssistantHandler.Update", "invalid request body", err))
		return
	}
	a.Slug = c.Param("slug")
	if err := h.svc.Update(c.Request.Context(), &a); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
