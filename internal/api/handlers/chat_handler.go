package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/adchat/internal/services"
	"github.com/yoockh/adchat/internal/utils"
)

const maxImageBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	AssistantSlug string `json:"assistant_slug" form:"assistant_slug" binding:"required"`
	Text          string `json:"text" form:"text"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// Send accepts JSON {assistant_slug, text} or a multipart form with an optional "image" file.
func (h *ChatHandler) Send(c *gin.Context) {
	const op = "ChatHandler.Send"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	in := services.ChatRequest{
		UserID:        userID,
		Username:      c.GetString("username"),
		AssistantSlug: req.AssistantSlug,
		Text:          req.Text,
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		img, closeFn, err := readImage(c)
		if err != nil {
			writeError(c, err)
			return
		}
		if closeFn != nil {
			defer closeFn()
		}
		in.Image = img
	}

	if strings.TrimSpace(in.Text) == "" && in.Image == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "text is required", nil))
		return
	}

	reply, err := h.svc.Send(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: reply.Response})
}

// readImage returns nil when the form has no "image" part.
func readImage(c *gin.Context) (*services.ImageUpload, func(), error) {
	const op = "ChatHandler.readImage"

	fh, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "invalid multipart field 'image'", err)
	}
	if fh.Size <= 0 || fh.Size > maxImageBytes {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "image too large (max 10MB)", nil)
	}

	file, err := fh.Open()
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]
	ct := http.DetectContentType(head)
	if !allowedImageTypes[ct] {
		_ = file.Close()
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "unsupported image type", nil)
	}

	return &services.ImageUpload{
		FileName:    fh.Filename,
		ContentType: ct,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}, func() { _ = file.Close() }, nil
}
