package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/adchat/internal/admin"
	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/services"
	"github.com/yoockh/adchat/internal/utils"
)

type AdminHandler struct {
	auth          services.AdminAuthService
	users         services.UserService
	conversations services.ConversationService
	products      services.ProductService
	clicks        services.ClickService
	dashboard     services.DashboardService
	catalog       services.CatalogService
}

type AdminDeps struct {
	Auth          services.AdminAuthService
	Users         services.UserService
	Conversations services.ConversationService
	Products      services.ProductService
	Clicks        services.ClickService
	Dashboard     services.DashboardService
	Catalog       services.CatalogService
}

func NewAdminHandler(d AdminDeps) *AdminHandler {
	return &AdminHandler{
		auth:          d.Auth,
		users:         d.Users,
		conversations: d.Conversations,
		products:      d.Products,
		clicks:        d.Clicks,
		dashboard:     d.Dashboard,
		catalog:       d.Catalog,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.Login", "invalid request body", err))
		return
	}

	tok, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h *AdminHandler) Views(c *gin.Context) {
	c.JSON(http.StatusOK, admin.Tables)
}

func (h *AdminHandler) Users(c *gin.Context) {
	limit, offset := pageParams(c, 50, 500)

	rows, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin.UserRows(rows))
}

func (h *AdminHandler) Messages(c *gin.Context) {
	limit, offset := pageParams(c, 50, 500)

	rows, err := h.conversations.Search(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin.MessageRows(rows))
}

func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	id, ok := int64Param(c, "id", "AdminHandler.DeleteMessage")
	if !ok {
		return
	}
	if err := h.conversations.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Products(c *gin.Context) {
	limit, offset := pageParams(c, 50, 500)

	rows, err := h.products.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin.ProductRows(rows))
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var form admin.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.CreateProduct", "invalid request body", err))
		return
	}

	p := form.Product(0)
	if err := h.products.Create(c.Request.Context(), &p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin.ProductRows([]models.Product{p})[0])
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	const op = "AdminHandler.UpdateProduct"

	id, ok := int64Param(c, "id", op)
	if !ok {
		return
	}
	var form admin.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	p := form.Product(id)
	if err := h.products.Update(c.Request.Context(), &p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin.ProductRows([]models.Product{p})[0])
}

func (h *AdminHandler) ProductClicks(c *gin.Context) {
	id, ok := int64Param(c, "id", "AdminHandler.ProductClicks")
	if !ok {
		return
	}
	limit, _ := pageParams(c, 100, 1000)

	events, err := h.clicks.Audit(c.Request.Context(), id, int64(limit))
	if err != nil {
		writeError(c, err)
		return
	}
	if events == nil {
		events = []models.ClickEvent{}
	}
	c.JSON(http.StatusOK, events)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *AdminHandler) SyncCatalog(c *gin.Context) {
	n, err := h.catalog.Sync(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	// counters changed shape; drop the cached dashboard
	_ = h.dashboard.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"synced": n})
}

func int64Param(c *gin.Context, name, op string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid "+name, err))
		return 0, false
	}
	return id, true
}
