package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/adchat/internal/api/handlers"
	"github.com/yoockh/adchat/internal/api/middleware"
)

type Deps struct {
	Chat         *handlers.ChatHandler
	Click        *handlers.ClickHandler
	Conversation *handlers.ConversationHandler
	Assistant    *handlers.AssistantHandler
	Admin        *handlers.AdminHandler

	TelegramAuth   middleware.TelegramAuthConfig
	AdminJWTSecret string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// opened from links inside chat answers, no auth
	api.GET("/click", d.Click.Track)

	// Mini app routes (Telegram initData)
	user := api.Group("/")
	user.Use(middleware.TelegramAuth(d.TelegramAuth))

	user.GET("/assistants", d.Assistant.List)
	user.GET("/history", d.Conversation.History)
	user.POST("/chat", d.Chat.Send)

	r.POST("/admin/login", d.Admin.Login)

	// Admin routes (JWT)
	adm := r.Group("/admin")
	adm.Use(middleware.AdminJWT(d.AdminJWTSecret), middleware.RequireAdmin())

	adm.GET("/views", d.Admin.Views)
	adm.GET("/users", d.Admin.Users)
	adm.GET("/messages", d.Admin.Messages)
	adm.DELETE("/messages/:id", d.Admin.DeleteMessage)

	adm.GET("/assistants", d.Assistant.List)
	adm.POST("/assistants", d.Assistant.Create)
	adm.PUT("/assistants/:slug", d.Assistant.Update)

	adm.GET("/products", d.Admin.Products)
	adm.POST("/products", d.Admin.CreateProduct)
	adm.PUT("/products/:id", d.Admin.UpdateProduct)
	adm.GET("/products/:id/clicks", d.Admin.ProductClicks)

	adm.GET("/dashboard", d.Admin.Dashboard)
	adm.POST("/catalog/sync", d.Admin.SyncCatalog)
}
