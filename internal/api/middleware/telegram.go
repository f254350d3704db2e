package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/adchat/internal/tgauth"
	"github.com/yoockh/adchat/internal/utils"
)

const InitDataHeader = "X-Telegram-Init-Data"

type TelegramAuthConfig struct {
	BotToken string
	MaxAge   time.Duration
	// DevUserID bypasses validation and authenticates every request as this user.
	DevUserID int64
}

// TelegramAuth authenticates mini-app requests by their initData and sets
// "user_id" (int64) and "username" on the context.
func TelegramAuth(cfg TelegramAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.DevUserID != 0 {
			c.Set("user_id", cfg.DevUserID)
			c.Set("username", "dev")
			c.Next()
			return
		}

		if cfg.BotToken == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apiError{
				Code:    utils.CodeUnavailable,
				Message: "telegram auth is not configured",
			})
			return
		}

		u, err := tgauth.Validate(c.GetHeader(InitDataHeader), cfg.BotToken, cfg.MaxAge, time.Now())
		if err != nil {
			status, code := http.StatusUnauthorized, utils.CodeUnauthorized
			if errors.Is(err, tgauth.ErrSignature) {
				status, code = http.StatusForbidden, utils.CodeForbidden
			}
			c.AbortWithStatusJSON(status, apiError{Code: code, Message: err.Error()})
			return
		}

		username := u.Username
		if username == "" {
			username = "Anon"
		}
		c.Set("user_id", u.ID)
		c.Set("username", username)
		c.Next()
	}
}
