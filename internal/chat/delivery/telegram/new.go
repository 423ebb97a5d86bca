package telegram

import (
	"github.com/gin-gonic/gin"

	"telegram-chat-gateway/internal/chat"
	"telegram-chat-gateway/internal/lifecycle"
	pkgLog "telegram-chat-gateway/pkg/log"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

type handler struct {
	l          pkgLog.Logger
	dispatcher chat.Dispatcher
	lifecycle  *lifecycle.Coordinator
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, d chat.Dispatcher, lc *lifecycle.Coordinator) Handler {
	return &handler{
		l:          l,
		dispatcher: d,
		lifecycle:  lc,
	}
}
