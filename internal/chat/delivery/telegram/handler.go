package telegram

import (
	"errors"

	"github.com/gin-gonic/gin"

	"telegram-chat-gateway/internal/chat"
	"telegram-chat-gateway/internal/model"
	pkgResponse "telegram-chat-gateway/pkg/response"
	pkgTelegram "telegram-chat-gateway/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine: Telegram expects a response within a few seconds,
// and downstream reply/completion failures must never surface as a
// webhook failure or Telegram retry-storms the same update.
// @Summary Telegram webhook
// @Description Accepts one Telegram update envelope per call
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp "update accepted"
// @Failure 500 {object} response.Resp "malformed payload"
// @Failure 503 {object} response.Resp "gateway not running"
// @Router /webhook [post]
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.lifecycle.Accepting() {
		pkgResponse.Unavailable(c)
		return
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.BadPayload(c, err)
		return
	}

	// Ignore non-message updates (polls, channel_post, edited_message, ...)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, nil)
		return
	}

	// Snapshot the message before handing off to avoid data races on the gin context
	msg := update.Message

	ev := chat.Event{
		UpdateID:       update.UpdateID,
		ConversationID: msg.Chat.ID,
		Text:           msg.Text,
	}
	if msg.From != nil {
		ev.Scope = model.TelegramScope(msg.From.ID, msg.From.Username)
	}

	if err := h.dispatcher.Submit(ev); err != nil {
		if errors.Is(err, chat.ErrNotAccepting) {
			pkgResponse.Unavailable(c)
			return
		}
		h.l.Errorf(ctx, "telegram handler: submit failed: %v", err)
		pkgResponse.InternalError(c, err)
		return
	}

	// Telegram acknowledged immediately
	pkgResponse.OK(c, nil)
}
