package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Saqqqi/Food-Delivery-System-sub000/middleware"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
)

// ChatController handles the chat REST surface. Real-time delivery happens
// over Redis pub/sub; these endpoints cover send, history and presence.
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController.
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// SendMessage handles POST /chat/send.
func (cc *ChatController) SendMessage(ctx *gin.Context) {
	var req models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	senderID := ctx.GetString(middleware.ContextUserID)
	msg, svcErr := cc.chatService.SendMessage(ctx.Request.Context(), senderID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	// A heartbeat rides along with every send.
	_ = cc.chatService.Heartbeat(ctx.Request.Context(), senderID)

	ctx.JSON(http.StatusCreated, gin.H{"message": msg})
}

// History handles GET /chat/history/:peerId.
func (cc *ChatController) History(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	peerID := ctx.Param("peerId")

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}

	messages, svcErr := cc.chatService.History(ctx.Request.Context(), userID, peerID, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Presence handles GET /chat/presence/:userId.
func (cc *ChatController) Presence(ctx *gin.Context) {
	online, svcErr := cc.chatService.IsOnline(ctx.Request.Context(), ctx.Param("userId"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"online": online})
}

// Stream handles GET /chat/stream: pushes the authenticated user's incoming
// messages as server-sent events until the client disconnects.
func (cc *ChatController) Stream(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	events, stop := cc.chatService.Subscribe(ctx.Request.Context(), userID)
	defer stop()

	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			ctx.SSEvent("message", event)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

// Heartbeat handles PUT /chat/heartbeat for the authenticated user.
func (cc *ChatController) Heartbeat(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	if svcErr := cc.chatService.Heartbeat(ctx.Request.Context(), userID); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Heartbeat recorded"})
}
