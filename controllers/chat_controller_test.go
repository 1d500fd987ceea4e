package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Saqqqi/Food-Delivery-System-sub000/controllers"
	"github.com/Saqqqi/Food-Delivery-System-sub000/middleware"
	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/Saqqqi/Food-Delivery-System-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubChatService struct {
	events     chan models.ChatEvent
	subscribed string
	stopped    bool
}

func (s *stubChatService) SendMessage(_ context.Context, _ string, _ *models.SendMessageRequest) (*models.ChatMessage, *services.ServiceError) {
	return nil, nil
}

func (s *stubChatService) History(_ context.Context, _, _ string, _ int) ([]models.ChatMessage, *services.ServiceError) {
	return nil, nil
}

func (s *stubChatService) Heartbeat(_ context.Context, _ string) *services.ServiceError {
	return nil
}

func (s *stubChatService) IsOnline(_ context.Context, _ string) (bool, *services.ServiceError) {
	return false, nil
}

func (s *stubChatService) Subscribe(_ context.Context, userID string) (<-chan models.ChatEvent, func()) {
	s.subscribed = userID
	return s.events, func() { s.stopped = true }
}

// closeNotifyRecorder makes httptest's recorder usable with streamed
// responses.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool { return r.closed }

func TestStreamForwardsSubscribedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stub := &stubChatService{events: make(chan models.ChatEvent, 1)}
	stub.events <- models.ChatEvent{SenderID: "u2", RecipientID: "u1", Body: "order is on the way"}
	close(stub.events)

	r := gin.New()
	ctrl := controllers.NewChatController(stub)
	r.GET("/chat/stream",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, "u1") },
		ctrl.Stream,
	)

	w := &closeNotifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	req := httptest.NewRequest(http.MethodGet, "/chat/stream", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, "u1", stub.subscribed)
	assert.True(t, stub.stopped)

	body := w.Body.String()
	assert.Contains(t, body, "event:message")
	assert.Contains(t, body, "order is on the way")
}
