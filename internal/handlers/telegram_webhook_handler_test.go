package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newWebhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/telegram-webhook", TelegramWebhookHandler)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/telegram-webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Контракт вебхука: 200 "ok" при любом исходе.

func TestWebhookAnswersOkOnGarbageBody(t *testing.T) {
	r := newWebhookRouter()
	w := postWebhook(t, r, "not json at all")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestWebhookAnswersOkOnEmptyUpdate(t *testing.T) {
	r := newWebhookRouter()
	w := postWebhook(t, r, `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestWebhookAnswersOkEvenWhenHandlingFails(t *testing.T) {
	// БД в тесте не подключена, внутри обработки будет паника - но
	// транспортный ответ всё равно 200 "ok"
	InitTelegramWebhook()
	r := newWebhookRouter()
	w := postWebhook(t, r, `{"update_id":10,"message":{"text":"Almoço 35","chat":{"id":123}}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}
