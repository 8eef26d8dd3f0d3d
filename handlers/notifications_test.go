package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fees-admin-api/models"
)

func TestNotificationHub_SingleSlot(t *testing.T) {
	hub := NewNotificationHub()

	t.Run("publish makes the slot visible", func(t *testing.T) {
		hub.Publish("Fetched Fee Details", models.SeveritySuccess)

		notification, visible := hub.Current()
		assert.True(t, visible)
		assert.Equal(t, "Fetched Fee Details", notification.Text)
		assert.Equal(t, models.SeveritySuccess, notification.Severity)
	})

	t.Run("new publish overwrites an unacknowledged notice", func(t *testing.T) {
		hub.Publish("Fetched Fee Details", models.SeveritySuccess)
		hub.Publish("No Active Dues", models.SeverityError)

		notification, visible := hub.Current()
		assert.True(t, visible)
		assert.Equal(t, "No Active Dues", notification.Text)
		assert.Equal(t, models.SeverityError, notification.Severity)
	})

	t.Run("explicit dismissal hides the slot", func(t *testing.T) {
		hub.Publish("Installment Updated", models.SeveritySuccess)
		hub.Dismiss("")

		_, visible := hub.Current()
		assert.False(t, visible)
	})

	t.Run("clickaway is ignored", func(t *testing.T) {
		hub.Publish("Installment Updated", models.SeveritySuccess)
		hub.Dismiss(DismissReasonClickaway)

		_, visible := hub.Current()
		assert.True(t, visible, "clicking away must not clear the notice")
	})
}

func TestNotificationHub_HTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewNotificationHub()
	router := gin.New()
	router.GET("/notifications/current", hub.GetCurrent)
	router.POST("/notifications/dismiss", hub.DismissNotification)

	hub.Publish("Fetched Fee Details", models.SeveritySuccess)

	t.Run("current returns the slot", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/notifications/current", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Notification models.Notification `json:"notification"`
			Visible      bool                `json:"visible"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Visible)
		assert.Equal(t, "Fetched Fee Details", resp.Notification.Text)
	})

	t.Run("dismiss with clickaway keeps it visible", func(t *testing.T) {
		body := bytes.NewBufferString(`{"reason":"clickaway"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notifications/dismiss", body)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		_, visible := hub.Current()
		assert.True(t, visible)
	})

	t.Run("dismiss without reason hides it", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notifications/dismiss", bytes.NewBufferString(`{}`))
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		_, visible := hub.Current()
		assert.False(t, visible)
	})
}
