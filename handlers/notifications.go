package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"fees-admin-api/models"
)

// DismissReasonClickaway is deliberately ignored: staff must dismiss a
// notice explicitly, clicking elsewhere does not clear it.
const DismissReasonClickaway = "clickaway"

// NotificationHub owns the single notification slot and broadcasts every
// change to connected staff clients. Producers publish; the one renderer
// subscribes over the websocket. A new Publish silently overwrites an
// unacknowledged prior notice.
type NotificationHub struct {
	M *melody.Melody

	mu      sync.RWMutex
	current models.Notification
	visible bool
}

func NewNotificationHub() *NotificationHub {
	m := melody.New()

	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		staffID, _ := s.Get("staff_id")
		log.Printf("🔌 Staff client disconnected: %v", staffID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	hub := &NotificationHub{M: m}

	// Replay the current slot to clients that connect after a broadcast.
	m.HandleConnect(func(s *melody.Session) {
		staffID, _ := s.Get("staff_id")
		log.Printf("✅ Staff client connected: %v", staffID)

		if notification, visible := hub.Current(); visible {
			if msg, err := json.Marshal(gin.H{
				"text":     notification.Text,
				"severity": notification.Severity,
				"visible":  true,
			}); err == nil {
				_ = s.Write(msg)
			}
		}
	})

	return hub
}

// Publish replaces the current notification, marks it visible and
// broadcasts it.
func (h *NotificationHub) Publish(text string, severity models.Severity) {
	h.mu.Lock()
	h.current = models.Notification{Text: text, Severity: severity}
	h.visible = true
	notification := h.current
	h.mu.Unlock()

	h.broadcast(notification, true)
}

// Dismiss hides the current notification unless the reason is a clickaway.
func (h *NotificationHub) Dismiss(reason string) {
	if reason == DismissReasonClickaway {
		return
	}

	h.mu.Lock()
	h.visible = false
	notification := h.current
	h.mu.Unlock()

	h.broadcast(notification, false)
}

// Current returns the notification slot and its visibility.
func (h *NotificationHub) Current() (models.Notification, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current, h.visible
}

func (h *NotificationHub) broadcast(n models.Notification, visible bool) {
	msg, err := json.Marshal(gin.H{
		"text":     n.Text,
		"severity": n.Severity,
		"visible":  visible,
	})
	if err != nil {
		return
	}

	if err := h.M.Broadcast(msg); err != nil {
		log.Printf("⚠️ Error broadcasting notification: %v", err)
	}
}

// HandleWS upgrades a staff client to the notification stream.
func (h *NotificationHub) HandleWS(c *gin.Context) {
	staffID := c.GetString("staff_id")

	keys := map[string]interface{}{"staff_id": staffID}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// GetCurrent serves the notification slot for clients that reconnect after
// missing a broadcast.
func (h *NotificationHub) GetCurrent(c *gin.Context) {
	notification, visible := h.Current()
	c.JSON(http.StatusOK, gin.H{
		"notification": notification,
		"visible":      visible,
	})
}

// DismissNotification hides the current notice. Clickaway reasons are
// ignored on purpose.
func (h *NotificationHub) DismissNotification(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// An empty body counts as an explicit dismissal.
	_ = c.ShouldBindJSON(&req)

	h.Dismiss(req.Reason)

	_, visible := h.Current()
	c.JSON(http.StatusOK, gin.H{"visible": visible})
}
