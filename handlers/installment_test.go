package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fees-admin-api/models"
	"fees-admin-api/services"
)

// newWizardRouter wires a real InstallmentService against a fake upstream.
func newWizardRouter(t *testing.T, upstream http.HandlerFunc) (*gin.Engine, *NotificationHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	feeAPI := &services.FeeAPIService{
		BaseURL: server.URL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
	hub := NewNotificationHub()
	svc := services.NewInstallmentService(feeAPI, hub)
	h := NewInstallmentHandler(svc, nil)

	router := gin.New()
	router.GET("/installments/:studentID/dues", h.FetchDues)
	router.GET("/installments/:studentID/dues/:receiptNo", h.SelectDue)
	router.PUT("/installments/exchange", h.Transfer)
	return router, hub
}

func TestWizard_FetchAndSelect(t *testing.T) {
	router, hub := newWizardRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/getDuesBasedOnFee/TutionFeeSchema/R123456", r.URL.Path)
		_, _ = w.Write([]byte(`[[{"_id":"1","ReceiptNo":"D1","Amount":5000,"Date":"2024-01-01"}]]`))
	})

	t.Run("fetch shows one entry", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/installments/R123456/dues?source=TutionFee&destination=HostelFee", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Dues []models.Due `json:"dues"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Dues, 1)
		assert.Equal(t, "D1", resp.Dues[0].ReceiptNo)

		notification, visible := hub.Current()
		assert.True(t, visible)
		assert.Equal(t, services.MsgFetchedFeeDetails, notification.Text)
	})

	t.Run("selecting D1 shows amount and date", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/installments/R123456/dues/D1?source=TutionFee&destination=HostelFee", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Visible bool              `json:"visible"`
			Details models.DueDetails `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Visible)
		assert.Equal(t, "D1", resp.Details.DueNumber)
		assert.Equal(t, float64(5000), resp.Details.Amount)
		assert.Equal(t, "2024-01-01", resp.Details.DueDate)
	})

	t.Run("selection does not publish a notification", func(t *testing.T) {
		router, hub := newWizardRouter(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[[{"_id":"1","ReceiptNo":"D1","Amount":5000,"Date":"2024-01-01"}]]`))
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/installments/R123456/dues/D1?source=TutionFee&destination=HostelFee", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		_, visible := hub.Current()
		assert.False(t, visible, "selection must not overwrite the notification slot")
	})

	t.Run("selecting an absent due hides the panel", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/installments/R123456/dues/D999?source=TutionFee&destination=HostelFee", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Visible bool `json:"visible"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Visible)
	})

	t.Run("blank student ID is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/installments/%20/dues?source=TutionFee&destination=HostelFee", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWizard_Transfer(t *testing.T) {
	transferBody := `{"student_id":"R123456","source_category":"TutionFee","destination_category":"HostelFee","due_number":"D1"}`

	t.Run("success reports Installment Updated", func(t *testing.T) {
		router, hub := newWizardRouter(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/v1/update/studentFee/exchange":
				assert.Equal(t, http.MethodPut, r.Method)
				w.WriteHeader(http.StatusOK)
			default:
				_, _ = w.Write([]byte(`[[]]`))
			}
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/installments/exchange", bytes.NewBufferString(transferBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		notification, visible := hub.Current()
		assert.True(t, visible)
		assert.Equal(t, services.MsgInstallmentUpdated, notification.Text)
		assert.Equal(t, models.SeveritySuccess, notification.Severity)
	})

	t.Run("upstream failure surfaces the error text", func(t *testing.T) {
		router, hub := newWizardRouter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"exchange failed"}`))
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/installments/exchange", bytes.NewBufferString(transferBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)

		notification, _ := hub.Current()
		assert.Equal(t, "exchange failed", notification.Text)
		assert.Equal(t, models.SeverityError, notification.Severity)
	})

	t.Run("same categories rejected", func(t *testing.T) {
		router, _ := newWizardRouter(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no upstream call expected")
		})

		body := `{"student_id":"R123456","source_category":"TutionFee","destination_category":"TutionFee","due_number":"D1"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/installments/exchange", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
