package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	invoiceRepo := repository.NewInvoiceRepository()
	userRepo := repository.NewUserRepository()

	invoiceService := service.NewInvoiceService(invoiceRepo, nil)
	wizardService := service.NewWizardService(invoiceService)
	dashboardService := service.NewDashboardService(invoiceRepo)
	authService := service.NewAuthService(userRepo)

	router := gin.New()
	root := router.Group("")
	NewAuthHandler(authService).RegisterRoutes(root)
	NewInvoiceHandler(invoiceService).RegisterRoutes(root)
	NewWizardHandler(wizardService).RegisterRoutes(root)
	NewDashboardHandler(dashboardService).RegisterRoutes(root)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var env envelope
	if recorder.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	}
	return recorder, env
}

func login(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()

	recorder, env := doRequest(t, router, http.MethodPost, "/login", "", gin.H{"email": email})
	require.Equal(t, http.StatusOK, recorder.Code)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth.Token
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/api/invoices", "/api/dashboard/summary", "/me"} {
		recorder, env := doRequest(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, recorder.Code, path)
		require.Equal(t, "error", env.Status)
	}
}

func TestLoginAndGetMe(t *testing.T) {
	router := newTestRouter()
	token := login(t, router, "owner@example.com")

	recorder, env := doRequest(t, router, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	require.Equal(t, "owner@example.com", me.Email)
}

func TestWizardFlowEndToEnd(t *testing.T) {
	router := newTestRouter()
	token := login(t, router, "owner@example.com")

	// start a draft
	recorder, env := doRequest(t, router, http.MethodPost, "/api/wizard", token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var draft struct {
		ID   string `json:"id"`
		Step int    `json:"step"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	require.Equal(t, 0, draft.Step)

	// fill in the business and client blocks
	recorder, _ = doRequest(t, router, http.MethodPut, "/api/wizard/"+draft.ID+"/business", token,
		gin.H{"name": "Acme Ltd", "email": "billing@acme.test"})
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder, _ = doRequest(t, router, http.MethodPut, "/api/wizard/"+draft.ID+"/client", token,
		gin.H{"name": "Client Co"})
	require.Equal(t, http.StatusOK, recorder.Code)

	// price the seeded line item
	recorder, _ = doRequest(t, router, http.MethodPut, "/api/wizard/"+draft.ID+"/items/0", token,
		gin.H{"description": "design work", "quantity": "2", "rate": "50"})
	require.Equal(t, http.StatusOK, recorder.Code)

	// preview carries the computed totals
	recorder, env = doRequest(t, router, http.MethodGet, "/api/wizard/"+draft.ID+"/preview", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var preview struct {
		Subtotal string `json:"subtotal"`
		Total    string `json:"total"`
		TaxRate  string `json:"tax_rate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &preview))
	require.Equal(t, "100.00", preview.Subtotal)
	require.Equal(t, "100.00", preview.Total)
	require.Equal(t, "0%", preview.TaxRate)

	// sending before the review step conflicts
	recorder, _ = doRequest(t, router, http.MethodPost, "/api/wizard/"+draft.ID+"/send", token, gin.H{})
	require.Equal(t, http.StatusConflict, recorder.Code)

	// advance to review
	for i := 0; i < 3; i++ {
		recorder, _ = doRequest(t, router, http.MethodPost, "/api/wizard/"+draft.ID+"/next", token, nil)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder, env = doRequest(t, router, http.MethodPost, "/api/wizard/"+draft.ID+"/send", token, gin.H{})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var invoice struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &invoice))
	require.Equal(t, "sent", invoice.Status)

	// the session is gone once the invoice is committed
	recorder, _ = doRequest(t, router, http.MethodGet, "/api/wizard/"+draft.ID, token, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	// the committed invoice is listed and the dashboard reflects it
	recorder, env = doRequest(t, router, http.MethodGet, "/api/invoices", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var listing struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Equal(t, 1, listing.Total)

	recorder, env = doRequest(t, router, http.MethodGet, "/api/dashboard/summary", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var summary struct {
		Sent        int    `json:"sent"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Equal(t, 1, summary.Sent)
	require.Equal(t, "100.00", summary.TotalAmount)

	// mark paid over HTTP
	recorder, env = doRequest(t, router, http.MethodPut, "/api/invoices/"+invoice.ID+"/paid", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(env.Data, &invoice))
	require.Equal(t, "paid", invoice.Status)
}

func TestSendRejectsMalformedSignature(t *testing.T) {
	router := newTestRouter()
	token := login(t, router, "owner@example.com")

	recorder, env := doRequest(t, router, http.MethodPost, "/api/wizard", token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var draft struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))

	for i := 0; i < 3; i++ {
		doRequest(t, router, http.MethodPost, "/api/wizard/"+draft.ID+"/next", token, nil)
	}

	recorder, _ = doRequest(t, router, http.MethodPost, "/api/wizard/"+draft.ID+"/send", token,
		gin.H{"signature": "not a data url"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestInvoiceRoutesHonorSilentNoops(t *testing.T) {
	router := newTestRouter()
	token := login(t, router, "owner@example.com")

	// GET on an unknown id is a 404, mutations succeed with empty data
	recorder, _ := doRequest(t, router, http.MethodGet, "/api/invoices/unknown", token, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	recorder, env := doRequest(t, router, http.MethodPut, "/api/invoices/unknown/sent", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, env.Data)

	recorder, _ = doRequest(t, router, http.MethodDelete, "/api/invoices/unknown", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestDraftsAreInvisibleToOtherUsers(t *testing.T) {
	router := newTestRouter()
	owner := login(t, router, "owner@example.com")
	intruder := login(t, router, "intruder@example.com")

	recorder, env := doRequest(t, router, http.MethodPost, "/api/wizard", owner, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var draft struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &draft))

	recorder, _ = doRequest(t, router, http.MethodGet, "/api/wizard/"+draft.ID, intruder, nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
