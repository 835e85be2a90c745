package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"managerpanel/internal/api"
	"managerpanel/internal/service"
	"managerpanel/internal/session"
	"managerpanel/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend is a scripted remote backend with request counters.
type fakeBackend struct {
	mu         sync.Mutex
	loginRole  string
	listCalls  int
	statsCalls int
	statusPuts int
	orderPuts  int

	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{loginRole: "manager"}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch {
		case r.URL.Path == "/auth/login":
			_, _ = w.Write([]byte(`{"token":"tok-1","user":{"name":"Ayesha","role":"` + f.loginRole + `"}}`))
		case r.URL.Path == "/invoices/status/pending":
			f.listCalls++
			_, _ = w.Write([]byte(`[{"_id":"1","invoiceNumber":"INV-1","status":"pending","grandTotal":5000,` +
				`"items":[{"itemName":"Widget","quantity":2,"sellingPrice":2500,"totalPrice":5000}]}]`))
		case r.URL.Path == "/invoices/status/approved":
			f.listCalls++
			_, _ = w.Write([]byte(`[{"_id":"2","invoiceNumber":"INV-2","status":"approved","orderStatus":"confirmed","grandTotal":8000}]`))
		case r.URL.Path == "/invoices/status/rejected":
			f.listCalls++
			_, _ = w.Write([]byte(`[]`))
		case r.URL.Path == "/manager/dashboard/stats":
			f.statsCalls++
			_, _ = w.Write([]byte(`{"pendingInvoices":1,"approvedInvoices":1,"rejectedInvoices":0,"totalRevenue":13000}`))
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/status"):
			f.statusPuts++
			_, _ = w.Write([]byte(`{"_id":"1"}`))
		case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/order-status"):
			f.orderPuts++
			_, _ = w.Write([]byte(`{"commissionAwarded":150.5}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestRouter(t *testing.T, backend *fakeBackend) *gin.Engine {
	t.Helper()
	client := api.NewClient(backend.server.URL)
	store := session.NewStore([]byte("test-secret"))

	router := gin.New()
	router.SetFuncMap(view.FuncMap())
	router.LoadHTMLGlob("../../web/templates/*.html")

	NewAuthHandler(client, store).RegisterRoutes(router.Group(""))
	NewDashboardHandler(service.NewDashboardService(client), service.NewReviewService(client, nil), store).RegisterRoutes(router.Group(""))
	return router
}

func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func getPage(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	recorder := postForm(router, "/login", url.Values{
		"email":    {"manager@test.com"},
		"password": {"manager123"},
	})
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == session.CookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func takeFlash(t *testing.T, recorder *httptest.ResponseRecorder) *session.Flash {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name != "manager_flash" || cookie.Value == "" {
			continue
		}
		payload, err := base64.URLEncoding.DecodeString(cookie.Value)
		require.NoError(t, err)
		var flash session.Flash
		require.NoError(t, json.Unmarshal(payload, &flash))
		return &flash
	}
	return nil
}

func TestLoginWithAgentRoleNeverCreatesSession(t *testing.T) {
	backend := newFakeBackend(t)
	backend.loginRole = "agent"
	router := newTestRouter(t, backend)

	recorder := postForm(router, "/login", url.Values{
		"email":    {"agent@test.com"},
		"password": {"agent123"},
	})

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == session.CookieName {
			assert.Empty(t, cookie.Value, "session cookie must not carry a value for non-manager roles")
		}
	}

	flash := takeFlash(t, recorder)
	require.NotNil(t, flash)
	assert.Equal(t, session.FlashError, flash.Kind)
	assert.Contains(t, flash.Message, "Manager/Admin access only")
}

func TestLoginManagerRedirectsToDashboard(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)

	cookie := login(t, router)
	assert.True(t, cookie.HttpOnly)
}

func TestDashboardRequiresSession(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)

	recorder := getPage(router, "/")
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestDashboardLoadIsOnePairedFetch(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)

	recorder := getPage(router, "/?tab=approved", cookie)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, backend.listCalls)
	assert.Equal(t, 1, backend.statsCalls)

	// Every navigation refetches; nothing is cached between tab switches.
	getPage(router, "/?tab=rejected", cookie)
	assert.Equal(t, 2, backend.listCalls)
	assert.Equal(t, 2, backend.statsCalls)
}

func TestPendingInvoiceCardAndActions(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)

	recorder := getPage(router, "/?tab=pending&invoice=1", cookie)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, "INV-1")
	assert.Contains(t, body, "PKR 5,000")
	assert.Contains(t, body, "PKR 2,500")
	assert.Contains(t, body, "Approve Invoice")
	assert.Contains(t, body, "Reject Invoice")
	assert.NotContains(t, body, "Update Order Status")
}

func TestApprovedInvoiceShowsOrderControlsOnly(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)

	recorder := getPage(router, "/?tab=approved&invoice=2", cookie)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, "Update Order Status")
	assert.Contains(t, body, "dispatched")
	assert.NotContains(t, body, "Approve Invoice")
	assert.NotContains(t, body, "Reject Invoice")
}

func TestApprovePendingInvoice(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)

	recorder := postForm(router, "/invoices/1/approve", url.Values{
		"notes": {"ok to ship"},
		"tab":   {"pending"},
	}, cookie)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/?tab=pending", recorder.Header().Get("Location"))
	assert.Equal(t, 1, backend.statusPuts)

	flash := takeFlash(t, recorder)
	require.NotNil(t, flash)
	assert.Equal(t, session.FlashSuccess, flash.Kind)
}

func TestRejectWithEmptyReasonSendsNothing(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)
	before := backend.listCalls

	recorder := postForm(router, "/invoices/1/reject", url.Values{
		"reason": {""},
		"tab":    {"pending"},
	}, cookie)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Zero(t, backend.statusPuts)
	assert.Equal(t, before, backend.listCalls, "an aborted rejection must not touch the backend")

	flash := takeFlash(t, recorder)
	require.NotNil(t, flash)
	assert.Equal(t, session.FlashError, flash.Kind)
}

func TestOrderStatusUpdateFlashesCommission(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)

	recorder := postForm(router, "/invoices/2/order-status", url.Values{
		"orderStatus": {"delivered"},
		"trackingId":  {"TCS123456789"},
		"courierName": {"TCS"},
		"tab":         {"approved"},
	}, cookie)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, 1, backend.orderPuts)

	flash := takeFlash(t, recorder)
	require.NotNil(t, flash)
	assert.Equal(t, session.FlashSuccess, flash.Kind)
	assert.Contains(t, flash.Message, "DELIVERED")
	assert.Contains(t, flash.Message, "PKR 150.50")
}

func TestBackendErrorMessageIsFlashed(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend)
	cookie := login(t, router)

	// Unknown id: the pending guard trips before any mutation.
	recorder := postForm(router, "/invoices/99/approve", url.Values{"tab": {"pending"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Zero(t, backend.statusPuts)

	flash := takeFlash(t, recorder)
	require.NotNil(t, flash)
	assert.Equal(t, session.FlashError, flash.Kind)
	assert.Contains(t, flash.Message, "not pending")
}
