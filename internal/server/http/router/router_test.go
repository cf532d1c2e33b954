package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/escrowdesk/internal/config"
	"github.com/polkiloo/escrowdesk/internal/domain/model"
	"github.com/polkiloo/escrowdesk/internal/metrics"
	"github.com/polkiloo/escrowdesk/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/escrowdesk/internal/test"
	"github.com/polkiloo/escrowdesk/internal/usecase"
)

const account = "0x1111111111111111111111111111111111111111"

func newEngine(facade testhelpers.EscrowFacadeStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return Setup(Params{
		Facade:  facade,
		Config:  &config.Config{ExplorerURL: "https://sepolia.basescan.org"},
		Metrics: metrics.NewRegistry(),
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
}

func TestSetupRoutes(t *testing.T) {
	facade := testhelpers.EscrowFacadeStub{
		SessionFacadeStub: testhelpers.SessionFacadeStub{Descriptor: usecase.NetworkDescriptor{ChainID: 84532}},
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(_ context.Context, acc, role string) ([]usecase.OrderView, error) {
				return []usecase.OrderView{{Order: model.Order{ID: "1", Purchaser: acc}, Role: model.Role(role)}}, nil
			},
		},
		AuthenticatorStub: testhelpers.AuthenticatorStub{Account: account},
	}
	engine := newEngine(facade)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   bool
		status int
	}{
		{name: "network", method: http.MethodGet, path: "/api/network", status: http.StatusOK},
		{name: "session", method: http.MethodPost, path: "/api/session", body: `{"account":"` + account + `","chainId":84532}`, status: http.StatusOK},
		{name: "orders need session", method: http.MethodGet, path: "/api/orders", status: http.StatusUnauthorized},
		{name: "orders", method: http.MethodGet, path: "/api/orders?role=purchaser", auth: true, status: http.StatusOK},
		{name: "order", method: http.MethodGet, path: "/api/orders/1?role=purchaser", auth: true, status: http.StatusOK},
		{name: "balance", method: http.MethodGet, path: "/api/balance", auth: true, status: http.StatusOK},
		{name: "create", method: http.MethodPost, path: "/api/orders", body: `{"supplier":"0x2","validator":"0x3","amount":"1"}`, auth: true, status: http.StatusCreated},
		{name: "action", method: http.MethodPost, path: "/api/orders/1/actions/cancelOrder", body: `{"role":"purchaser"}`, auth: true, status: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.auth {
				req.Header.Set("Authorization", "Bearer token")
			}
			resp := httptest.NewRecorder()
			engine.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupMetricsExposeRequests(t *testing.T) {
	engine := newEngine(testhelpers.EscrowFacadeStub{})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/network", nil))

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(resp.Body.String(), `escrowdesk_http_requests_total{method="GET",route="/api/network",status="200"} 1`) {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestSetupCompressesResponses(t *testing.T) {
	engine := newEngine(testhelpers.EscrowFacadeStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/network", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got %q", resp.Header().Get("Content-Encoding"))
	}
}

func TestSetupUnauthorizedBodyHasMessage(t *testing.T) {
	engine := newEngine(testhelpers.EscrowFacadeStub{})

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/balance", bytes.NewReader(nil)))
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] == "" {
		t.Fatal("expected message")
	}
}

func TestSetupThrottlesMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := Setup(Params{
		Facade: testhelpers.EscrowFacadeStub{AuthenticatorStub: testhelpers.AuthenticatorStub{Account: account}},
		Config: &config.Config{
			ExplorerURL:         "https://sepolia.basescan.org",
			ActionRatePerMinute: 1,
			ActionRateBurst:     1,
		},
		Metrics: metrics.NewRegistry(),
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})

	act := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/orders/1/actions/cancelOrder", strings.NewReader(`{"role":"purchaser"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer token")
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := act(); code != http.StatusOK {
		t.Fatalf("expected first action to pass, got %d", code)
	}
	if code := act(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders?role=purchaser", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("reads must not be throttled, got %d", resp.Code)
	}
}

var _ handlers.EscrowFacade = (*testhelpers.EscrowFacadeStub)(nil)
