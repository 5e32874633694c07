package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/char5742/touch-gestures/internal/config"
)

func newTestServer(fake *fakeController) (*Server, *http.ServeMux) {
	cfg := config.DefaultConfig()
	cfg.Device.PollInterval = time.Millisecond

	server := NewServer(cfg, 0)
	server.service.openDevice = func(path string) (ControllerDevice, error) {
		return fake, nil
	}

	router := http.NewServeMux()
	server.setupRoutes(router)
	return server, router
}

func doRequest(t *testing.T, router *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestServer(&fakeController{})

	w := doRequest(t, router, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestMaskEndpointsRequireRunningService(t *testing.T) {
	_, router := newTestServer(&fakeController{})

	w := doRequest(t, router, "GET", "/api/mask", "")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestMaskEnableAndGet(t *testing.T) {
	server, router := newTestServer(&fakeController{})

	w := doRequest(t, router, "POST", "/api/service/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("service start status = %d", w.Code)
	}
	defer server.service.Stop()

	w = doRequest(t, router, "POST", "/api/mask/enable", `{"mask":"05"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("enable status = %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["mask"] != "05000000" {
		t.Errorf("mask = %v, want 05000000", body["mask"])
	}

	w = doRequest(t, router, "GET", "/api/mask", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["mask"] != "05000000" {
		t.Errorf("mask = %v, want 05000000", body["mask"])
	}
	if body["active"] != true {
		t.Errorf("active = %v, want true", body["active"])
	}
}

func TestMaskDisableAll(t *testing.T) {
	server, router := newTestServer(&fakeController{})

	if w := doRequest(t, router, "POST", "/api/service/start", ""); w.Code != http.StatusOK {
		t.Fatalf("service start status = %d", w.Code)
	}
	defer server.service.Stop()

	if w := doRequest(t, router, "POST", "/api/mask/enable", `{"mask":"ff"}`); w.Code != http.StatusOK {
		t.Fatalf("enable status = %d", w.Code)
	}

	// マスク省略で全ジェスチャーを無効化
	w := doRequest(t, router, "POST", "/api/mask/disable", "")
	if w.Code != http.StatusOK {
		t.Fatalf("disable status = %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["mask"] != "00000000" {
		t.Errorf("mask = %v, want 00000000", body["mask"])
	}
}

func TestEnterGestureModeEndpoint(t *testing.T) {
	fake := &fakeController{}
	server, router := newTestServer(fake)

	if w := doRequest(t, router, "POST", "/api/service/start", ""); w.Code != http.StatusOK {
		t.Fatalf("service start status = %d", w.Code)
	}
	defer server.service.Stop()

	w := doRequest(t, router, "POST", "/api/mode/gesture", `{"force":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if fake.irqDisabled != 1 || fake.irqEnabled != 1 {
		t.Errorf("irq calls = (disable=%d, enable=%d), want (1, 1)", fake.irqDisabled, fake.irqEnabled)
	}
	// forceのため現在のマスクが再送されること
	if len(fake.features) == 0 {
		t.Error("mask not pushed to firmware")
	}
	if len(fake.scanModes) != 1 {
		t.Errorf("scan mode calls = %d, want 1", len(fake.scanModes))
	}
}

func TestCoordsEndpointWithoutReport(t *testing.T) {
	server, router := newTestServer(&fakeController{})

	if w := doRequest(t, router, "POST", "/api/service/start", ""); w.Code != http.StatusOK {
		t.Fatalf("service start status = %d", w.Code)
	}
	defer server.service.Stop()

	w := doRequest(t, router, "GET", "/api/coords", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"].(float64) >= 0 {
		t.Errorf("count = %v, want negative sentinel", body["count"])
	}
}

func TestServiceStatusEndpoint(t *testing.T) {
	server, router := newTestServer(&fakeController{})

	w := doRequest(t, router, "GET", "/api/service/status", "")
	if body := decodeBody(t, w); body["status"] != "stopped" {
		t.Errorf("status = %v, want stopped", body["status"])
	}

	if w := doRequest(t, router, "POST", "/api/service/start", ""); w.Code != http.StatusOK {
		t.Fatalf("service start status = %d", w.Code)
	}
	defer server.service.Stop()

	w = doRequest(t, router, "GET", "/api/service/status", "")
	if body := decodeBody(t, w); body["status"] != "running" {
		t.Errorf("status = %v, want running", body["status"])
	}
}
