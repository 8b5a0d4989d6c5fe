package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/api/http/handlers"
	"github.com/spec-kit/lms-console/internal/gate"
	"github.com/spec-kit/lms-console/internal/notify"
	"github.com/spec-kit/lms-console/internal/observability"
	"github.com/spec-kit/lms-console/internal/resource"
	"github.com/spec-kit/lms-console/internal/session"
	"github.com/spec-kit/lms-console/internal/shell"
	"github.com/spec-kit/lms-console/internal/upstream"
)

// fakeBackend imitates the slice of the learning service the console talks to.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "invalid credentials"})
			return
		}
		role := map[string]string{
			"admin@lms.test":      "admin",
			"instructor@lms.test": "instructor",
			"student@lms.test":    "student",
		}[req.Email]
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-" + role,
			"user": map[string]any{
				"_id":   "u-" + role,
				"email": req.Email,
				"name":  "Test " + role,
				"role":  role,
			},
		})
	})

	mux.HandleFunc("GET /api/dashboard/admin-dashboard", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"totalStudents": 3, "totalCourses": 1})
	})

	mux.HandleFunc("GET /api/user/users", func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "u-" + role + "-1", "email": role + "1@lms.test", "role": role},
		})
	})

	mux.HandleFunc("/api/courses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]map[string]any{{"_id": "c1", "title": "Go"}})
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"_id": "c2"})
		}
	})

	mux.HandleFunc("DELETE /api/courses/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "gone" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"message": "course not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"deleted": true})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

type console struct {
	app *fiber.App
	bus *notify.Bus
}

func newTestConsole(t *testing.T, backendURL string) *console {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	vault := session.NewFileVault(filepath.Join(t.TempDir(), "session"), "test-secret")

	var sessions *session.Store
	gateway := upstream.NewGateway(backendURL, func() string {
		if sessions == nil {
			return ""
		}
		return sessions.Token()
	}, logger, metrics)
	sessions = session.NewStore(vault, gateway, logger)

	bus := notify.NewBus(0) // sticky notifications keep assertions simple
	bus.Attach()

	authGate := gate.New(sessions)
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler("test", "dev", gateway, vault),
		Auth:          handlers.NewAuthHandler(sessions, gateway, authGate, bus),
		Shell:         handlers.NewShellHandler(shell.New(gateway, logger)),
		Resources:     handlers.NewResourcesHandler(resource.NewCatalog(gateway, bus, logger)),
		Settings:      handlers.NewSettingsHandler(gateway, bus),
		Notifications: handlers.NewNotificationsHandler(bus),
		Gate:          authGate,
	})
	return &console{app: app, bus: bus}
}

func (c *console) request(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (c *console) login(t *testing.T, email, next string) map[string]any {
	t.Helper()
	resp := c.request(t, http.MethodPost, "/login", map[string]string{
		"email": email, "password": "pw", "next": next,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	return decodeData(t, resp)
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return envelope.Data
}

func TestAnonymousProtectedNavigationRedirectsToLogin(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)

	resp := c.request(t, http.MethodGet, "/admin/students", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login?next=%2Fadmin%2Fstudents" {
		t.Errorf("Location = %q, want login with remembered origin", loc)
	}
}

func TestLoginReturnsRememberedOrigin(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)

	data := c.login(t, "admin@lms.test", "/admin/students")
	if redirect := data["redirect"]; redirect != "/admin/students" {
		t.Errorf("redirect = %v, want the originally requested path", redirect)
	}

	resp := c.request(t, http.MethodGet, "/admin/students", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("post-login navigation status = %d, want 200", resp.StatusCode)
	}
}

func TestCrossRoleNavigationRedirectsToOwnLanding(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)
	c.login(t, "student@lms.test", "")

	resp := c.request(t, http.MethodGet, "/admin/courses", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/student" {
		t.Errorf("Location = %q, want own landing /student", loc)
	}
}

func TestLoginFailureSurfacesUpstreamPayload(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)

	resp := c.request(t, http.MethodPost, "/login", map[string]string{
		"email": "admin@lms.test", "password": "wrong",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want upstream 401 passed through", resp.StatusCode)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Errorf("message = %q, want upstream text verbatim", envelope.Error.Message)
	}

	if stack := c.bus.Stack(); len(stack) == 0 {
		t.Error("login failure published no notification")
	}
}

func TestLogoutIsIdempotentOverHTTP(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)
	c.login(t, "admin@lms.test", "")

	for i := 0; i < 2; i++ {
		resp := c.request(t, http.MethodPost, "/logout", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("logout #%d status = %d", i+1, resp.StatusCode)
		}
	}

	resp := c.request(t, http.MethodGet, "/admin", nil)
	if resp.StatusCode != http.StatusFound {
		t.Errorf("post-logout status = %d, want redirect to login", resp.StatusCode)
	}
}

func TestShellRendersNavWithBadges(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)
	c.login(t, "admin@lms.test", "")

	data := decodeData(t, c.request(t, http.MethodGet, "/admin", nil))
	nav, ok := data["nav"].([]any)
	if !ok || len(nav) == 0 {
		t.Fatalf("nav = %v", data["nav"])
	}
}

func TestDeleteMissingRowSurfacesNotification(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)
	c.login(t, "admin@lms.test", "")

	resp := c.request(t, http.MethodDelete, "/admin/courses/gone", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 from upstream", resp.StatusCode)
	}

	data := decodeData(t, c.request(t, http.MethodGet, "/notifications", nil))
	items, _ := data["notifications"].([]any)
	found := false
	for _, item := range items {
		doc, _ := item.(map[string]any)
		if doc["kind"] == "error" {
			found = true
		}
	}
	if !found {
		t.Error("no error notification after failed delete")
	}

	// The list itself stays served from upstream state.
	listData := decodeData(t, c.request(t, http.MethodGet, "/admin/courses", nil))
	rows, _ := listData["rows"].([]any)
	if len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}
}

func TestUnknownResourceIs404(t *testing.T) {
	c := newTestConsole(t, fakeBackend(t).URL)
	c.login(t, "student@lms.test", "")

	resp := c.request(t, http.MethodGet, "/student/batches", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (batches is not a student screen)", resp.StatusCode)
	}
}
