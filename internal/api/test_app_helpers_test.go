package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/db"
	"github.com/terraincognita07/tahara/internal/models"
	"github.com/terraincognita07/tahara/internal/security"
	"github.com/terraincognita07/tahara/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

type testApp struct {
	app     *fiber.App
	handler *Handler
	log     *services.CycleLog
	repo    *db.CycleEntryRepository
	token   string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "tahara-api.db"), logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := db.NewRepositories(database).CycleEntries
	cycleLog := services.NewCycleLog(repo, logger)
	t.Cleanup(cycleLog.Close)

	handler, err := NewHandler(services.NewCycleService(cycleLog, services.CycleOptions{}), testSecretKey, time.UTC, logger)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	app := fiber.New()
	RegisterRoutes(app, handler)

	issued, err := security.IssueToken([]byte(testSecretKey), "test-client", time.Hour, testNow)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	return &testApp{app: app, handler: handler, log: cycleLog, repo: repo, token: issued.Token}
}

func (ta *testApp) do(t *testing.T, method string, target string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Authorization", "Bearer "+ta.token)

	response, err := ta.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	t.Cleanup(func() { _ = response.Body.Close() })
	return response
}

func (ta *testApp) seed(t *testing.T, entries map[string]models.DayTypeTag) {
	t.Helper()
	for raw, tag := range entries {
		if err := ta.log.SetEntry(models.MustParseDate(raw), tag); err != nil {
			t.Fatalf("seed %s: %v", raw, err)
		}
	}
}

func (ta *testApp) seedPeriod(t *testing.T, start string, days int) {
	t.Helper()
	first := models.MustParseDate(start)
	for offset := 0; offset < days; offset++ {
		if err := ta.log.SetEntry(first.AddDays(offset), models.DayTypePeriod); err != nil {
			t.Fatalf("seed period day: %v", err)
		}
	}
}

func assertStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()
	if response.StatusCode != expected {
		payload, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(payload))
	}
}

func decodeJSON(t *testing.T, body io.Reader, target any) {
	t.Helper()
	payload, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(payload), err)
	}
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSON(t, body, &payload)
	return payload["error"]
}
