package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/session"
	"github.com/trustieee/timey-sub000/internal/storage"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "timey.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	now := time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)
	rules := engine.DefaultRules()
	rules.Catalog = []engine.ChoreDefinition{
		{ID: 1, Text: "Dishes"},
		{ID: 2, Text: "Trash"},
	}
	eng := engine.New(rules, engine.WithClock(func() time.Time { return now }))
	return New(session.NewRegistry(store, eng), "*")
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("code=%d body=%v", code, body)
	}
}

func TestCreateProfile(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodPost, "/api/users/kid/profile", "")
	if code != http.StatusOK {
		t.Fatalf("code=%d body=%v", code, body)
	}
	if body["today"] != "2024-05-06" {
		t.Fatalf("today=%v", body["today"])
	}
	history := body["profile"].(map[string]any)["history"].(map[string]any)
	if _, ok := history["2024-05-06"]; !ok {
		t.Fatalf("history=%v", history)
	}

	code, body = do(t, app, http.MethodGet, "/api/users/kid/profile", "")
	if code != http.StatusOK || body["userId"] != "kid" {
		t.Fatalf("code=%d body=%v", code, body)
	}

	code, body = do(t, app, http.MethodGet, "/api/users", "")
	if code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	users := body["users"].([]any)
	if len(users) != 1 || users[0] != "kid" {
		t.Fatalf("users=%v", users)
	}
}

func TestReadsDoNotCreateUsers(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{
		"/api/users/tpyo/profile",
		"/api/users/tpyo/stats",
		"/api/users/tpyo/history",
		"/api/users/tpyo/days/2020-01-01",
		"/api/users/tpyo/play",
	} {
		code, body := do(t, app, http.MethodGet, path, "")
		if code != http.StatusNotFound || body["error"] == nil {
			t.Fatalf("GET %s code=%d body=%v, want 404", path, code, body)
		}
	}
	code, body := do(t, app, http.MethodGet, "/api/users", "")
	if code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	if users := body["users"].([]any); len(users) != 0 {
		t.Fatalf("users=%v, want none", users)
	}
}

func TestChoreStatusFlow(t *testing.T) {
	app := newTestApp(t)

	code, body := do(t, app, http.MethodPost, "/api/users/kid/chores/1/status", `{"status":"completed"}`)
	if code != http.StatusOK {
		t.Fatalf("code=%d body=%v", code, body)
	}
	if body["changed"] != true || body["xpDelta"].(float64) != 10 {
		t.Fatalf("body=%v", body)
	}

	code, body = do(t, app, http.MethodGet, "/api/users/kid/stats", "")
	if code != http.StatusOK || body["totalXp"].(float64) != 10 {
		t.Fatalf("code=%d stats=%v", code, body)
	}

	code, _ = do(t, app, http.MethodPost, "/api/users/kid/chores/42/status", `{"status":"completed"}`)
	if code != http.StatusNotFound {
		t.Fatalf("unknown chore code=%d, want 404", code)
	}
	code, body = do(t, app, http.MethodPost, "/api/users/kid/chores/1/status", `{"status":"maybe"}`)
	if code != http.StatusBadRequest || body["error"] == nil {
		t.Fatalf("bad status code=%d body=%v", code, body)
	}
	code, _ = do(t, app, http.MethodPost, "/api/users/kid/chores/x/status", `{"status":"completed"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("bad id code=%d, want 400", code)
	}
}

func TestDayAndHistory(t *testing.T) {
	app := newTestApp(t)
	if code, _ := do(t, app, http.MethodPost, "/api/users/kid/profile", ""); code != http.StatusOK {
		t.Fatalf("create code=%d", code)
	}
	code, body := do(t, app, http.MethodGet, "/api/users/kid/days/2024-05-06", "")
	if code != http.StatusOK || body["date"] != "2024-05-06" {
		t.Fatalf("code=%d body=%v", code, body)
	}
	code, _ = do(t, app, http.MethodGet, "/api/users/kid/days/2024-01-01", "")
	if code != http.StatusNotFound {
		t.Fatalf("missing day code=%d, want 404", code)
	}
	code, _ = do(t, app, http.MethodGet, "/api/users/kid/days/yesterday", "")
	if code != http.StatusBadRequest {
		t.Fatalf("bad date code=%d, want 400", code)
	}

	code, body = do(t, app, http.MethodGet, "/api/users/kid/history?limit=5", "")
	if code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	if days := body["days"].([]any); len(days) != 1 {
		t.Fatalf("days=%v", days)
	}
}

func TestPutChoresAndReset(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodPut, "/api/users/kid/chores", `[{"id":7,"text":"Walk dog","daysOfWeek":[1]}]`)
	if code != http.StatusOK {
		t.Fatalf("code=%d body=%v", code, body)
	}
	chores := body["profile"].(map[string]any)["chores"].([]any)
	if len(chores) != 1 {
		t.Fatalf("chores=%v", chores)
	}

	code, body = do(t, app, http.MethodPost, "/api/users/kid/days/today/reset", "")
	if code != http.StatusOK {
		t.Fatalf("code=%d body=%v", code, body)
	}
	today := body["profile"].(map[string]any)["history"].(map[string]any)["2024-05-06"].(map[string]any)
	entries := today["chores"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["text"] != "Walk dog" {
		t.Fatalf("entries=%v", entries)
	}

	code, _ = do(t, app, http.MethodPut, "/api/users/kid/chores", `[{"id":1,"text":"a"},{"id":1,"text":"b"}]`)
	if code != http.StatusBadRequest {
		t.Fatalf("duplicate ids code=%d, want 400", code)
	}
}

func TestRewards(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodPost, "/api/users/kid/rewards/use", `{"type":"EXTEND_PLAY_TIME","value":15}`)
	if code != http.StatusConflict || body["cause"] == nil {
		t.Fatalf("no tokens code=%d body=%v", code, body)
	}

	code, _ = do(t, app, http.MethodPost, "/api/users/kid/rewards/grant", `{"count":2}`)
	if code != http.StatusOK {
		t.Fatalf("grant code=%d", code)
	}
	code, body = do(t, app, http.MethodPost, "/api/users/kid/rewards/use", `{"type":"extend","value":15}`)
	if code != http.StatusOK {
		t.Fatalf("use code=%d body=%v", code, body)
	}
	rewards := body["profile"].(map[string]any)["rewards"].(map[string]any)
	if rewards["available"].(float64) != 1 {
		t.Fatalf("rewards=%v", rewards)
	}

	code, body = do(t, app, http.MethodGet, "/api/users/kid/play", "")
	if code != http.StatusOK || body["allowedMinutes"].(float64) != 75 || body["canStart"] != true {
		t.Fatalf("play code=%d body=%v", code, body)
	}

	code, _ = do(t, app, http.MethodPost, "/api/users/kid/rewards/grant", `{"count":0}`)
	if code != http.StatusBadRequest {
		t.Fatalf("zero grant code=%d, want 400", code)
	}
}

func TestFinalize(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodPost, "/api/users/kid/finalize", `{"date":"2024-05-06"}`)
	if code != http.StatusOK {
		t.Fatalf("code=%d body=%v", code, body)
	}
	day := body["profile"].(map[string]any)["history"].(map[string]any)["2024-05-06"].(map[string]any)
	if day["completed"] != true {
		t.Fatalf("day=%v", day)
	}
	xp := day["xp"].(map[string]any)
	if xp["penalties"].(float64) != 20 {
		t.Fatalf("xp=%v", xp)
	}

	code, _ = do(t, app, http.MethodPost, "/api/users/kid/chores/1/status", `{"status":"completed"}`)
	if code != http.StatusConflict {
		t.Fatalf("finalized day code=%d, want 409", code)
	}
	code, _ = do(t, app, http.MethodPost, "/api/users/kid/finalize", "")
	if code != http.StatusOK {
		t.Fatalf("finalize without body code=%d", code)
	}
}
