package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/bryan-buckman/jobdesk/internal/auth"
	"github.com/bryan-buckman/jobdesk/internal/catalog"
	"github.com/bryan-buckman/jobdesk/internal/database"
	"github.com/bryan-buckman/jobdesk/internal/pages"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/simulate/simulatetest"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

func newTestServer(t *testing.T) (*Server, *state.Store) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	db, err := database.New(filepath.Join(t.TempDir(), "jobdesk.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	store := state.New(context.Background(), db, state.Options{Catalog: seed.Catalog(), Logger: logger})
	session := pages.NewSession(pages.Deps{
		Store:  store,
		Clock:  simulatetest.NewClock(time.Date(2025, 1, 22, 9, 0, 0, 0, time.UTC)),
		Random: simulatetest.Random{},
		Logger: logger,
	})
	t.Cleanup(func() {
		session.Close()
		store.Close()
		db.Close()
	})
	fetcher := catalog.NewFetcher(db, store, logger)
	return New(db, store, session, fetcher, auth.NewHeaderProvider(""), logger), store
}

func do(t *testing.T, s *Server, method, path string, body string, signedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if signedIn {
		r.Header.Set(auth.HeaderUser, "Abel Birhanu")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["backend"] != "SQLite" {
		t.Errorf("body = %v", got)
	}
}

func TestAnonymousRedirectsToSignIn(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/", "/my-jobs", "/api/settings"} {
		w := do(t, s, http.MethodGet, path, "", false)
		if w.Code != http.StatusFound || w.Header().Get("Location") != auth.SignInPath {
			t.Errorf("%s: status = %d, location = %q", path, w.Code, w.Header().Get("Location"))
		}
	}
	if w := do(t, s, http.MethodGet, auth.SignInPath, "", false); w.Code != http.StatusUnauthorized {
		t.Errorf("sign-in status = %d", w.Code)
	}
	if w := do(t, s, http.MethodGet, auth.SignInPath, "", true); w.Code != http.StatusFound {
		t.Errorf("signed-in sign-in status = %d", w.Code)
	}
}

func TestHomeRecordsIdentity(t *testing.T) {
	s, store := newTestServer(t)
	w := do(t, s, http.MethodGet, "/?company=Google", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Page  pages.JobsView  `json:"page"`
		Shell pages.ShellView `json:"shell"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Page.Jobs) != 1 || resp.Page.Jobs[0].ID != "google-1" {
		t.Errorf("jobs = %+v", resp.Page.Jobs)
	}
	if resp.Shell.Profile.Name != "Abel Birhanu" || resp.Shell.Profile.Initials != "AB" {
		t.Errorf("shell profile = %+v", resp.Shell.Profile)
	}
	if store.GetState().User.Profile.Name != "Abel Birhanu" {
		t.Error("identity not stored")
	}
}

func TestErrorStatuses(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		kind   string
	}{
		{"invalid event", http.MethodPost, "/api/calendar/events", `{"title":"","company":"X","time":"9:00 AM"}`, http.StatusUnprocessableEntity, "VALIDATION"},
		{"malformed body", http.MethodPost, "/api/messages", `{`, http.StatusUnprocessableEntity, "VALIDATION"},
		{"unknown job", http.MethodPost, "/api/jobs/missing/save", "", http.StatusNotFound, "NOT_FOUND"},
		{"unknown document", http.MethodGet, "/documents/missing/view", "", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body, true)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.want, w.Body)
			}
			var got map[string]string
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got["error"] != tt.kind || got["message"] == "" {
				t.Errorf("body = %v", got)
			}
		})
	}
	w := do(t, s, http.MethodPost, "/api/calendar/events", `{"title":"","company":"X","time":"9:00 AM"}`, true)
	if !strings.Contains(w.Body.String(), "title, company and time are required") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestDeleteUnknownDocumentIsNoop(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodDelete, "/api/documents/missing", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if strings.Contains(w.Body.String(), "Document deleted") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestSaveJobThroughAPI(t *testing.T) {
	s, store := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/jobs/ethio-1/save", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Page   pages.JobItem `json:"page"`
		Toasts []struct {
			Text string `json:"text"`
		} `json:"toasts"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Page.Saved || len(resp.Toasts) == 0 || resp.Toasts[0].Text != "Job saved" {
		t.Errorf("resp = %+v", resp)
	}
	if !store.GetState().User.IsSaved("ethio-1") {
		t.Error("not saved in store")
	}
}

func TestSettingsClampInterval(t *testing.T) {
	s, _ := newTestServer(t)
	if w := do(t, s, http.MethodPost, "/api/settings", `{"polling_interval":1}`, true); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w := do(t, s, http.MethodGet, "/api/settings", "", true)
	var got map[string]int
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["polling_interval"] != database.MinPollingIntervalMinutes {
		t.Errorf("polling_interval = %d", got["polling_interval"])
	}
}

func TestImportAndExportOPML(t *testing.T) {
	s, _ := newTestServer(t)
	const doc = `<?xml version="1.0"?>
<opml version="2.0"><head><title>feeds</title></head><body>
<outline text="Remote">
  <outline type="rss" text="Go Jobs" xmlUrl="https://example.com/go.rss"/>
</outline>
<outline type="rss" text="Design Jobs" xmlUrl="https://example.com/design.rss"/>
</body></opml>`

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("opml", "feeds.opml")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(doc))
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/import-opml", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set(auth.HeaderUser, "Abel Birhanu")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"imported":2`) {
		t.Fatalf("import: %d %s", w.Code, w.Body)
	}

	w = do(t, s, http.MethodGet, "/api/export-opml", "", true)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "https://example.com/go.rss") {
		t.Errorf("export: %d %s", w.Code, w.Body)
	}
}
