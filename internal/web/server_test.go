package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log/v2"
	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/auth"
	"github.com/zulandar/bookmarky/internal/bookmark"
	"github.com/zulandar/bookmarky/internal/bug"
	"github.com/zulandar/bookmarky/internal/db/dbtest"
	"github.com/zulandar/bookmarky/internal/models"
	"github.com/zulandar/bookmarky/internal/txn"
	"github.com/zulandar/bookmarky/internal/user"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := dbtest.Open(t)
	quiet := log.New(io.Discard)
	router, err := NewRouter(StartOpts{
		DB:     db,
		Logger: quiet,
		Policy: txn.Policy{Logger: quiet},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &testServer{t: t, db: db, router: router}
}

func (s *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

func (s *testServer) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, cookie)
}

// login creates a user and returns the session cookie the login form sets.
func (s *testServer) login(name, role string) (models.User, *http.Cookie) {
	s.t.Helper()
	u := dbtest.User(s.t, s.db, name, role)
	w := s.post("/login", url.Values{"user": {name}, "passwd": {name}, "action": {"Log in"}}, nil)
	if w.Code != http.StatusSeeOther {
		s.t.Fatalf("login %s: status = %d, want 303", name, w.Code)
	}
	return u, sessionFrom(s.t, w)
}

func (s *testServer) milestone() uint {
	s.t.Helper()
	id, err := bug.CreateMilestone(context.Background(), s.db, "1.0", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		s.t.Fatalf("CreateMilestone: %v", err)
	}
	return id
}

func (s *testServer) bug(creator uint) uint {
	s.t.Helper()
	id, err := bug.Create(context.Background(), s.db, creator, bug.Form{
		Title:     "Crash on save",
		Details:   "click save twice",
		Priority:  "high",
		Milestone: fmt.Sprint(s.milestone()),
		Tags:      "ui, crash",
	})
	if err != nil {
		s.t.Fatalf("bug.Create: %v", err)
	}
	return id
}

func sessionFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("response did not set a session cookie")
	return nil
}

func TestNewRouter_NilDB(t *testing.T) {
	_, err := NewRouter(StartOpts{})
	if err == nil {
		t.Fatal("expected error for nil db")
	}
	if !strings.Contains(err.Error(), "db is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db is required")
	}
}

func TestStart_NilDB(t *testing.T) {
	err := Start(context.Background(), StartOpts{DB: nil})
	if err == nil || !strings.Contains(err.Error(), "db is required") {
		t.Errorf("Start(nil db) error = %v, want db is required", err)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	data, err := assetsFS.ReadFile("assets/style.css")
	if err != nil {
		t.Fatalf("style.css not embedded: %v", err)
	}
	if len(data) == 0 {
		t.Error("style.css is empty")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	data, err := templatesFS.ReadFile("templates/layout.html")
	if err != nil {
		t.Fatalf("layout.html not embedded: %v", err)
	}
	if !strings.Contains(string(data), "Bookmarky") {
		t.Error("layout.html does not contain 'Bookmarky'")
	}
	if _, err := parseTemplates(); err != nil {
		t.Fatalf("parseTemplates: %v", err)
	}
}

func TestStaticAssets_CSS(t *testing.T) {
	s := newTestServer(t)
	w := s.get("/static/style.css", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.get("/", nil)
	w := s.get("/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bookmarky_http_requests_total") {
		t.Error("metrics output missing bookmarky_http_requests_total")
	}
}

func TestUnknownRoute_Returns404(t *testing.T) {
	s := newTestServer(t)
	w := s.get("/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHome_AnonymousShowsLogin(t *testing.T) {
	s := newTestServer(t)
	w := s.get("/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`name="user"`, `name="passwd"`, "Create account"} {
		if !strings.Contains(body, want) {
			t.Errorf("login page missing %q", want)
		}
	}
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/create_bug", "/bug_list", "/bug_details/1", "/edit_bug/1",
		"/news_feed", "/user_profile", "/edit_user_profile", "/reports/1",
	} {
		t.Run(path, func(t *testing.T) {
			if w := s.get(path, nil); w.Code != http.StatusForbidden {
				t.Errorf("GET %s: status = %d, want 403", path, w.Code)
			}
		})
	}
	stale := &http.Cookie{Name: sessionCookie, Value: "no-such-token"}
	if w := s.get("/bug_list", stale); w.Code != http.StatusForbidden {
		t.Errorf("unknown token: status = %d, want 403", w.Code)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestServer(t)
	dbtest.User(t, s.db, "tess", models.RoleTester)
	w := s.post("/login", url.Values{"user": {"tess"}, "passwd": {"wrong"}, "action": {"Log in"}}, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestLogin_UnknownAction(t *testing.T) {
	s := newTestServer(t)
	w := s.post("/login", url.Values{"user": {"tess"}, "passwd": {"x"}, "action": {"Dance"}}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_CreateAccount(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{
		"user":         {"nina"},
		"passwd":       {"hunter2"},
		"display_name": {"Nina"},
		"e_mail":       {"nina@example.com"},
		"role":         {models.RoleManager},
		"action":       {"Create account"},
	}
	w := s.post("/login", form, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	cookie := sessionFrom(t, w)
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	w = s.get("/", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("home status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Bookmarks for Nina") {
		t.Error("home page should greet the new user")
	}

	if w := s.post("/login", form, nil); w.Code != http.StatusConflict {
		t.Errorf("duplicate account: status = %d, want 409", w.Code)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.login("tess", models.RoleTester)
	if w := s.post("/logout", nil, cookie); w.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", w.Code)
	}
	if w := s.get("/bug_list", cookie); w.Code != http.StatusForbidden {
		t.Errorf("after logout: status = %d, want 403", w.Code)
	}
}

func TestCreateBug_Flow(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.login("tess", models.RoleTester)
	mid := s.milestone()

	if w := s.get("/create_bug", cookie); w.Code != http.StatusOK {
		t.Fatalf("form status = %d, want 200", w.Code)
	}

	w := s.post("/create_bug", url.Values{
		"bug_title":    {"Login button misaligned"},
		"bug_details":  {"shifted 3px left"},
		"bug_priority": {"low"},
		"milestone":    {fmt.Sprint(mid)},
		"tags":         {"UI, css, ui"},
	}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want 303", w.Code)
	}

	w = s.get("/bug_list", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Login button misaligned") {
		t.Error("bug list missing the new bug")
	}

	w = s.post("/create_bug", url.Values{"bug_title": {"no details"}, "milestone": {fmt.Sprint(mid)}}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete form: status = %d, want 400", w.Code)
	}
}

func TestEditBug(t *testing.T) {
	s := newTestServer(t)
	tess, cookie := s.login("tess", models.RoleTester)
	id := s.bug(tess.ID)
	path := fmt.Sprintf("/edit_bug/%d", id)

	w := s.get(path, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("form status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "crash, ui") {
		t.Error("edit form should prefill the current tags")
	}

	w = s.post(path, url.Values{"status": {models.StatusTesting}, "bug_title": {""}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d, want 303", w.Code)
	}
	got, err := bug.Get(context.Background(), s.db, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusTesting {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusTesting)
	}
	if got.Title != "Crash on save" {
		t.Errorf("blank title should leave Title unchanged, got %q", got.Title)
	}
}

func TestEditBug_MissingIsForbidden(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.login("tess", models.RoleTester)
	if w := s.get("/edit_bug/999", cookie); w.Code != http.StatusForbidden {
		t.Errorf("GET status = %d, want 403", w.Code)
	}
	if w := s.post("/edit_bug/999", url.Values{"status": {models.StatusClosed}}, cookie); w.Code != http.StatusForbidden {
		t.Errorf("POST status = %d, want 403", w.Code)
	}
}

func TestBugDetails(t *testing.T) {
	s := newTestServer(t)
	tess, cookie := s.login("tess", models.RoleTester)
	id := s.bug(tess.ID)

	w := s.get(fmt.Sprintf("/bug_details/%d", id), cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Crash on save", "unassigned", "Subscribe"} {
		if !strings.Contains(body, want) {
			t.Errorf("details page missing %q", want)
		}
	}

	if w := s.get("/bug_details/999", cookie); w.Code != http.StatusNotFound {
		t.Errorf("missing bug: status = %d, want 404", w.Code)
	}
	if w := s.get("/bug_details/abc", cookie); w.Code != http.StatusNotFound {
		t.Errorf("non-numeric id: status = %d, want 404", w.Code)
	}
}

func TestCommentsAndHours(t *testing.T) {
	s := newTestServer(t)
	tess, cookie := s.login("tess", models.RoleTester)
	id := s.bug(tess.ID)

	if w := s.get(fmt.Sprintf("/add_comment/%d", id), cookie); w.Code != http.StatusOK {
		t.Fatalf("comment form status = %d, want 200", w.Code)
	}
	w := s.post(fmt.Sprintf("/add_comment/%d", id), url.Values{"comment_text": {"still broken"}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("comment status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != fmt.Sprintf("/bug_details/%d", id) {
		t.Errorf("Location = %q, want bug details", loc)
	}

	w = s.post(fmt.Sprintf("/add_hours_worked/%d", id), url.Values{"hours_worked": {"1.5"}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("hours status = %d, want 303", w.Code)
	}
	w = s.post(fmt.Sprintf("/add_hours_worked/%d", id), url.Values{"hours_worked": {"lots"}}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad hours: status = %d, want 400", w.Code)
	}
	w = s.post("/add_comment/999", url.Values{"comment_text": {"hello"}}, cookie)
	if w.Code != http.StatusNotFound {
		t.Errorf("comment on missing bug: status = %d, want 404", w.Code)
	}

	w = s.get(fmt.Sprintf("/bug_details/%d", id), cookie)
	if !strings.Contains(w.Body.String(), "still broken") {
		t.Error("details page missing the new comment")
	}
}

func TestSubscribeAndNewsFeed(t *testing.T) {
	s := newTestServer(t)
	tess, tessCookie := s.login("tess", models.RoleTester)
	_, danCookie := s.login("dan", models.RoleDeveloper)
	id := s.bug(tess.ID)

	w := s.post(fmt.Sprintf("/subscribe/%d", id), nil, danCookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("subscribe status = %d, want 303", w.Code)
	}
	s.post(fmt.Sprintf("/add_comment/%d", id), url.Values{"comment_text": {"needs triage"}}, tessCookie)

	w = s.get("/news_feed", danCookie)
	if w.Code != http.StatusOK {
		t.Fatalf("news status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "needs triage") {
		t.Error("subscriber's news feed missing the comment")
	}

	w = s.get(fmt.Sprintf("/bug_details/%d", id), danCookie)
	if !strings.Contains(w.Body.String(), "Unsubscribe") {
		t.Error("details page should offer Unsubscribe to a subscriber")
	}

	s.post(fmt.Sprintf("/unsubscribe/%d", id), nil, danCookie)
	w = s.get("/news_feed", danCookie)
	if strings.Contains(w.Body.String(), "needs triage") {
		t.Error("news feed still shows the comment after unsubscribing")
	}

	if w := s.post("/subscribe/999", nil, danCookie); w.Code != http.StatusNotFound {
		t.Errorf("subscribe to missing bug: status = %d, want 404", w.Code)
	}
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.login("tess", models.RoleTester)

	w := s.get("/user_profile", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("profile status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "tess@example.com") {
		t.Error("profile page missing e-mail")
	}
	if w := s.get("/edit_user_profile", cookie); w.Code != http.StatusOK {
		t.Fatalf("edit form status = %d, want 200", w.Code)
	}

	w = s.post("/edit_user_profile", url.Values{"display_name": {"Tess T."}, "user_name": {""}}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/user_profile" {
		t.Errorf("Location = %q, want /user_profile", loc)
	}
	w = s.get("/user_profile", cookie)
	if !strings.Contains(w.Body.String(), "Tess T.") {
		t.Error("profile page should show the new display name")
	}

	dbtest.User(t, s.db, "dan", models.RoleDeveloper)
	if w := s.post("/edit_user_profile", url.Values{"user_name": {"dan"}}, cookie); w.Code != http.StatusConflict {
		t.Errorf("taken login: status = %d, want 409", w.Code)
	}
}

func TestBookmarks(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.login("tess", models.RoleTester)

	w := s.post("/bookmarks", url.Values{
		"url":   {"https://go.dev/doc/effective_go"},
		"title": {"Effective Go"},
		"tags":  {"go, docs"},
	}, cookie)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d, want 303", w.Code)
	}
	w = s.get("/", cookie)
	body := w.Body.String()
	if !strings.Contains(body, "Effective Go") || !strings.Contains(body, "docs") {
		t.Error("home page missing the bookmark")
	}

	if w := s.post("/bookmarks", url.Values{"url": {"not a url"}}, cookie); w.Code != http.StatusBadRequest {
		t.Errorf("bad url: status = %d, want 400", w.Code)
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	tess, cookie := s.login("tess", models.RoleTester)

	w := s.get("/reports/1", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("empty report status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Nothing to report") {
		t.Error("empty report should say so")
	}

	id := s.bug(tess.ID)
	if _, err := bug.AddHours(context.Background(), s.db, id, tess.ID, "2.5"); err != nil {
		t.Fatal(err)
	}
	for _, rid := range []string{"1", "2", "3"} {
		t.Run("report "+rid, func(t *testing.T) {
			w := s.get("/reports/"+rid, cookie)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), "1.0") {
				t.Error("report missing milestone 1.0")
			}
		})
	}
	if w := s.get("/reports/4", cookie); w.Code != http.StatusNotFound {
		t.Errorf("unknown report: status = %d, want 404", w.Code)
	}
}

func TestNewsEvents_ResumesFromLastEventID(t *testing.T) {
	newsPollInterval = 10 * time.Millisecond
	t.Cleanup(func() { newsPollInterval = 3 * time.Second })

	s := newTestServer(t)
	tess, cookie := s.login("tess", models.RoleTester)
	id := s.bug(tess.ID)
	cid, err := bug.AddComment(context.Background(), s.db, id, tess.ID, "first")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/news/events", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "0")
	w := s.do(req, cookie)

	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, want text/event-stream", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "event: connected\n") {
		t.Errorf("stream should open with a connected event, got %q", body)
	}
	if !strings.Contains(body, fmt.Sprintf("id: %d\nevent: comment\n", cid)) {
		t.Errorf("stream missing comment %d: %q", cid, body)
	}
	if strings.Count(body, "event: comment") != 1 {
		t.Errorf("comment should be sent once, got %q", body)
	}
}

func TestNewsEvents_FreshClientSkipsBacklog(t *testing.T) {
	newsPollInterval = 10 * time.Millisecond
	t.Cleanup(func() { newsPollInterval = 3 * time.Second })

	s := newTestServer(t)
	tess, cookie := s.login("tess", models.RoleTester)
	id := s.bug(tess.ID)
	if _, err := bug.AddComment(context.Background(), s.db, id, tess.ID, "old news"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/news/events", nil).WithContext(ctx)
	body := s.do(req, cookie).Body.String()
	if strings.Contains(body, "old news") {
		t.Errorf("fresh client should not replay the backlog: %q", body)
	}
}

func TestWriteSSE(t *testing.T) {
	var b strings.Builder
	writeSSE(&b, "", "heartbeat", map[string]string{"k": "v"})
	if got, want := b.String(), "event: heartbeat\ndata: {\"k\":\"v\"}\n\n"; got != want {
		t.Errorf("writeSSE without id = %q, want %q", got, want)
	}
	b.Reset()
	writeSSE(&b, "7", "comment", map[string]int{"id": 7})
	if got, want := b.String(), "id: 7\nevent: comment\ndata: {\"id\":7}\n\n"; got != want {
		t.Errorf("writeSSE with id = %q, want %q", got, want)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad credentials", auth.ErrBadCredentials, http.StatusForbidden},
		{"auth login taken", auth.ErrLoginTaken, http.StatusConflict},
		{"profile login taken", user.ErrLoginTaken, http.StatusConflict},
		{"auth invalid", auth.ErrInvalidInput, http.StatusBadRequest},
		{"bug invalid", fmt.Errorf("wrapped: %w", bug.ErrInvalidInput), http.StatusBadRequest},
		{"bookmark invalid", bookmark.ErrInvalidInput, http.StatusBadRequest},
		{"bug missing", bug.ErrNotFound, http.StatusNotFound},
		{"user missing", user.ErrNotFound, http.StatusNotFound},
		{"exhausted", fmt.Errorf("%w after 5 attempts: boom", txn.ErrExhausted), http.StatusInternalServerError},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestTimeAgo(t *testing.T) {
	tests := []struct {
		name string
		when time.Time
		want string
	}{
		{"zero", time.Time{}, "—"},
		{"minutes", time.Now().Add(-5*time.Minute - time.Second), "5m ago"},
		{"hours", time.Now().Add(-3*time.Hour - time.Second), "3h ago"},
		{"days", time.Now().Add(-48*time.Hour - time.Second), "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeAgo(tt.when); got != tt.want {
				t.Errorf("timeAgo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateFuncs(t *testing.T) {
	when := time.Date(2026, 3, 4, 15, 6, 0, 0, time.UTC)
	var nilTime *time.Time
	if got := formatDate(when); got != "2026-03-04" {
		t.Errorf("formatDate = %q", got)
	}
	if got := formatDate(nilTime); got != "—" {
		t.Errorf("formatDate(nil) = %q, want —", got)
	}
	if got := formatDateTime(&when); got != "2026-03-04 15:06" {
		t.Errorf("formatDateTime = %q", got)
	}
	if got := formatHours(2.50); got != "2.5" {
		t.Errorf("formatHours = %q, want 2.5", got)
	}
	title := "hello"
	if derefString(&title) != "hello" || derefString(nil) != "" {
		t.Error("derefString mismatch")
	}
	id := uint(42)
	if idString(&id) != "42" || idString(nil) != "" {
		t.Error("idString mismatch")
	}
}
