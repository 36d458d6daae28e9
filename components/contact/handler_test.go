package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
	"github.com/goliatone/go-contactform/pkg/testsupport"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type heldTimer struct{}

func (heldTimer) Stop() bool { return true }

// heldScheduler never fires, so a session stays in the success state.
type heldScheduler struct{}

func (heldScheduler) AfterFunc(time.Duration, func()) submission.Timer { return heldTimer{} }

func newComponent(t *testing.T, fns ...OptionFn) (*Component, *manualClock) {
	t.Helper()
	clock := &manualClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	base := []OptionFn{
		WithClock(clock.Now),
		WithHandlerOptions(submission.WithScheduler(heldScheduler{})),
	}
	c, err := New(append(base, fns...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, clock
}

func formRequest(values map[string]string, cookies ...*http.Cookie) *http.Request {
	form := url.Values{}
	for key, value := range values {
		form.Set(key, value)
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func jsonRequest(t *testing.T, payload any, cookies ...*http.Cookie) *http.Request {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func serve(c *Component, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == defaultCookieName {
			return cookie
		}
	}
	t.Fatalf("response carries no session cookie")
	return nil
}

// openSession posts an invalid form, which creates a session without
// handing anything off.
func openSession(t *testing.T, c *Component, cookies ...*http.Cookie) *http.Cookie {
	t.Helper()
	rec := serve(c, formRequest(map[string]string{"name": "A"}, cookies...))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	return sessionCookie(t, rec)
}

func TestGet_RendersFormWithoutSession(t *testing.T) {
	c, _ := newComponent(t)

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Empty(t, rec.Result().Cookies(), "page views must not open sessions")

	body := rec.Body.String()
	assert.Contains(t, body, `<form method="POST" action="/contact" novalidate>`)
	assert.NotContains(t, body, `name="session"`)
	assert.Contains(t, body, `data-form-state="idle"`)
	assert.Zero(t, c.Sessions())

	for range 50 {
		serve(c, httptest.NewRequest(http.MethodGet, "/contact", nil))
		serve(c, httptest.NewRequest(http.MethodHead, "/contact", nil))
	}
	assert.Zero(t, c.Sessions())
}

func TestPost_IssuesSessionCookie(t *testing.T) {
	c, _ := newComponent(t)

	cookie := openSession(t, c)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 1, c.Sessions())

	again := serve(c, func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/contact", nil)
		req.AddCookie(cookie)
		return req
	}())
	require.Equal(t, http.StatusOK, again.Code)
	assert.Empty(t, again.Result().Cookies(), "known session must not be reissued")
	assert.Contains(t, again.Body.String(), `<input type="hidden" name="session" value="`+cookie.Value+`">`)
	assert.Contains(t, again.Body.String(), `name="name" value="A"`, "session input is shown again")
	assert.Equal(t, 1, c.Sessions())
}

func TestHead_WritesNoBody(t *testing.T) {
	c, _ := newComponent(t)
	rec := serve(c, httptest.NewRequest(http.MethodHead, "/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestPost_InvalidFormReportsEveryError(t *testing.T) {
	c, _ := newComponent(t)

	rec := serve(c, formRequest(testsupport.InvalidContact()))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := rec.Body.String()
	for _, message := range []string{
		"Name must be at least 2 characters",
		"Please enter a valid email",
		"Please enter a valid phone number",
		"Please select a service",
		"Message must be at least 10 characters",
	} {
		assert.Contains(t, body, message)
	}
	assert.Contains(t, body, `name="email" value="not-an-email"`, "input is kept for correction")
	assert.Contains(t, body, `data-form-state="idle"`)
}

func TestPost_ValidFormRedirectsToDeepLink(t *testing.T) {
	c, _ := newComponent(t)

	input := testsupport.ValidContact()
	input["name"] = "  Al  "
	rec := serve(c, formRequest(input))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	want := site.Defaults().Contact.DeepLink.URL(testsupport.ValidContactMessage)
	assert.Equal(t, want, rec.Header().Get("Location"))
	assert.True(t, strings.HasPrefix(want, "https://wa.me/91XXXXXXXXXX?text=Hi%20NEXORA%20DIGITAL!%0A%0AName%3A%20Al%0A"))
}

func TestPost_SessionFieldFallback(t *testing.T) {
	c, _ := newComponent(t)

	id := openSession(t, c).Value

	input := testsupport.ValidContact()
	input[defaultSessionField] = id
	rec := serve(c, formRequest(input))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "hidden field should resolve the existing session")
	assert.Equal(t, 1, c.Sessions())
}

func TestPost_BusySessionConflicts(t *testing.T) {
	c, _ := newComponent(t)

	first := serve(c, formRequest(testsupport.ValidContact()))
	require.Equal(t, http.StatusSeeOther, first.Code)
	cookie := sessionCookie(t, first)

	page := httptest.NewRequest(http.MethodGet, "/contact", nil)
	page.AddCookie(cookie)
	shown := serve(c, page)
	require.Equal(t, http.StatusOK, shown.Code)
	assert.Contains(t, shown.Body.String(), "<h3>Thank You!</h3>")
	assert.Contains(t, shown.Body.String(), submission.SuccessMessage)

	second := serve(c, formRequest(testsupport.ValidContact(), cookie))
	require.Equal(t, http.StatusConflict, second.Code)

	third := serve(c, jsonRequest(t, testsupport.ValidContact(), cookie))
	require.Equal(t, http.StatusConflict, third.Code)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(third.Body).Decode(&payload))
	assert.Equal(t, map[string]string{"error": BusyMessage, "state": "success"}, payload)
}

func TestPost_JSON(t *testing.T) {
	c, _ := newComponent(t)

	t.Run("invalid", func(t *testing.T) {
		rec := serve(c, jsonRequest(t, map[string]any{"name": "A", "email": "a@b.com"}))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

		var payload struct {
			Errors map[string]string `json:"errors"`
			State  string            `json:"state"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, "idle", payload.State)
		assert.Equal(t, map[string]string{
			"name":    "Name must be at least 2 characters",
			"phone":   "Please enter a valid phone number",
			"service": "Please select a service",
			"message": "Message must be at least 10 characters",
		}, payload.Errors)
	})

	t.Run("valid with numeric phone", func(t *testing.T) {
		body := map[string]any{}
		for key, value := range testsupport.ValidContact() {
			body[key] = value
		}
		body["phone"] = 9876543210

		rec := serve(c, jsonRequest(t, body))
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
		assert.Equal(t, map[string]string{
			"state":   "success",
			"url":     site.Defaults().Contact.DeepLink.URL(testsupport.ValidContactMessage),
			"message": submission.SuccessMessage,
		}, payload)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(c, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPost_UsesConfiguredTarget(t *testing.T) {
	cfg := site.Defaults()
	cfg.Contact.DeepLink.Recipient = "919876543210"
	cfg.Contact.Greeting = "Hello!"
	c, _ := newComponent(t, WithSiteConfig(cfg))

	rec := serve(c, formRequest(testsupport.ValidContact()))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	text := strings.Replace(testsupport.ValidContactMessage, "Hi NEXORA DIGITAL!", "Hello!", 1)
	assert.Equal(t, "https://wa.me/919876543210?text="+submission.EncodeComponent(text), rec.Header().Get("Location"))
}

func TestPost_ReloadedSiteReachesLiveSessions(t *testing.T) {
	var mu sync.Mutex
	current := site.Defaults()
	c, _ := newComponent(t, WithSite(func() *site.Config {
		mu.Lock()
		defer mu.Unlock()
		return current
	}))

	cookie := openSession(t, c)

	next := site.Defaults()
	next.Contact.DeepLink.Recipient = "919876543210"
	mu.Lock()
	current = next
	mu.Unlock()

	rec := serve(c, formRequest(testsupport.ValidContact(), cookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, next.Contact.DeepLink.URL(testsupport.ValidContactMessage), rec.Header().Get("Location"))
}

func TestPost_OversizedBody(t *testing.T) {
	c, _ := newComponent(t)

	form := url.Values{"message": {strings.Repeat("x", maxBodyBytes)}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(c, req).Code)

	raw := `{"message":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	jsonReq := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(raw))
	jsonReq.Header.Set("Content-Type", "application/json")
	rec := serve(c, jsonReq)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, c.Sessions())
}

func TestPost_DispatchFailureKeepsInput(t *testing.T) {
	failing := submission.OpenerFunc(func(context.Context, string) error { return errors.New("unreachable") })
	c, _ := newComponent(t, WithHandlerOptions(submission.WithOpener(failing)))

	rec := serve(c, formRequest(testsupport.ValidContact()))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="email" value="a@b.com"`)
	assert.Contains(t, body, `data-form-state="idle"`)
}

func TestSessions_ExpireAfterIdleTTL(t *testing.T) {
	c, clock := newComponent(t, WithSessionTTL(time.Minute))

	cookie := openSession(t, c)

	clock.Advance(30 * time.Second)
	assert.Zero(t, c.Sweep())
	assert.Equal(t, 1, c.Sessions())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Zero(t, c.Sessions())

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(cookie)
	rec := serve(c, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.NotContains(t, rec.Body.String(), cookie.Value)

	renewed := openSession(t, c, cookie)
	assert.NotEqual(t, cookie.Value, renewed.Value)
}

func TestSessions_ExpiredOnAccess(t *testing.T) {
	c, clock := newComponent(t, WithSessionTTL(time.Minute))

	cookie := openSession(t, c)
	clock.Advance(time.Hour)

	renewed := openSession(t, c, cookie)
	assert.NotEqual(t, cookie.Value, renewed.Value)
	assert.Equal(t, 1, c.Sessions())
}

func TestSessions_Capped(t *testing.T) {
	c, clock := newComponent(t, WithMaxSessions(2), WithSessionTTL(time.Minute))

	first := openSession(t, c)
	openSession(t, c)

	rec := serve(c, formRequest(map[string]string{"name": "A"}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 2, c.Sessions())

	again := serve(c, formRequest(map[string]string{"name": "A"}, first))
	assert.Equal(t, http.StatusUnprocessableEntity, again.Code, "existing sessions keep working at the cap")

	clock.Advance(2 * time.Minute)
	openSession(t, c)
	assert.Equal(t, 1, c.Sessions(), "expired sessions are swept to make room")
}

func TestRun_StopsWithContext(t *testing.T) {
	c, _ := newComponent(t, WithSweepInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestClose_RefusesLaterRequests(t *testing.T) {
	c, _ := newComponent(t)
	openSession(t, c)
	require.NoError(t, c.Close())
	assert.Zero(t, c.Sessions())

	rec := serve(c, httptest.NewRequest(http.MethodGet, "/contact", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, c.Close())
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	c, _ := newComponent(t)
	rec := serve(c, httptest.NewRequest(http.MethodDelete, "/contact", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD, POST", rec.Header().Get("Allow"))
}

func TestHandler_GuardRejects(t *testing.T) {
	c, _ := newComponent(t, WithGuard(func(*http.Request) error {
		return StatusError{Code: http.StatusTooManyRequests}
	}))
	rec := serve(c, formRequest(testsupport.ValidContact()))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Zero(t, c.Sessions())
}
