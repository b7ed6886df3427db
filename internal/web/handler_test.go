package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback-console/internal/backend"
	"feedback-console/internal/console"
	"feedback-console/internal/journal"
	"feedback-console/internal/render"
)

var sessionIDPattern = regexp.MustCompile(`data-session-id="([^"]+)"`)

type consoleFixture struct {
	server  *httptest.Server
	hub     *Hub
	journal *journal.MemoryRepo
	queries chan url.Values
}

func newConsoleFixture(t *testing.T) *consoleFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	queries := make(chan url.Values, 16)
	analysis := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/analyze":
			_, _ = w.Write([]byte(`{"sentiment":"negative","category":"bug","priority_score":5,"keywords":["crash","login"],"root_cause":"rc","recommendation":"rec","summary":"sum"}`))
		case "/api/query":
			queries <- r.URL.Query()
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(analysis.Close)

	client, err := backend.NewClient(analysis.URL, 5*time.Second)
	require.NoError(t, err)
	renderer, err := render.New(time.UTC)
	require.NoError(t, err)
	repo := journal.NewMemoryRepo(0)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(ctx, func(view console.View) console.Deps {
		return console.Deps{
			Backend:      client,
			Renderer:     renderer,
			Journal:      repo,
			RefreshDelay: 10 * time.Millisecond,
		}
	}, HubOptions{})
	t.Cleanup(hub.Close)

	handler, err := NewHandler(hub)
	require.NoError(t, err)
	router := gin.New()
	handler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &consoleFixture{server: server, hub: hub, journal: repo, queries: queries}
}

func (f *consoleFixture) openPage(t *testing.T) string {
	t.Helper()
	resp, err := http.Get(f.server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteString("\n")
	}
	match := sessionIDPattern.FindStringSubmatch(body.String())
	require.Len(t, match, 2, "session id missing from page")
	assert.Contains(t, body.String(), `id="historyTable"`)
	return match[1]
}

// streamPatches opens the session's event stream and forwards decoded patches.
func (f *consoleFixture) streamPatches(t *testing.T, sessionID string) <-chan Patch {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.server.URL+"/sessions/"+sessionID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	out := make(chan Patch, 64)
	go func() {
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		event := ""
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:") && event == "patch":
				var p Patch
				if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &p); err == nil {
					out <- p
				}
			}
		}
	}()
	return out
}

func waitForPatch(t *testing.T, patches <-chan Patch, match func(Patch) bool) Patch {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case p := <-patches:
			if match(p) {
				return p
			}
		case <-deadline:
			t.Fatalf("timed out waiting for patch")
			return Patch{}
		}
	}
}

func (f *consoleFixture) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(f.server.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestIndexCreatesSession(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, f.hub.Len())
}

func TestStreamLoadsHistoryOnAttach(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	patches := f.streamPatches(t, id)

	loading := waitForPatch(t, patches, func(p Patch) bool { return p.Target == TargetHistory })
	assert.Contains(t, loading.HTML, "Loading feedback history")
	empty := waitForPatch(t, patches, func(p Patch) bool { return p.Target == TargetHistory })
	assert.Contains(t, empty.HTML, "No feedback found")

	select {
	case q := <-f.queries:
		assert.Equal(t, "20", q.Get("limit"))
		assert.False(t, q.Has("sentiment"))
	case <-time.After(time.Second):
		t.Fatalf("expected a history query")
	}
}

func TestSubmitStreamsResultAndClearsInput(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	patches := f.streamPatches(t, id)
	waitForPatch(t, patches, func(p Patch) bool {
		return p.Target == TargetHistory && strings.Contains(p.HTML, "No feedback found")
	})

	resp := f.postForm(t, "/sessions/"+id+"/submit", url.Values{"feedback": {"App crashes on login"}})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	waitForPatch(t, patches, func(p Patch) bool { return p.Op == OpDisable && p.Target == TargetTrigger })
	result := waitForPatch(t, patches, func(p Patch) bool { return p.Op == OpHTML && p.Target == TargetResult })
	assert.Contains(t, result.HTML, "5/5")
	waitForPatch(t, patches, func(p Patch) bool { return p.Op == OpValue && p.Target == TargetInput })
	waitForPatch(t, patches, func(p Patch) bool {
		return p.Target == TargetHistory && strings.Contains(p.HTML, "No feedback found")
	})

	entries, err := f.journal.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].SessionID)
}

func TestSubmitWhitespaceShowsErrorText(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	patches := f.streamPatches(t, id)

	resp := f.postForm(t, "/sessions/"+id+"/submit", url.Values{"feedback": {"   "}})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	p := waitForPatch(t, patches, func(p Patch) bool { return p.Op == OpText && p.Target == TargetError })
	assert.Equal(t, "Please enter feedback text", p.Text)
	assert.Empty(t, p.HTML)
}

func TestFiltersUpdateQuery(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)

	resp := f.postForm(t, "/sessions/"+id+"/filters", url.Values{"field": {"sentiment"}, "value": {"negative"}})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case q := <-f.queries:
		assert.Equal(t, "negative", q.Get("sentiment"))
		assert.Equal(t, "20", q.Get("limit"))
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a history query")
	}

	snap, err := f.hub.Snapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "negative", snap.Sentiment)
}

func TestFiltersRejectUnknownField(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	resp := f.postForm(t, "/sessions/"+id+"/filters", url.Values{"field": {"priority"}, "value": {"5"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownSessionReturns404(t *testing.T) {
	f := newConsoleFixture(t)
	for _, path := range []string{"/sessions/nope/submit", "/sessions/nope/refresh"} {
		resp := f.postForm(t, path, url.Values{"feedback": {"x"}})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	resp, err := http.Get(f.server.URL + "/sessions/nope/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDispatchErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	tests := []struct {
		err  error
		want int
	}{
		{err: ErrSessionNotFound, want: http.StatusNotFound},
		{err: console.ErrClosed, want: http.StatusNotFound},
		{err: console.ErrQueueFull, want: http.StatusServiceUnavailable},
		{err: context.DeadlineExceeded, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/sessions/x/submit", nil)
		h.dispatchError(c, tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
		if tt.want == http.StatusServiceUnavailable {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		}
	}
}

func TestStaticAssetsServed(t *testing.T) {
	f := newConsoleFixture(t)
	resp, err := http.Get(f.server.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHubCloseEndsStreamsForShutdown(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	patches := f.streamPatches(t, id)
	waitForPatch(t, patches, func(p Patch) bool { return p.Target == TargetHistory })

	f.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, f.server.Config.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)
}

func TestReattachRestoresTriggerState(t *testing.T) {
	f := newConsoleFixture(t)
	id := f.openPage(t)
	patches := f.streamPatches(t, id)

	p := waitForPatch(t, patches, func(p Patch) bool { return p.Target == TargetTrigger })
	assert.Equal(t, OpEnable, p.Op)
}
