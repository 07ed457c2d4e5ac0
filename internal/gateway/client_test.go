package gateway_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamthazard/react-test/internal/access"
	api "github.com/williamthazard/react-test/internal/api/http"
	"github.com/williamthazard/react-test/internal/gateway"
	"github.com/williamthazard/react-test/internal/grading"
	"github.com/williamthazard/react-test/internal/quiz"
	"github.com/williamthazard/react-test/internal/retry"
	"github.com/williamthazard/react-test/internal/service"
	"github.com/williamthazard/react-test/internal/store"
)

type nopSender struct{ sends int32 }

func (n *nopSender) Send(string, string, string) error {
	atomic.AddInt32(&n.sends, 1)
	return nil
}

func newServer(t *testing.T) (*httptest.Server, *nopSender) {
	t.Helper()
	sender := &nopSender{}
	svc := service.New(service.Options{
		Codes:        access.Config{StudentCode: "TEST2026", EditorCode: "EDIT2026"},
		Store:        store.NewMemoryStore(),
		Sender:       sender,
		ResultTo:     "teacher@example.com",
		ContentRetry: retry.Config{Attempts: 5, Delay: time.Millisecond},
		DeliverRetry: retry.Config{Attempts: 3, Delay: time.Millisecond},
	})
	r := chi.NewRouter()
	r.Route("/api", func(ar chi.Router) { api.Routes(ar, svc) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sender
}

func newClient(base string) *gateway.Client {
	return gateway.NewClient(base, gateway.WithRetry(
		retry.Config{Attempts: 5, Delay: time.Millisecond},
		retry.Config{Attempts: 3, Delay: time.Millisecond},
	))
}

func threeQuestionDefinition() *quiz.TestDefinition {
	return &quiz.TestDefinition{
		Questions: []quiz.Question{
			{ID: 1, Type: quiz.TypeMultipleChoice, Prompt: "what renders?",
				ImageURL: "data:image/png;base64,iVBORw0K",
				Options:  []string{"a form", "a table"}, CorrectIndex: 0},
			{ID: 2, Type: quiz.TypeMultipleAnswer, Prompt: "hooks?",
				Options: []string{"useState", "useEffect", "setRender"}, CorrectIndices: []int{0, 1}},
			{ID: 3, Type: quiz.TypeEssay, Prompt: "why keys?"},
		},
	}
}

func TestEditorSaveThenStudentVerifyPreloads(t *testing.T) {
	srv, _ := newServer(t)
	c := newClient(srv.URL)
	ctx := context.Background()

	def := threeQuestionDefinition()
	require.NoError(t, c.SaveQuestions(ctx, "EDIT2026", def))

	// One verify call returns the role and the exact saved 3-question set;
	// no follow-up load is needed.
	res, err := c.Verify(ctx, "test2026 ")
	require.NoError(t, err)
	assert.Equal(t, access.RoleStudent, res.Role)
	assert.Equal(t, def, res.Content)
}

func TestClientRetriesColdServer(t *testing.T) {
	srv, _ := newServer(t)
	var hits int32
	cold := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First two hits behave like a half-booted server: plain text, 500.
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Service starting..."))
			return
		}
		proxyTo(srv.URL, w, r)
	}))
	t.Cleanup(cold.Close)

	res, err := newClient(cold.URL).Verify(context.Background(), "TEST2026")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.NotNil(t, res.Content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClientDoesNotRetryInvalidCode(t *testing.T) {
	srv, _ := newServer(t)
	var hits int32
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		proxyTo(srv.URL, w, r)
	}))
	t.Cleanup(counting.Close)

	_, err := newClient(counting.URL).Verify(context.Background(), "WRONG")
	require.ErrorIs(t, err, access.ErrInvalidCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClientDoesNotRetryUnauthorizedSave(t *testing.T) {
	srv, _ := newServer(t)
	var hits int32
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		proxyTo(srv.URL, w, r)
	}))
	t.Cleanup(counting.Close)

	err := newClient(counting.URL).SaveQuestions(context.Background(), "TEST2026", threeQuestionDefinition())
	require.ErrorIs(t, err, access.ErrUnauthorized)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClientExhaustsBudgetAgainstDeadServer(t *testing.T) {
	var hits int32
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"ok":false,"error":"backing store unreachable"}`))
	}))
	t.Cleanup(dead.Close)

	_, err := newClient(dead.URL).LoadQuestions(context.Background(), "TEST2026")
	require.ErrorIs(t, err, retry.ErrUnreachable)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestClientRetriesMalformedBody(t *testing.T) {
	var hits int32
	garbled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(garbled.Close)

	_, err := newClient(garbled.URL).LoadQuestions(context.Background(), "TEST2026")
	require.ErrorIs(t, err, retry.ErrUnreachable)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}

func TestSubmitDeliversResult(t *testing.T) {
	srv, sender := newServer(t)
	c := newClient(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.SaveQuestions(ctx, "EDIT2026", threeQuestionDefinition()))

	rep, err := c.Submit(ctx, "TEST2026", grading.AnswerSet{
		1: {Text: "a form"},
		2: {Selected: []string{"useEffect", "useState"}},
		3: {Text: "so React can track identity"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Correct)
	assert.Equal(t, 2, rep.Gradable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&sender.sends))
}

// proxyTo forwards the recorded request to the real API server.
func proxyTo(base string, w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, base+r.URL.Path, r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
