package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/ap-prep/internal/domain/entities"
	"github.com/aliskhannn/ap-prep/internal/repository"
	"github.com/aliskhannn/ap-prep/internal/service"
	"github.com/aliskhannn/ap-prep/internal/storage"
)

type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

const testBank = `[
	{"id":"g1","q":"Ohm's law?","choices":["E = IR","P = IE"],"answer":0,"explain":"E equals I times R."},
	{"id":"g2","q":"Unit of power?","choices":["Volt","Watt"],"answer":1,"explain":"Watts."}
]`

func newTestServer(t *testing.T, user, pass string) *httptest.Server {
	t.Helper()

	fsys := fstest.MapFS{
		"general.json":    {Data: []byte(testBank)},
		"airframe.json":   {Data: []byte(testBank)},
		"powerplant.json": {Data: []byte(testBank)},
	}
	banks, err := repository.NewBankRepository(fsys, repository.DefaultSubjects)
	require.NoError(t, err)

	logger := zap.NewNop()
	progress := service.NewProgressService(storage.NewMemoryBlobStore(), logger)
	quiz := service.NewQuizService(banks, storage.NewQuizStorage(), progress, 0, logger)
	quiz.SetShuffler(identityShuffler{})
	circuit, err := service.NewCircuitService(entities.DefaultCircuitLimits(), 2)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Handler:       NewHandler(quiz, progress, circuit, logger),
		Logger:        logger,
		BasicAuthUser: user,
		BasicAuthPass: pass,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRouter_QuizFlow(t *testing.T) {
	srv := newTestServer(t, "", "")

	resp, quiz := do(t, srv, http.MethodPost, "/api/quizzes", `{"slug":"gen-mixed"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := quiz["id"].(string)
	assert.Equal(t, "General", quiz["title"])
	assert.Nil(t, quiz["feedback"])

	resp, quiz = do(t, srv, http.MethodPost, "/api/quizzes/"+id+"/answer", `{"choice":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, quiz["feedback"].(map[string]any)["correct"])

	resp, _ = do(t, srv, http.MethodPost, "/api/quizzes/"+id+"/answer", `{"choice":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/quizzes/"+id+"/answer", `{"choice":7}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "locked answer wins over range check")

	resp, _ = do(t, srv, http.MethodPost, "/api/quizzes/"+id+"/advance", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/quizzes/"+id+"/answer", `{"choice":9}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, quiz = do(t, srv, http.MethodPost, "/api/quizzes/"+id+"/advance", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := quiz["result"].(map[string]any)
	assert.Equal(t, float64(50), result["score"])
	assert.Equal(t, true, result["saved"])

	resp, _ = do(t, srv, http.MethodDelete, "/api/quizzes/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/quizzes/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, progress := do(t, srv, http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scores := progress["scores"].([]any)
	require.Len(t, scores, 1)
	assert.Equal(t, "General", scores[0].(map[string]any)["title"])
	assert.Equal(t, float64(50), scores[0].(map[string]any)["score"])

	resp, _ = do(t, srv, http.MethodDelete, "/api/progress", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, progress = do(t, srv, http.MethodGet, "/api/progress", "")
	assert.Empty(t, progress["scores"])
}

func TestRouter_Errors(t *testing.T) {
	srv := newTestServer(t, "", "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown bank", http.MethodPost, "/api/quizzes", `{"slug":"nope"}`, http.StatusNotFound},
		{"bad body", http.MethodPost, "/api/quizzes", `{`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/quizzes/missing", "", http.StatusNotFound},
		{"missing choice", http.MethodPost, "/api/quizzes/missing/answer", `{}`, http.StatusBadRequest},
		{"circuit out of range", http.MethodGet, "/api/circuit?mode=series&v=500&r1=1&r2=1", "", http.StatusBadRequest},
		{"circuit bad mode", http.MethodGet, "/api/circuit?mode=delta&v=5&r1=1&r2=1", "", http.StatusBadRequest},
		{"circuit not a number", http.MethodGet, "/api/circuit?v=abc&r1=1&r2=1", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRouter_BanksAndCircuit(t *testing.T) {
	srv := newTestServer(t, "", "")

	resp, err := srv.Client().Get(srv.URL + "/api/banks")
	require.NoError(t, err)
	defer resp.Body.Close()

	var banks []bankView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&banks))
	require.Len(t, banks, 4)
	assert.Equal(t, bankView{Slug: service.ExamSlug, Title: service.ExamTitle, Questions: 6}, banks[3])

	resp2, body := do(t, srv, http.MethodGet, "/api/circuit?mode=parallel&v=12&r1=6&r2=6", "")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, "parallel", body["mode"])
	assert.InDelta(t, 3.0, body["rt"], 1e-9)
	assert.InDelta(t, 4.0, body["i"], 1e-9)
	assert.Equal(t, "Parallel Branch Currents", body["label"])
	assert.Equal(t, "3.00", body["formatted"].(map[string]any)["rt"])
}

func TestBasicAuth(t *testing.T) {
	srv := newTestServer(t, "pilot", "secret")

	tests := []struct {
		name       string
		path       string
		user, pass string
		header     string
		status     int
	}{
		{name: "public path", path: "/healthz", status: http.StatusOK},
		{name: "missing header", path: "/api/banks", status: http.StatusUnauthorized},
		{name: "not basic", path: "/api/banks", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "wrong password", path: "/api/banks", user: "pilot", pass: "nope", status: http.StatusForbidden},
		{name: "valid", path: "/api/banks", user: "pilot", pass: "secret", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			require.NoError(t, err)
			if tt.user != "" {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="A&P Prep"`, resp.Header.Get("WWW-Authenticate"))
			}
		})
	}
}

func TestBasicAuth_OwnerScopesProgress(t *testing.T) {
	srv := newTestServer(t, "pilot", "secret")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/quizzes", strings.NewReader(`{"slug":"air-mixed"}`))
	require.NoError(t, err)
	req.SetBasicAuth("pilot", "secret")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var quiz quizView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&quiz))

	// The owner is taken from the credentials, so the session is visible to the same user.
	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/quizzes/"+quiz.ID, nil)
	require.NoError(t, err)
	req.SetBasicAuth("pilot", "secret")

	resp2, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
