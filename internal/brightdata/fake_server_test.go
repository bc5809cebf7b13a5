package brightdata

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeAPI is an in-process stand-in for the dataset API. Status bodies are served in
// order; the last one repeats once the list is exhausted.
type fakeAPI struct {
	mu sync.Mutex

	triggerStatus int
	triggerBody   string
	statusBodies  []string
	downloadCode  int
	downloadBody  string

	triggerCalls  int
	statusCalls   int
	downloadCalls int
	lastAuth      string
	lastDataset   string
	lastPayload   string
	events        []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		triggerStatus: http.StatusOK,
		triggerBody:   `{"snapshot_id":"snap_123"}`,
		statusBodies:  []string{`{"status":"ready"}`},
		downloadCode:  http.StatusOK,
		downloadBody:  `[{"job_title":"Software Engineer"}]`,
	}
}

func (f *fakeAPI) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(server.Close)
	return server
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastAuth = r.Header.Get("Authorization")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/trigger":
		f.triggerCalls++
		f.events = append(f.events, "trigger")
		f.lastDataset = r.URL.Query().Get("dataset_id")
		body, _ := io.ReadAll(r.Body)
		f.lastPayload = string(body)
		w.WriteHeader(f.triggerStatus)
		_, _ = w.Write([]byte(f.triggerBody))

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/snapshot/"):
		if r.URL.Query().Get("format") == "json" {
			f.downloadCalls++
			f.events = append(f.events, "download")
			w.WriteHeader(f.downloadCode)
			_, _ = w.Write([]byte(f.downloadBody))
			return
		}
		f.statusCalls++
		f.events = append(f.events, "status")
		idx := f.statusCalls - 1
		if idx >= len(f.statusBodies) {
			idx = len(f.statusBodies) - 1
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(f.statusBodies[idx]))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) counts() (trigger, status, download int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.triggerCalls, f.statusCalls, f.downloadCalls
}

func newTestClient(server *httptest.Server) *Client {
	return NewClient(Options{BaseURL: server.URL, APIToken: "fake_token"})
}

type recordedRequest struct {
	auth    string
	dataset string
	payload string
	events  []string
}

func (f *fakeAPI) recorded() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return recordedRequest{
		auth:    f.lastAuth,
		dataset: f.lastDataset,
		payload: f.lastPayload,
		events:  append([]string(nil), f.events...),
	}
}
