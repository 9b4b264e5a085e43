package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/config"
	"dummy-data-api/internal/interfaces/http/dto"
	"dummy-data-api/internal/interfaces/http/handler"
	"dummy-data-api/internal/interfaces/http/web"
	apperrors "dummy-data-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStreamer struct {
	mu     sync.Mutex
	chunks []string
	err    error
	inputs []*datagen.GenerateInput
}

func (f *fakeStreamer) Generate(ctx context.Context, in *datagen.GenerateInput, onChunk func(string)) error {
	if err := datagen.ValidatePrompt(in.Prompt); err != nil {
		return err
	}
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	chunks, err := f.chunks, f.err
	f.mu.Unlock()

	for _, c := range chunks {
		onChunk(c)
	}
	return err
}

func (f *fakeStreamer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

func newTestServer(t *testing.T, gen datagen.Streamer) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "dummy-data-api"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"

	tpl, err := web.ParseTemplates()
	require.NoError(t, err)

	store := datagen.NewSessionStore(time.Minute)
	r := New(cfg, &Handlers{
		Health:  handler.NewHealthHandler("test", nil),
		Page:    handler.NewPageHandler(tpl, 100),
		Datagen: handler.NewDatagenHandler(gen, 100),
		Session: handler.NewSessionHandler(store, gen, 100),
		WS:      handler.NewWSHandler(gen),
	}, nil)

	srv := httptest.NewServer(r.Engine())
	t.Cleanup(srv.Close)
	return srv
}

type sseEvent struct {
	Name string
	Data map[string]any
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()

	var events []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &ev.Data))
			}
		}
		events = append(events, ev)
	}
	return events
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func decodeError(t *testing.T, body string) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestGenerate_StreamsSSE(t *testing.T) {
	gen := &fakeStreamer{chunks: []string{"a", "b", "c"}}
	srv := newTestServer(t, gen)

	resp := postJSON(t, srv.URL+"/v1/generate", dto.GenerateRequest{
		Prompt:        "5 users",
		Format:        "json",
		DateFormat:    "YYYY-MM-DD",
		DecimalPlaces: "2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	events := parseSSE(t, readBody(t, resp))
	require.Len(t, events, 4)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, "content", events[i].Name)
		assert.Equal(t, want, events[i].Data["chunk"])
		assert.Equal(t, float64(i), events[i].Data["index"])
	}
	assert.Equal(t, "done", events[3].Name)
	assert.Equal(t, float64(3), events[3].Data["length"])

	require.Equal(t, 1, gen.calls())
	assert.Equal(t, "JSON", string(gen.inputs[0].Format))
	assert.Equal(t, "2", string(gen.inputs[0].Options.DecimalPlaces))
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	gen := &fakeStreamer{
		chunks: []string{"a"},
		err:    apperrors.ErrLLMCallFailed.WithError(errors.New("503 from upstream")),
	}
	srv := newTestServer(t, gen)

	resp := postJSON(t, srv.URL+"/v1/generate", dto.GenerateRequest{Prompt: "x"})
	events := parseSSE(t, readBody(t, resp))

	require.Len(t, events, 2)
	assert.Equal(t, "content", events[0].Name)
	assert.Equal(t, "error", events[1].Name)
	assert.Equal(t, "Failed to generate data. Please try again.", events[1].Data["message"])
}

func TestGenerate_Validation(t *testing.T) {
	gen := &fakeStreamer{chunks: []string{"never"}}
	srv := newTestServer(t, gen)

	cases := []struct {
		name string
		req  dto.GenerateRequest
		code string
	}{
		{"empty prompt", dto.GenerateRequest{Prompt: "  "}, "4002"},
		{"unknown format", dto.GenerateRequest{Prompt: "x", Format: "yaml"}, "1001"},
		{"decimals out of range", dto.GenerateRequest{Prompt: "x", DecimalPlaces: "7"}, "1001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/v1/generate", tc.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, readBody(t, resp)).Error.ErrorCode)
		})
	}

	resp := postJSON(t, srv.URL+"/v1/generate", dto.GenerateRequest{Prompt: ""})
	assert.Equal(t, "Please enter a description of the data you want to generate.", decodeError(t, readBody(t, resp)).Message)
	assert.Equal(t, 0, gen.calls())
}

func TestExport(t *testing.T) {
	srv := newTestServer(t, &fakeStreamer{})

	resp := postJSON(t, srv.URL+"/v1/export", dto.ExportRequest{Content: "id,name\n1,Ann", Format: "CSV"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="dummy-data.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "id,name\n1,Ann", readBody(t, resp))

	resp = postJSON(t, srv.URL+"/v1/export", dto.ExportRequest{Content: "", Format: "XML"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))

	resp = postJSON(t, srv.URL+"/v1/export", dto.ExportRequest{Content: "x", Format: "yaml"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	readBody(t, resp)
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/sessions", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.Response[dto.SessionResponse]
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &body))
	require.NotEmpty(t, body.Data.ID)
	assert.False(t, body.Data.CanCopy)
	return body.Data.ID
}

func getSession(t *testing.T, srv *httptest.Server, sid string) dto.SessionResponse {
	t.Helper()
	resp, err := http.Get(srv.URL + "/v1/sessions/" + sid)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.Response[dto.SessionResponse]
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &body))
	return body.Data
}

func TestSession_Lifecycle(t *testing.T) {
	gen := &fakeStreamer{chunks: []string{`{"a"`, `:1}`}}
	srv := newTestServer(t, gen)
	sid := createSession(t, srv)

	// 空会话不可复制、不可下载
	resp, err := http.Get(srv.URL + "/v1/sessions/" + sid + "/download")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	readBody(t, resp)

	resp = postJSON(t, srv.URL+"/v1/sessions/"+sid+"/generate", dto.GenerateRequest{
		Prompt:        "5 users",
		Format:        "JSON",
		DateFormat:    "ISO 8601",
		DecimalPlaces: "default",
	})
	events := parseSSE(t, readBody(t, resp))
	require.Len(t, events, 3)
	assert.Equal(t, "done", events[2].Name)

	st := getSession(t, srv, sid)
	assert.Equal(t, `{"a":1}`, st.Preview.Text)
	assert.Equal(t, 7, st.Length)
	assert.Empty(t, st.Error)
	assert.False(t, st.Loading)
	assert.True(t, st.CanCopy)
	assert.True(t, st.CanDownload)

	resp, err = http.Get(srv.URL + "/v1/sessions/" + sid + "/download")
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="dummy-data.json"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, `{"a":1}`, readBody(t, resp))

	resp, err = http.Get(srv.URL + "/v1/sessions/" + sid + "/clipboard")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"a":1}`, readBody(t, resp))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/sessions/"+sid, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	readBody(t, resp)

	resp, err = http.Get(srv.URL + "/v1/sessions/" + sid)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "3005", decodeError(t, readBody(t, resp)).Error.ErrorCode)
}

func TestSession_EmptyPromptRecordsValidation(t *testing.T) {
	gen := &fakeStreamer{chunks: []string{"never"}}
	srv := newTestServer(t, gen)
	sid := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/v1/sessions/"+sid+"/generate", dto.GenerateRequest{Prompt: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "4002", decodeError(t, readBody(t, resp)).Error.ErrorCode)

	st := getSession(t, srv, sid)
	assert.Equal(t, "Please enter a description of the data you want to generate.", st.Error)
	assert.Equal(t, 0, gen.calls())
}

func TestSession_UpstreamFailureRecordsMessage(t *testing.T) {
	gen := &fakeStreamer{err: apperrors.ErrLLMCallFailed.WithError(errors.New("timeout"))}
	srv := newTestServer(t, gen)
	sid := createSession(t, srv)

	resp := postJSON(t, srv.URL+"/v1/sessions/"+sid+"/generate", dto.GenerateRequest{Prompt: "x"})
	events := parseSSE(t, readBody(t, resp))
	require.Len(t, events, 1)
	assert.Equal(t, "error", events[0].Name)

	st := getSession(t, srv, sid)
	assert.Equal(t, "Failed to generate data. Please try again.", st.Error)
	assert.False(t, st.CanDownload)
}

func TestSession_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeStreamer{})

	resp := postJSON(t, srv.URL+"/v1/sessions/missing/generate", dto.GenerateRequest{Prompt: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	readBody(t, resp)
}

func TestGenerateWS(t *testing.T) {
	gen := &fakeStreamer{chunks: []string{"<a/>", "<b/>"}}
	srv := newTestServer(t, gen)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/generate/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(dto.GenerateRequest{Prompt: "orders", Format: "xml"}))

	var frames []dto.WSFrame
	for {
		var f dto.WSFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Type != "content" {
			break
		}
	}

	require.Len(t, frames, 3)
	assert.Equal(t, "<a/>", frames[0].Chunk)
	assert.Equal(t, 1, frames[1].Index)
	assert.Equal(t, "done", frames[2].Type)
	assert.Equal(t, 8, frames[2].Length)
}

func TestGenerateWS_EmptyPrompt(t *testing.T) {
	srv := newTestServer(t, &fakeStreamer{})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/generate/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(dto.GenerateRequest{Prompt: " "}))

	var f dto.WSFrame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "Please enter a description of the data you want to generate.", f.Message)
}

func TestStaticAndMetaRoutes(t *testing.T) {
	srv := newTestServer(t, &fakeStreamer{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Dummy Data Generator")
	assert.Contains(t, page, "Unix Timestamp (ms)")

	resp, err = http.Get(srv.URL + "/static/app.js")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	readBody(t, resp)

	resp, err = http.Get(srv.URL + "/v1/options")
	require.NoError(t, err)
	var opts dto.Response[dto.OptionsResponse]
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &opts))
	assert.Len(t, opts.Data.Formats, 4)
	assert.Len(t, opts.Data.DateFormats, 5)
	assert.Len(t, opts.Data.DecimalPlaces, 6)
	assert.Equal(t, 100, opts.Data.PreviewLines)

	resp, err = http.Get(srv.URL + "/v1/examples")
	require.NoError(t, err)
	var examples dto.Response[[]datagen.Example]
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &examples))
	assert.NotEmpty(t, examples.Data)

	for _, path := range []string{"/health", "/ready", "/live"} {
		resp, err = http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		readBody(t, resp)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "dummy_data_session_active")
}
