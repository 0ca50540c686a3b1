package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codecoach/internal/config"
	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/store"
	"github.com/abhisek/codecoach/internal/taskparse"
	"github.com/abhisek/codecoach/internal/tutor"
)

func testConfig() *config.Config {
	return &config.Config{
		Addr:           ":0",
		Env:            "production",
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxBodyBytes:   1 << 20,
		MaxUploadBytes: 1 << 20,
		RequestTimeout: 5 * time.Second,
	}
}

func testHistory(t *testing.T) store.ConversationRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.ConversationRepo()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	srv := New(testConfig(), nil, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTutor_Success(t *testing.T) {
	mock := llm.NewMockText(`{"conceptSummary":"Pointers alias memory.","misconceptionCheck":"Copy vs reference.","hints":["Print the address"],"nextStepQuestion":"What changes if you copy?"}`)
	history := testHistory(t)
	srv := New(testConfig(), mock, history)

	rec := post(t, srv, "/api/tutor", `{"question":"why does my slice change?","mode":"coding help","level":"advanced","sessionId":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp tutor.TutorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Pointers alias memory.", resp.Result.ConceptSummary)
	assert.Equal(t, []string{"Print the address"}, resp.Result.Hints)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, req.System, "CODING HELP MODE")
	assert.Contains(t, req.System, "ADVANCED LEVEL")

	msgs, err := history.Recent(t.Context(), "s1", 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestTutor_UnstructuredFallback(t *testing.T) {
	srv := New(testConfig(), llm.NewMockText("Just think about it."), nil)

	rec := post(t, srv, "/api/tutor", `{"question":"help"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tutor.TutorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tutor.FallbackResult("Just think about it."), resp.Result)
}

func TestTutor_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		body     string
		status   int
		message  string
	}{
		{"misconfigured", nil, `{"question":"x"}`, http.StatusInternalServerError, tutor.MsgMisconfigured},
		{"invalid json", llm.NewMockText(), `{`, http.StatusBadRequest, tutor.MsgInvalidJSON},
		{"missing question", llm.NewMockText(), `{"question":"  "}`, http.StatusBadRequest, tutor.MsgMissingQuestion},
		{"provider failure", llm.NewMockText(), `{"question":"x"}`, http.StatusInternalServerError, tutor.MsgTutorUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(testConfig(), tt.provider, nil)
			rec := post(t, srv, "/api/tutor", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.message, body.Error)
			assert.Empty(t, body.Details, "details are hidden outside development")
		})
	}
}

func TestTutor_DetailsInDevelopment(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "development"
	srv := New(cfg, llm.NewMockText(), nil)

	rec := post(t, srv, "/api/tutor", `{"question":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decodeError(t, rec).Details)
}

func TestSuggestions(t *testing.T) {
	srv := New(testConfig(), llm.NewMockText("```json\n[\"a\",\"b\",\"c\",\"d\"]\n```"), nil)

	rec := post(t, srv, "/api/suggestions", `{"mode":"debugging"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp tutor.StarterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b", "c"}, resp.Suggestions)

	rec = post(t, srv, "/api/suggestions", `{"mode":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, tutor.MsgMissingMode, decodeError(t, rec).Error)

	rec = post(t, srv, "/api/suggestions", `{"mode":"theory"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, tutor.MsgSuggestionsFailed, decodeError(t, rec).Error)
}

func TestFollowups(t *testing.T) {
	srv := New(testConfig(), llm.NewMockText(`["one","two"]`), testHistory(t))

	rec := post(t, srv, "/api/followups", `{"sessionId":"s","mode":"theory"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp tutor.FollowupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"one", "two"}, resp.Tips)

	rec = post(t, srv, "/api/followups", `{"mode":"theory"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, tutor.MsgMissingFollowupArgs, decodeError(t, rec).Error)

	rec = post(t, srv, "/api/followups", `{"sessionId":"s","mode":"theory"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, tutor.MsgFollowupsFailed, decodeError(t, rec).Error)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestParsePDF_Validation(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	tests := []struct {
		name     string
		field    string
		filename string
		content  []byte
		status   int
		message  string
	}{
		{"no file", "", "", nil, http.StatusBadRequest, taskparse.MsgNoFile},
		{"not a pdf", "file", "notes.txt", []byte("hello"), http.StatusBadRequest, taskparse.MsgNotPDF},
		{"corrupt pdf", "file", "task.pdf", []byte("garbage"), http.StatusInternalServerError, taskparse.MsgPDFFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.field, tt.filename, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/api/parse-pdf", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Error)
		})
	}
}

func TestCORS(t *testing.T) {
	srv := New(testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/tutor", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/tutor", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
