package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codecoach/internal/config"
	"github.com/abhisek/codecoach/internal/llm"
	"github.com/abhisek/codecoach/internal/server"
	"github.com/abhisek/codecoach/internal/taskparse"
	"github.com/abhisek/codecoach/internal/tutor"
)

func startServer(t *testing.T, provider llm.Provider) *Client {
	t.Helper()
	cfg := &config.Config{
		Addr:           ":0",
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
		MaxUploadBytes: 1 << 20,
		RequestTimeout: 5 * time.Second,
	}
	ts := httptest.NewServer(server.New(cfg, provider, nil))
	t.Cleanup(ts.Close)
	return New(ts.URL+"/", 5*time.Second)
}

func TestClient_Ask(t *testing.T) {
	c := startServer(t, llm.NewMockText(`{"conceptSummary":"Scope","misconceptionCheck":"Shadowing","hints":["Rename"],"nextStepQuestion":"Which x?"}`))

	res, err := c.Ask(context.Background(), tutor.Question{Question: "why is x 0?", Mode: tutor.ModeDebugging})
	require.NoError(t, err)
	assert.Equal(t, "Scope", res.ConceptSummary)
	assert.Equal(t, []string{"Rename"}, res.Hints)
}

func TestClient_APIErrorMessage(t *testing.T) {
	c := startServer(t, nil)

	_, err := c.Ask(context.Background(), tutor.Question{Question: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, tutor.MsgMisconfigured, apiErr.UserMessage())
}

func TestClient_SuggestionsAndFollowups(t *testing.T) {
	c := startServer(t, llm.NewMockText(`["s1","s2"]`, `["f1"]`))
	ctx := context.Background()

	s, err := c.Suggestions(ctx, tutor.StarterRequest{Mode: tutor.ModeCodingHelp})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, s)

	f, err := c.Followups(ctx, tutor.FollowupRequest{SessionID: "abc", Mode: tutor.ModeCodingHelp})
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, f)
}

func TestClient_ParsePDFRejectsNonPDF(t *testing.T) {
	c := startServer(t, nil)

	_, err := c.ParsePDF(context.Background(), "notes.txt", strings.NewReader("hi"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, taskparse.MsgNotPDF, apiErr.UserMessage())
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, time.Second).Ask(context.Background(), tutor.Question{Question: "x"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, MsgTransportError, te.UserMessage())
}

func TestClient_MalformedSuccessIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>"))
	}))
	t.Cleanup(ts.Close)

	_, err := New(ts.URL, time.Second).Suggestions(context.Background(), tutor.StarterRequest{Mode: tutor.ModeTheory})
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestAPIError_UserMessage(t *testing.T) {
	assert.Equal(t, "detail", (&APIError{Message: "msg", Details: "detail"}).UserMessage())
	assert.Equal(t, "msg", (&APIError{Message: "msg"}).UserMessage())
	assert.Equal(t, MsgUnavailable, (&APIError{Status: 502}).UserMessage())
}

func TestLocal(t *testing.T) {
	ctx := context.Background()

	_, err := NewLocal(nil, nil, false).Ask(ctx, tutor.Question{Question: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, tutor.MsgMisconfigured, apiErr.UserMessage())

	l := NewLocal(llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota")}), nil, false)
	_, err = l.Ask(ctx, tutor.Question{Question: "x"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, tutor.MsgTutorUnavailable, apiErr.UserMessage())
	assert.Empty(t, apiErr.Details)

	_, err = l.Suggestions(ctx, tutor.StarterRequest{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	ok := NewLocal(llm.NewMockText("Plain words."), nil, false)
	res, err := ok.Ask(ctx, tutor.Question{Question: "x"})
	require.NoError(t, err)
	assert.Equal(t, tutor.FallbackResult("Plain words."), res)

	_, err = ok.ParsePDF(ctx, "task.pdf", strings.NewReader("junk"))
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, taskparse.MsgPDFFailed, apiErr.UserMessage())
}

func TestLocal_DevelopmentDetails(t *testing.T) {
	l := NewLocal(llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota exceeded")}), nil, true)

	_, err := l.Ask(context.Background(), tutor.Question{Question: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, tutor.MsgTutorUnavailable, apiErr.Message)
	assert.Contains(t, apiErr.Details, "quota exceeded")
	assert.Equal(t, apiErr.Details, apiErr.UserMessage())
}
