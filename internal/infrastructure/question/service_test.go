package question

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webvibe/supportdesk/internal/metrics"
)

type recordedRequest struct {
	method      string
	path        string
	contentType string
	body        []byte
}

// newBackend starts an answering service that replies with status and body and
// counts the requests it sees.
func newBackend(t *testing.T, status int, body string) (*httptest.Server, *int32, chan recordedRequest) {
	t.Helper()

	var hits int32
	seen := make(chan recordedRequest, 10)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		data, _ := io.ReadAll(r.Body)
		seen <- recordedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        data,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server, &hits, seen
}

// refusedURL returns an address nothing is listening on.
func refusedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}

func assertShape(t *testing.T, resp Response) {
	t.Helper()
	if resp.Success {
		assert.NotEmpty(t, resp.Answer, "successful response must carry an answer")
		assert.Empty(t, resp.Error, "successful response must not carry an error")
	} else {
		assert.NotEmpty(t, resp.Error, "failed response must carry an error")
		assert.Empty(t, resp.Answer, "failed response must not carry an answer")
	}
}

func TestAskQuestion(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Response
	}{
		{
			name:   "answer is passed through",
			status: http.StatusOK,
			body:   `{"answer":"X"}`,
			want:   Response{Success: true, Answer: "X"},
		},
		{
			name:   "missing answer falls back to placeholder",
			status: http.StatusOK,
			body:   `{}`,
			want:   Response{Success: true, Answer: FallbackAnswer},
		},
		{
			name:   "empty answer falls back to placeholder",
			status: http.StatusOK,
			body:   `{"answer":""}`,
			want:   Response{Success: true, Answer: FallbackAnswer},
		},
		{
			name:   "non-string answer falls back to placeholder",
			status: http.StatusOK,
			body:   `{"answer":42}`,
			want:   Response{Success: true, Answer: FallbackAnswer},
		},
		{
			name:   "null answer falls back to placeholder",
			status: http.StatusOK,
			body:   `{"answer":null}`,
			want:   Response{Success: true, Answer: FallbackAnswer},
		},
		{
			name:   "array body falls back to placeholder",
			status: http.StatusOK,
			body:   `[]`,
			want:   Response{Success: true, Answer: FallbackAnswer},
		},
		{
			name:   "string body falls back to placeholder",
			status: http.StatusOK,
			body:   `"ok"`,
			want:   Response{Success: true, Answer: FallbackAnswer},
		},
		{
			name:   "any 2xx counts as success",
			status: http.StatusAccepted,
			body:   `{"answer":"queued"}`,
			want:   Response{Success: true, Answer: "queued"},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"error":"boom"}`,
			want:   Response{Success: false, Error: "Request failed with status 500"},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   ``,
			want:   Response{Success: false, Error: "Request failed with status 404"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, hits, seen := newBackend(t, tt.status, tt.body)
			svc := NewService(server.URL)

			got := svc.AskQuestion(context.Background(), Request{Message: "m", Category: "c"})

			assert.Equal(t, tt.want, got)
			assertShape(t, got)
			assert.Equal(t, int32(1), atomic.LoadInt32(hits))

			req := <-seen
			assert.Equal(t, http.MethodPost, req.method)
			assert.Equal(t, "/api/question", req.path)
			assert.Equal(t, "application/json", req.contentType)
			assert.JSONEq(t, `{"message":"m","category":"c"}`, string(req.body))
		})
	}
}

func TestAskQuestionMalformedSuccessBody(t *testing.T) {
	server, _, _ := newBackend(t, http.StatusOK, `not json`)
	svc := NewService(server.URL)

	got := svc.AskQuestion(context.Background(), Request{Message: "m", Category: "c"})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "failed to decode response")
	assertShape(t, got)
}

func TestAskQuestionConnectionRefused(t *testing.T) {
	svc := NewService(refusedURL(t))

	var got Response
	assert.NotPanics(t, func() {
		got = svc.AskQuestion(context.Background(), Request{Message: "m", Category: "c"})
	})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "connect")
	assertShape(t, got)
}

func TestAskQuestionDoesNotRetry(t *testing.T) {
	server, hits, _ := newBackend(t, http.StatusServiceUnavailable, ``)
	svc := NewService(server.URL)

	got := svc.AskQuestion(context.Background(), Request{Message: "m", Category: "c"})

	assert.False(t, got.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestAskQuestionDoesNotValidateInput(t *testing.T) {
	server, hits, seen := newBackend(t, http.StatusOK, `{"answer":"ok"}`)
	svc := NewService(server.URL)

	got := svc.AskQuestion(context.Background(), Request{})

	assert.True(t, got.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.JSONEq(t, `{"message":"","category":""}`, string((<-seen).body))
}

func TestAskQuestionTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	svc := NewService(server.URL, WithTimeout(50*time.Millisecond))
	got := svc.AskQuestion(context.Background(), Request{Message: "m", Category: "c"})

	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "deadline exceeded")
}

func TestAskQuestionCancelledContext(t *testing.T) {
	server, _, _ := newBackend(t, http.StatusOK, `{"answer":"late"}`)
	svc := NewService(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := svc.AskQuestion(ctx, Request{Message: "m", Category: "c"})
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "context canceled")
}

func TestAskQuestionRecordsMetrics(t *testing.T) {
	m := metrics.New()

	ok, _, _ := newBackend(t, http.StatusOK, `{"answer":"X"}`)
	failing, _, _ := newBackend(t, http.StatusBadGateway, ``)

	NewService(ok.URL, WithMetrics(m)).AskQuestion(context.Background(), Request{Message: "m", Category: "c"})
	NewService(failing.URL, WithMetrics(m)).AskQuestion(context.Background(), Request{Message: "m", Category: "c"})
	NewService(refusedURL(t), WithMetrics(m)).AskQuestion(context.Background(), Request{Message: "m", Category: "c"})

	count, err := testutil.GatherAndCount(m.Registry(), "question_relay_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestEndpointTrimsTrailingSlash(t *testing.T) {
	svc := NewService("http://localhost:3000/next/")
	assert.Equal(t, "http://localhost:3000/next/api/question", svc.Endpoint())
}

func TestResponseJSONShape(t *testing.T) {
	success, err := json.Marshal(Response{Success: true, Answer: "X"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"answer":"X"}`, string(success))

	failure, err := json.Marshal(Response{Success: false, Error: "Request failed with status 500"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Request failed with status 500"}`, string(failure))
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, Request{Message: "m", Category: "c"}.Validate())
	assert.Error(t, Request{Message: "m"}.Validate())
	assert.Error(t, Request{Category: "c"}.Validate())
	assert.Error(t, Request{}.Validate())
}
