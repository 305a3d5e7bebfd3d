package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	c := NewClient(Config{
		BaseURL: srv.URL + "/",
		Token:   "tok",
		Logger:  logger.New(logger.Config{Level: "debug", Writer: &buf}),
	})
	return c, &buf
}

func TestClient_PlainAndEnvelopeBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"plain", `{"id":"a-1","status":"OPEN","comments":[]}`},
		{"envelope", `{"success":true,"data":{"id":"a-1","status":"OPEN","comments":[]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/alerts/a-1", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.Write([]byte(tt.body))
			})

			a, err := c.Alerts().Get(context.Background(), "a-1")
			require.NoError(t, err)
			assert.Equal(t, "a-1", a.ID)
			assert.Equal(t, alert.StatusOpen, a.Status)
		})
	}
}

func TestClient_ResetResponseIsNotAnEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"message":"Data reset"}`))
	})

	resp, err := c.Admin().Reset(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Data reset", resp.Message)
}

func TestClient_ListQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OPEN", r.URL.Query().Get("status"))
		assert.Equal(t, "run-7", r.URL.Query().Get("runId"))
		w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
	})

	alerts, err := c.Alerts().List(context.Background(), &AlertListOptions{Status: alert.StatusOpen, RunID: "run-7"})
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestClient_UpdateStatusRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "OPEN", body["status"])

		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"error":{"code":"INVALID_TRANSITION","message":"invalid status transition IN_PROGRESS -> OPEN","details":{"from":"IN_PROGRESS","to":"OPEN"}}}`))
	})

	_, err := c.Alerts().UpdateStatus(context.Background(), "a-1", alert.StatusOpen)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTransitionRejected, apperrors.CodeOf(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsInvalidTransition())
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "IN_PROGRESS -> OPEN")
}

func TestClient_ServerErrorIsNotRejection(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})

	_, err := c.Alerts().UpdateStatus(context.Background(), "a-1", alert.StatusResolved)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.Equal(t, "upstream exploded", apiErr.Message)
	assert.False(t, apperrors.HasCode(err, apperrors.ErrCodeTransitionRejected))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url})
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeTransportFailure, apperrors.CodeOf(err))

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_LoginSetsToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		w.Write([]byte(`{"token":"fresh","user":{"id":"u-1","displayName":"Admin","role":"admin"}}`))
	})

	resp, err := c.Login(context.Background(), "admin", "pw")
	require.NoError(t, err)
	assert.Equal(t, "fresh", c.GetToken())
	assert.Equal(t, "Admin", resp.User.DisplayName)

	c.Logout()
	assert.Empty(t, c.GetToken())
}

func TestClient_LogsBodyPreview(t *testing.T) {
	long := strings.Repeat("x", 2000)
	c, buf := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"c-1","message":"` + long + `"}`))
	})

	_, err := c.Alerts().AddComment(context.Background(), "a-1", long)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		preview, _ := entry["body_preview"].(string)
		assert.LessOrEqual(t, len(preview), maxPreview+len("…"))
		assert.True(t, strings.HasSuffix(preview, "…"))
	}
	assert.Contains(t, lines[0], "API Request: POST")
	assert.Contains(t, lines[1], "API Response: 200 POST")
}

func TestPreviewValue(t *testing.T) {
	assert.Equal(t, "", previewValue(nil))
	assert.Equal(t, `{"a":1}`, previewValue(map[string]int{"a": 1}))
	assert.Equal(t, "[unserializable]", previewValue(make(chan int)))
}

func TestClient_WaitHealthy(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"success":false,"error":{"code":"UNAVAILABLE","message":"starting"}}`))
		case 2:
			w.Write([]byte(`{"status":"degraded","service":"alertprobe-mockapi"}`))
		default:
			w.Write([]byte(`{"status":"ok","service":"alertprobe-mockapi"}`))
		}
	})

	clock := poller.NewFakeClock(time.Unix(0, 0))
	h, err := c.WaitHealthy(context.Background(), poller.Options{Timeout: time.Minute, Interval: time.Second, Clock: clock})
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 3, calls)

	slept, sleeps := clock.Slept()
	assert.Equal(t, 2*time.Second, slept)
	assert.Equal(t, 2, sleeps)
}

func TestClient_WaitHealthy_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url})
	clock := poller.NewFakeClock(time.Unix(0, 0))
	_, err := c.WaitHealthy(context.Background(), poller.Options{Timeout: 3 * time.Second, Interval: time.Second, Clock: clock})
	require.Error(t, err)
	assert.True(t, poller.IsTimeout(err))

	var te *poller.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 3, te.Attempts)
}

func TestAPIError_Classification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, e *APIError)
	}{
		{
			name:   "validation with field list",
			status: http.StatusBadRequest,
			body:   `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Validation failed","details":[{"field":"message","tag":"notblank"}]}}`,
			check: func(t *testing.T, e *APIError) {
				assert.True(t, e.IsValidationError())
				assert.Equal(t, "Validation failed", e.Message)
				assert.Empty(t, e.Detail("field"))
				assert.IsType(t, []interface{}{}, e.Details)
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"success":false,"error":{"code":"NOT_FOUND","message":"Alert not found"}}`,
			check: func(t *testing.T, e *APIError) {
				assert.True(t, e.IsNotFound())
				assert.False(t, e.IsUnauthorized())
			},
		},
		{
			name:   "unauthorized plain text",
			status: http.StatusUnauthorized,
			body:   "token expired\n",
			check: func(t *testing.T, e *APIError) {
				assert.True(t, e.IsUnauthorized())
				assert.Equal(t, "token expired", e.Message)
			},
		},
		{
			name:   "empty body",
			status: http.StatusBadGateway,
			body:   "",
			check: func(t *testing.T, e *APIError) {
				assert.True(t, e.IsServerError())
				assert.Equal(t, "Bad Gateway", e.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseAPIError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, e.StatusCode)
			tt.check(t, e)
		})
	}
}

func TestClient_ListToleratesNonBooleanFlags(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[
			{"id":"a","status":"OPEN","autoRemediate":"true","policySnapshot":{"autoRemediate":true}},
			{"id":"b","status":"OPEN","auto_remediate":1,"policySnapshot":"n/a","remediation":{"autoRemediate":false}},
			{"id":"c","status":"OPEN","autoRemediate":null}
		]}`))
	})

	alerts, err := c.Alerts().ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Nil(t, alerts[0].AutoRemediate)
	assert.True(t, alerts[0].IsAutoRemediate(), "falls through to the snapshot flag")
	assert.Nil(t, alerts[1].PolicySnapshot)
	assert.False(t, alerts[1].IsAutoRemediate())
	assert.True(t, alerts[2].IsManual())
}
