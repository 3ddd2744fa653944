package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "/beemine/admin", time.Second, WithHTTPClient(srv.Client()))
}

func TestRequest_SuccessReturnsBody(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"success":true,"data":[1,2]}`))
	})

	raw, err := c.Request(context.Background(), "get_users.php", Options{Body: map[string]any{"token": "t1", "page": 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[1,2]}`, string(raw))
	assert.Equal(t, "/beemine/admin/get_users.php", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "t1", gotBody["token"])
}

func TestRequest_FormBodyKeepsItsContentType(t *testing.T) {
	var gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	_, err := c.Request(context.Background(), "upload.php", Options{Body: Form{
		ContentType: "multipart/form-data; boundary=xyz",
		Body:        strings.NewReader("--xyz--"),
	}})
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data; boundary=xyz", gotContentType)
}

func TestRequest_SuccessFalseWithOKStatusFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"X"}`))
	})

	_, err := c.Request(context.Background(), "check_login.php", Options{Body: map[string]string{"token": "t"}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "X", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "X", err.Error())
}

func TestRequest_OnlyLiteralFalseFails(t *testing.T) {
	for _, marker := range []string{`0`, `"0"`, `"false"`, `null`, `true`} {
		t.Run(marker, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success":` + marker + `,"data":[]}`))
			})

			body, err := c.Request(context.Background(), "get_users.php", Options{Body: map[string]string{"token": "t"}})
			require.NoError(t, err)
			assert.NotEmpty(t, body)
		})
	}
}

func TestRequest_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "with message", body: `{"message":"Invalid token"}`, message: "Invalid token"},
		{name: "without message", body: `{"error":true}`, message: fallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Request(context.Background(), "x.php", Options{})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		})
	}
}

func TestRequest_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.Request(context.Background(), "x.php", Options{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, "empty", Kind(err))
}

func TestRequest_InvalidBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<br><b>Fatal error</b>"))
	})

	_, err := c.Request(context.Background(), "x.php", Options{})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRequest_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	c := NewClient(srv.URL, "", 50*time.Millisecond, WithHTTPClient(srv.Client()))

	_, err := c.Request(context.Background(), "slow.php", Options{})
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "timeout", Kind(err))
}

func TestRequest_CallerCancellationIsNotATimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Request(ctx, "x.php", Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	c := NewClient(url, "", time.Second)

	_, err := c.Request(context.Background(), "x.php", Options{})
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, Message(err), "Could not reach the server")
}

func TestCall_DecodesIntoOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"token":"abc"}`, string(body))
		_, _ = w.Write([]byte(`{"success":true,"data":{"name":"Asha"}}`))
	})

	var out struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, c.Call(context.Background(), "check_login.php", map[string]string{"token": "abc"}, &out))
	assert.Equal(t, "Asha", out.Data.Name)
}

func TestMetrics_CountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "", time.Second, WithHTTPClient(srv.Client()), WithMetrics(m))

	_, _ = c.Request(context.Background(), "x.php", Options{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("x.php", "api")))
}
