package gradio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp returns an httptest server that behaves like a Gradio app with a
// single "predict" route echoing its inputs through the given transform.
func newTestApp(t *testing.T, transform func(args []interface{}) interface{}) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version": "5.0.0"}`))
	})

	var lastArgs []interface{}
	mux.HandleFunc("/gradio_api/call/predict", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Data []interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		lastArgs = body.Data
		_, _ = w.Write([]byte(`{"event_id": "ev-123"}`))
	})
	mux.HandleFunc("/gradio_api/call/predict/ev-123", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		out, err := json.Marshal([]interface{}{transform(lastArgs)})
		require.NoError(t, err)
		fmt.Fprintf(w, "event: heartbeat\ndata: null\n\n")
		fmt.Fprintf(w, "event: complete\ndata: %s\n\n", out)
	})

	return httptest.NewServer(mux)
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		expected string
		wantErr  bool
	}{
		{name: "full url", endpoint: "https://example.com/app/", expected: "https://example.com/app"},
		{name: "http url", endpoint: "http://localhost:7860", expected: "http://localhost:7860"},
		{name: "space id", endpoint: "KMayanja/testTranslate", expected: "https://kmayanja-testtranslate.hf.space"},
		{name: "space id with dots", endpoint: "owner/my.space_v2", expected: "https://owner-my-space-v2.hf.space"},
		{name: "empty", endpoint: "", wantErr: true},
		{name: "too many segments", endpoint: "a/b/c", wantErr: true},
		{name: "missing owner", endpoint: "/space", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ResolveEndpoint(tt.endpoint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resolved)
		})
	}
}

func TestNew_VerifiesConfig(t *testing.T) {
	srv := newTestApp(t, func(args []interface{}) interface{} { return args })
	defer srv.Close()

	client, err := New(context.Background(), Config{Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, srv.URL, client.Root())
}

func TestNew_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(context.Background(), Config{Endpoint: url})
	assert.Error(t, err)
}

func TestNew_ConfigRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(context.Background(), Config{Endpoint: srv.URL, Token: "bad-token"})
	assert.ErrorContains(t, err, "401")
}

func TestPredict_ReturnsOutputs(t *testing.T) {
	srv := newTestApp(t, func(args []interface{}) interface{} {
		return fmt.Sprintf("translated(%v)", args[0])
	})
	defer srv.Close()

	client, err := New(context.Background(), Config{Endpoint: srv.URL})
	require.NoError(t, err)

	outputs, err := client.Predict(context.Background(), "/predict", "hello", "en", "fr")
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "translated(hello)", outputs[0])
}

func TestPredict_SendsBearerToken(t *testing.T) {
	var sawAuth bool
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") == "Bearer hf_secret"
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(context.Background(), Config{Endpoint: srv.URL, Token: "hf_secret"})
	require.NoError(t, err)
	assert.True(t, sawAuth)
}

func TestPredict_UpstreamErrorEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/gradio_api/call/predict", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"event_id": "ev-err"}`))
	})
	mux.HandleFunc("/gradio_api/call/predict/ev-err", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "event: error\ndata: \"model exploded\"\n\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(context.Background(), Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), "/predict", "hello")
	assert.ErrorContains(t, err, "model exploded")
}

func TestPredict_MultiLineDataPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/gradio_api/call/predict", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"event_id": "ev-multi"}`))
	})
	mux.HandleFunc("/gradio_api/call/predict/ev-multi", func(w http.ResponseWriter, _ *http.Request) {
		// Consecutive data fields in one message join with newlines, which
		// must still parse as a single JSON payload
		fmt.Fprintf(w, "event: complete\ndata: [\ndata: \"hola\"]\n\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(context.Background(), Config{Endpoint: srv.URL})
	require.NoError(t, err)

	outputs, err := client.Predict(context.Background(), "/predict", "hello")
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "hola", outputs[0])
}

func TestPredict_StreamWithoutTerminalEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/config", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/gradio_api/call/predict", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"event_id": "ev-hang"}`))
	})
	mux.HandleFunc("/gradio_api/call/predict/ev-hang", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "event: heartbeat\ndata: null\n\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(context.Background(), Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), "/predict", "hello")
	assert.ErrorContains(t, err, "without a terminal event")
}

func TestPredict_EmptyAPIName(t *testing.T) {
	srv := newTestApp(t, func(args []interface{}) interface{} { return args })
	defer srv.Close()

	client, err := New(context.Background(), Config{Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), "/")
	assert.Error(t, err)
}
