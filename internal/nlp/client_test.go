package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/config"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

var (
	_ service.Classifier = (*Client)(nil)
	_ service.Admin      = (*Client)(nil)
)

func newTestClient(url string) *Client {
	return New(config.NLPConfig{
		BaseURL:    url,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	})
}

func TestHealth_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    service.HealthStatus
	}{
		{
			name: "healthy",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"healthy","version":"3.1"}`))
			},
			want: service.StatusHealthy,
		},
		{
			name: "degraded status string",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
			},
			want: service.StatusUnhealthy,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: service.StatusUnhealthy,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			want: service.StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient(server.URL)
			assert.Equal(t, tt.want, client.Health(context.Background()))
		})
	}
}

func TestHealth_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := newTestClient(server.URL)
	assert.Equal(t, service.StatusUnreachable, client.Health(context.Background()))
}

func TestAnalyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/analyze", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{
			"crisis_level": "high",
			"confidence_score": 0.91,
			"crisis_score": 0.84,
			"processing_time_ms": 123.0,
			"method": "three_model_ensemble"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Analyze(context.Background(), "message", "user", "channel")
	require.NoError(t, err)

	assert.Equal(t, model.LevelHigh, result.Level)
	assert.InDelta(t, 0.91, result.Confidence, 1e-9)
	assert.InDelta(t, 0.84, result.CrisisScore, 1e-9)
	assert.Equal(t, "three_model_ensemble", result.Method)
	assert.Equal(t, 123*time.Millisecond, result.Latency)
}

func TestAnalyze_CrisisScoreFallsBackToConfidence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"crisis_level":"medium","confidence_score":0.66}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Analyze(context.Background(), "message", "user", "channel")
	require.NoError(t, err)

	assert.Equal(t, model.LevelMedium, result.Level)
	assert.InDelta(t, 0.66, result.CrisisScore, 1e-9)
}

func TestAnalyze_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"crisis_level":"none","confidence_score":0.2}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Analyze(context.Background(), "message", "user", "channel")
	require.NoError(t, err)

	assert.Equal(t, model.LevelNone, result.Level)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnalyze_ExhaustedRetriesReturnError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), "message", "user", "channel")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnalyze_UnknownLevelIsProtocolError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"crisis_level":"catastrophic","confidence_score":0.9}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Analyze(context.Background(), "message", "user", "channel")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrProtocol))
}

func TestApplyWeights_SendsQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ensemble/set-weights", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"weights":{"depression":0.55}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ok := client.ApplyWeights(context.Background(), model.EnsembleWeights{
		Depression: 0.55, Sentiment: 0.15, Distress: 0.30,
	}, "weighted_average")

	require.True(t, ok)
	assert.Equal(t, "0.5500", gotQuery["depression_weight"][0])
	assert.Equal(t, "0.1500", gotQuery["sentiment_weight"][0])
	assert.Equal(t, "0.3000", gotQuery["distress_weight"][0])
	assert.Equal(t, "weighted_average", gotQuery["ensemble_mode"][0])
}

func TestApplyWeights_FailureReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.False(t, client.ApplyWeights(context.Background(), model.EnsembleWeights{}, "weighted_average"))
}

func TestListLabelSets_BothResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "structured sets",
			body: `{"sets":[{"name":"default"},{"name":"enhanced_v2"}]}`,
			want: []string{"default", "enhanced_v2"},
		},
		{
			name: "legacy available_sets",
			body: `{"available_sets":["default","minimal"]}`,
			want: []string{"default", "minimal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/admin/labels/list", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			sets, err := client.ListLabelSets(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sets)
		})
	}
}

func TestCurrentLabelSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/labels/current", r.URL.Path)
		_, _ = w.Write([]byte(`{"current_set":"default"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	current, err := client.CurrentLabelSet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default", current)
}

func TestCurrentLabelSet_EmptyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CurrentLabelSet(context.Background())
	require.Error(t, err)
}

func TestSwitchLabelSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/labels/switch", r.URL.Path)
		var req switchLabelsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.LabelSet == "enhanced_v2" {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error":"unknown label set"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.True(t, client.SwitchLabelSet(context.Background(), "enhanced_v2"))
	assert.False(t, client.SwitchLabelSet(context.Background(), "nope"))
}

func TestAdminURLFallsBackToBaseURL(t *testing.T) {
	client := New(config.NLPConfig{BaseURL: "http://nlp:8881"})
	assert.Equal(t, "http://nlp:8881", client.adminURL)
}
