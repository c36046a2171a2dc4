package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/ml/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	raw, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestClientPredictOutbreak(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ml/predict/outbreak", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req OutbreakRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Cases, 1)
		assert.Equal(t, "parvovirus", req.Cases[0].DiseaseName)

		w.Write([]byte(`{"risk":"high"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	raw, err := client.PredictOutbreak(context.Background(), &OutbreakRequest{
		Cases: []OutbreakCase{{DiseaseName: "parvovirus", City: "Nairobi", CaseCount: 12}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"risk":"high"}`, string(raw))
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	_, err := client.Health(context.Background())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClientNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	_, err := client.Health(context.Background())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // no listener behind the URL anymore

	client := NewClient(srv.URL, 1)
	_, err := client.Health(context.Background())
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestClientForwards4xxBody(t *testing.T) {
	// Client-side errors from the analytics service pass through untouched;
	// only 5xx and transport failures map to ErrServiceUnavailable.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"not enough history"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	raw, err := client.SalesForecast(context.Background(), &ForecastRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"not enough history"}`, string(raw))
}
