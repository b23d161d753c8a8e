package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pingcap-incubator/tinytpcc/bench/measurement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	req, err := http.NewRequest("GET", path, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatusRouter(t *testing.T) {
	measure := measurement.New("plain")
	measure.Measure("payment", 3*time.Millisecond)
	measure.Measure("payment", 5*time.Millisecond)
	router := newStatusRouter(measure)

	rec := get(t, router, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	var all map[string]measurement.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, int64(2), all["payment"].Count)

	rec = get(t, router, "/status/payment")
	assert.Equal(t, http.StatusOK, rec.Code)
	var stats measurement.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Count)
	assert.True(t, stats.Max >= 5000)

	rec = get(t, router, "/status/new_order")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tpcc_delivery_queued")
}
