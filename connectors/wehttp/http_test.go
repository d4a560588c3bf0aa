package wehttp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/we"
)

func post(t *testing.T, handler http.Handler, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return w
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestHandler(t *testing.T) {
	store := memory.NewSlotStore()
	handler := wehttp.NewHandler(counter.CreateCounterService(store))

	t.Run("unwritten resources are not found", func(t *testing.T) {
		w := get(t, handler, "/counter/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("executes calls", func(t *testing.T) {
		w := post(t, handler, "/counter/alpha", `{"method": "update_top_threshold", "args": {"value": 3}}`)
		require.Equal(t, http.StatusOK, w.Code)

		w = post(t, handler, "/counter/alpha", `{"method": "increment"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var response wehttp.CallResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		assert.Equal(t, we.MethodName("increment"), response.Method)
		assert.True(t, response.Committed)
		assert.Equal(t, []string{"Increased number to 1"}, response.Logs)
		assert.Equal(t, float64(1), response.State["value"])
		assert.Equal(t, float64(3), response.State["upper_bound"])
		assert.Equal(t, "counter.alpha", response.State["$id"])
		assert.Equal(t, "counter", response.State["$type"])
	})

	t.Run("returns view results", func(t *testing.T) {
		w := post(t, handler, "/counter/alpha", `{"method": "get_num"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var response wehttp.CallResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(1), response.Result)
		assert.False(t, response.Committed)
		assert.Empty(t, response.Logs)
	})

	t.Run("renders resources", func(t *testing.T) {
		w := get(t, handler, "/counter/alpha")
		require.Equal(t, http.StatusOK, w.Code)

		var resource map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resource))
		assert.Equal(t, float64(1), resource["value"])
		assert.Equal(t, float64(0), resource["lower_bound"])
		assert.NotEmpty(t, resource["$revision"])
	})

	t.Run("records the request id as the correlation id", func(t *testing.T) {
		var seen we.CorrelationID
		chain := middleware.RequestID(wehttp.Correlation(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = we.CorrelationFrom(r.Context())
		})))

		req := httptest.NewRequest(http.MethodPost, "/counter/beta", nil)
		req.Header.Set("X-Request-Id", "request-42")
		chain.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, we.CorrelationID("request-42"), seen)
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		w := post(t, handler, "/counter/alpha", `{"method": "explode"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "unknown method: explode")
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		w := post(t, handler, "/counter/alpha", `{"method": "update_low_threshold", "args": {"value": 1000}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		w := post(t, handler, "/counter/alpha", `{"method":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = post(t, handler, "/counter/alpha", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("accepts the full threshold range", func(t *testing.T) {
		w := post(t, handler, "/counter/range", `{"method": "update_low_threshold", "args": {"value": -128}}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body wehttp.CallResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"Update low threshold to -128"}, body.Logs)
		assert.Equal(t, float64(-128), body.State["lower_bound"])
	})

	t.Run("rejects thresholds without a value", func(t *testing.T) {
		w := post(t, handler, "/counter/gamma", `{"method": "update_top_threshold", "args": {"value": 7}}`)
		require.Equal(t, http.StatusOK, w.Code)

		for _, body := range []string{
			`{"method": "update_top_threshold"}`,
			`{"method": "update_top_threshold", "args": {}}`,
			`{"method": "update_top_threshold", "args": null}`,
			`{"method": "update_top_threshold", "args": {"valu": 9}}`,
		} {
			w := post(t, handler, "/counter/gamma", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}

		w = get(t, handler, "/counter/gamma")
		require.Equal(t, http.StatusOK, w.Code)

		var resource map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resource))
		assert.Equal(t, float64(7), resource["upper_bound"])
	})

	t.Run("other entity types are not found", func(t *testing.T) {
		w := post(t, handler, "/anything/delta", `{"method": "increment"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = get(t, handler, "/anything/delta")
		assert.Equal(t, http.StatusNotFound, w.Code)

		record, err := store.Load(context.Background(), we.SlotId{Type: "anything", Key: "delta"})
		require.NoError(t, err)
		assert.False(t, record.Exists())
	})

	t.Run("requires json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/counter/alpha", strings.NewReader(`{"method": "reset"}`))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})
}

func TestStatusOf(t *testing.T) {
	for _, tc := range []struct {
		err    error
		status int
	}{
		{we.MethodNotFound("nope"), http.StatusNotFound},
		{we.InvalidArguments("increment", errors.New("bad")), http.StatusBadRequest},
		{we.RevisionConflict, http.StatusConflict},
		{we.CallAborted("increment", "fault"), http.StatusInternalServerError},
		{errors.New("offline"), http.StatusInternalServerError},
	} {
		status, _ := wehttp.StatusOf(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}
}
