package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookfx/internal/dataset"
	"bookfx/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Snapshot(ctx context.Context) (*dataset.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*dataset.Snapshot)
	return snap, args.Error(1)
}

func newTestHandler(t *testing.T) (*HTTPHandler, *mockSource) {
	t.Helper()
	source := &mockSource{}
	return NewHTTPHandler(NewService(source, NewResolver(""))), source
}

func TestHTTPHandler_Convert(t *testing.T) {
	t.Run("direct pair", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(testutil.TestSnapshot(), nil)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=USD&to=EUR&amount=10"))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 9.0, resp.Body["converted"])
		assert.Equal(t, 0.9, resp.Body["rate_used"])
		assert.Equal(t, []interface{}{"USD", "EUR"}, resp.Body["via"])
	})

	t.Run("hub mediated", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(testutil.TestSnapshot(), nil)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=EUR&to=GBP&amount=10"))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 8.888889, resp.Body["converted"], "converted amount rounds to 6 decimals")
		assert.InDelta(t, 0.8/0.9, resp.Body["rate_used"].(float64), 1e-12, "rate itself stays unrounded")
		assert.Equal(t, []interface{}{"USD"}, resp.Body["via"])
	})

	t.Run("lowercase codes accepted", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(testutil.TestSnapshot(), nil)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=usd&to=eur&amount=1"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unsupported pair", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(testutil.TestSnapshot(), nil)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=AAA&to=EUR&amount=10"))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "UNSUPPORTED_PAIR", errBody["code"])
		assert.Contains(t, errBody["message"], "AAA")
		assert.Contains(t, errBody["message"], "EUR")
	})

	t.Run("validation errors", func(t *testing.T) {
		handler, _ := newTestHandler(t)

		for _, path := range []string{
			"/exchange?to=EUR&amount=10",
			"/exchange?from=USD&amount=10",
			"/exchange?from=USD&to=EUR",
			"/exchange?from=US&to=EUR&amount=10",
			"/exchange?from=USDT&to=EUR&amount=10",
			"/exchange?from=U5D&to=EUR&amount=10",
			"/exchange?from=USD&to=EUR&amount=-1",
			"/exchange?from=USD&to=EUR&amount=lots",
		} {
			w := httptest.NewRecorder()
			handler.Convert(w, testutil.NewRequest(path))

			resp := testutil.RecordHTTPResponse(w)
			assert.Equal(t, http.StatusBadRequest, resp.Code, path)
			errBody := resp.Body["error"].(map[string]interface{})
			assert.Equal(t, "VALIDATION_ERROR", errBody["code"], path)
		}
	})

	t.Run("zero amount is valid", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(testutil.TestSnapshot(), nil)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=USD&to=EUR&amount=0"))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 0.0, resp.Body["converted"])
	})

	t.Run("rates unavailable", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(nil, dataset.ErrNotLoaded)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=USD&to=EUR&amount=10"))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusInternalServerError, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "DATASET_UNAVAILABLE", errBody["code"])
	})

	t.Run("empty rate table is unavailable", func(t *testing.T) {
		handler, source := newTestHandler(t)
		source.On("Snapshot", mock.Anything).Return(&dataset.Snapshot{Books: testutil.TestBooks}, nil)

		w := httptest.NewRecorder()
		handler.Convert(w, testutil.NewRequest("/exchange?from=USD&to=EUR&amount=10"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
