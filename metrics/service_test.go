package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReporter map[string]error

func (r staticReporter) Statuses() map[string]error {
	return r
}

func TestHealthHandler(t *testing.T) {
	s := &Service{reporter: staticReporter{"walker": nil, "rpc": nil}}

	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Data []serviceStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "rpc", resp.Data[0].Name)

	s.reporter = staticReporter{"walker": errors.New("ClassificationError: classify: unknown script")}
	rec = httptest.NewRecorder()
	s.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown script")
}

func TestMetricsHandler(t *testing.T) {
	s := &Service{reporter: staticReporter{}}

	require.NoError(t, s.Fire(logrus.WithField("prefix", "indexer")))

	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `log_entry_count{level="panic",prefix="indexer"}`)

	require.Error(t, s.Fire(logrus.WithField("prefix", 42)))
}
