package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func TestExtractCoordinatesPlainLink(t *testing.T) {
	coords := ExtractCoordinates("https://2gis.ru/geo/37.620393,55.753960")
	require.NotNil(t, coords)
	assert.InDelta(t, 55.753960, coords.Lat, 0.000001)
	assert.InDelta(t, 37.620393, coords.Lng, 0.000001)
}

func TestExtractCoordinatesEncodedComma(t *testing.T) {
	coords := ExtractCoordinates("https://2gis.ru/?m=37.620393%2C55.753960")
	require.NotNil(t, coords)
	assert.InDelta(t, 55.753960, coords.Lat, 0.000001)
}

func TestExtractCoordinatesNoPattern(t *testing.T) {
	assert.Nil(t, ExtractCoordinates("https://example.com/store/downtown"))
}

func TestResolveBlankLink(t *testing.T) {
	g := NewLinkGeocoder(time.Second, testLogger(t))
	assert.Nil(t, g.Resolve(context.Background(), "   "))
}

func TestResolveShortLinkFollowsOneRedirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	short := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Location", target.URL+"/geo/37.620393,55.753960")
		w.WriteHeader(http.StatusFound)
	}))
	defer short.Close()

	restore := shortLinkHosts
	shortLinkHosts = []string{"127.0.0.1"}
	defer func() { shortLinkHosts = restore }()

	g := NewLinkGeocoder(time.Second, testLogger(t))
	coords := g.Resolve(context.Background(), short.URL)

	require.NotNil(t, coords)
	assert.InDelta(t, 55.753960, coords.Lat, 0.000001)
	assert.InDelta(t, 37.620393, coords.Lng, 0.000001)
}

func TestResolveShortLinkWithoutRedirectFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	restore := shortLinkHosts
	shortLinkHosts = []string{"127.0.0.1"}
	defer func() { shortLinkHosts = restore }()

	g := NewLinkGeocoder(time.Second, testLogger(t))

	// The link itself carries no coordinate pattern, so resolution fails
	// quietly with nil.
	assert.Nil(t, g.Resolve(context.Background(), srv.URL+"/short"))
}

func TestResolveShortLinkServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	restore := shortLinkHosts
	shortLinkHosts = []string{"127.0.0.1"}
	defer func() { shortLinkHosts = restore }()

	g := NewLinkGeocoder(time.Second, testLogger(t))
	assert.Nil(t, g.Resolve(context.Background(), srv.URL))
}
