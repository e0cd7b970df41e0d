package geo

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lng float64
}

// coordPattern matches a "lon,lat" pair inside a map-service URL. The comma
// may be percent-encoded. The first number is longitude, the second latitude
// (2GIS link convention).
var coordPattern = regexp.MustCompile(`([0-9]+\.[0-9]+)(?:,|%2C)([0-9]+\.[0-9]+)`)

// shortLinkHosts are link hosts that require one HEAD redirect resolution
// step before the coordinate pattern can be extracted.
var shortLinkHosts = []string{"go.2gis.com"}

// LinkGeocoder resolves map-service links (plain or shortened) to
// coordinates. Every failure mode resolves to (nil, not found) rather than
// an error: callers exclude the store and move on.
type LinkGeocoder struct {
	client *http.Client
	logger *logging.ChanneledLogger
}

// NewLinkGeocoder creates a geocoder with the given per-request timeout.
// Redirects are not followed; the Location header of the first response is
// the resolution result.
func NewLinkGeocoder(timeout time.Duration, logger *logging.ChanneledLogger) *LinkGeocoder {
	return &LinkGeocoder{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// Resolve extracts coordinates from a location link. Shortened links are
// expanded with a single HEAD request first. Returns nil when the link is
// blank, malformed, carries no redirect, or carries no coordinate pattern.
func (g *LinkGeocoder) Resolve(ctx context.Context, link string) *Coordinates {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}

	finalURL := link
	if isShortLink(link) {
		resolved, ok := g.resolveShortLink(ctx, link)
		if !ok {
			return nil
		}
		finalURL = resolved
	}

	return ExtractCoordinates(finalURL)
}

// resolveShortLink issues one HEAD request and returns the redirect target.
func (g *LinkGeocoder) resolveShortLink(ctx context.Context, link string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		g.logger.Geo().Debug("Malformed short link", "link", link, "error", err.Error())
		return "", false
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Geo().Debug("Short link resolution failed", "link", link, "error", err.Error())
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if location := resp.Header.Get("Location"); location != "" {
			return location, true
		}
	}

	// No redirect: fall back to the link itself, it may already carry
	// coordinates.
	return link, true
}

// ExtractCoordinates parses a "lon,lat" shaped pattern out of a URL. Returns
// nil when no pattern is present.
func ExtractCoordinates(url string) *Coordinates {
	match := coordPattern.FindStringSubmatch(url)
	if match == nil {
		return nil
	}

	lng, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	lat, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return nil
	}

	return &Coordinates{Lat: lat, Lng: lng}
}

func isShortLink(link string) bool {
	for _, host := range shortLinkHosts {
		if strings.Contains(link, host) {
			return true
		}
	}
	return false
}
