package loader

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

//go:embed default.vtt
var defaultVTT string

// DefaultSource selects the built-in sample track.
const DefaultSource = ""

// Loader fetches raw subtitle text from a URL, a local file, or the
// embedded sample.
type Loader struct {
	client *http.Client
}

func New() *Loader {
	return &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the raw text for source. An http(s) source is
// downloaded, an empty source yields the built-in sample, and
// anything else is read as a local file path.
func (l *Loader) Fetch(ctx context.Context, source string) (string, error) {
	switch {
	case source == DefaultSource:
		return defaultVTT, nil
	case strings.HasPrefix(source, "http://"),
		strings.HasPrefix(source, "https://"):
		return l.fetchURL(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("failed to read subtitle file: %w", err)
		}
		return string(data), nil
	}
}

func (l *Loader) fetchURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch subtitles: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch subtitles: status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
