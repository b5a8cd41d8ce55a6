package images

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"memberdoc/internal/config"
	"memberdoc/internal/util"
)

// Loader turns remote image references (CDN URLs, static asset paths) into
// something the renderer can embed offline: a data URL, or the raw URL when
// the origin refuses programmatic fetches but still serves <img> loads.
type Loader struct {
	client   *http.Client
	limiter  *util.RateLimiter
	cdnHosts []string

	retries    int
	retryDelay time.Duration

	// RenderDirectURLs is the renderer capability flag: when the active
	// renderer handles direct URLs better than data URLs in print output,
	// the direct-URL strategy runs first.
	renderDirectURLs bool

	sleep func(time.Duration)
}

func NewLoader(cfg config.Config) *Loader {
	return &Loader{
		client:           &http.Client{Timeout: time.Duration(cfg.ImageTimeoutMs) * time.Millisecond},
		limiter:          util.NewRateLimiter(cfg.ImageRateLimitRPS),
		cdnHosts:         cfg.CDNHosts,
		retries:          cfg.ImageRetries,
		retryDelay:       time.Duration(cfg.ImageRetryDelayMs) * time.Millisecond,
		renderDirectURLs: cfg.RenderDirectURLs,
		sleep:            time.Sleep,
	}
}

// LoadImageAsDataURL runs the fetch strategy cascade: a plain GET, then a
// GET with browser-like headers, and for 401/403 specifically falls back to
// the raw URL for image-like extensions, since the renderer can often still
// load those directly even when fetching is blocked. Returns "" when the
// resource is unreachable or not an image.
func (l *Loader) LoadImageAsDataURL(ctx context.Context, rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	fetchURL := TransformCloudinaryURL(rawURL, l.cdnHosts)

	dataURL, status := l.fetchDataURL(ctx, fetchURL, false)
	if dataURL != "" {
		return dataURL
	}
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		dataURL, status = l.fetchDataURL(ctx, fetchURL, true)
		if dataURL != "" {
			return dataURL
		}
	}
	if (status == http.StatusUnauthorized || status == http.StatusForbidden) && hasImageExtension(fetchURL) {
		return fetchURL
	}
	return ""
}

// LoadSignatureImage wraps the cascade with the renderer capability ordering
// and a bounded retry loop: up to 2 more attempts with a delay between them.
// retryCount is explicit so callers (and tests) control the recursion depth.
func (l *Loader) LoadSignatureImage(ctx context.Context, rawURL string, retryCount int) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	if l.renderDirectURLs && hasImageExtension(rawURL) {
		return TransformCloudinaryURL(rawURL, l.cdnHosts)
	}

	if result := l.LoadImageAsDataURL(ctx, rawURL); result != "" {
		return result
	}

	if retryCount < l.retries {
		l.sleep(l.retryDelay)
		return l.LoadSignatureImage(ctx, rawURL, retryCount+1)
	}
	return ""
}

// fetchDataURL returns the encoded data URL and the last HTTP status seen.
// A non-image content type yields "" with a 200 status: present but unusable.
func (l *Loader) fetchDataURL(ctx context.Context, fetchURL string, browserHeaders bool) (string, int) {
	l.limiter.WaitTurn()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", 0
	}
	if browserHeaders {
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36")
		req.Header.Set("Accept", "image/avif,image/webp,image/png,image/*,*/*;q=0.8")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", 0
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return "", resp.StatusCode
	}

	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(body)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", resp.StatusCode
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), resp.StatusCode
}

func hasImageExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}
