package images

import (
	"net/url"
	"strings"
)

// Cloudinary delivery transformation applied to every CDN-hosted image:
// cap width at 600, auto quality, and only the first page of multi-page
// sources (signature uploads are sometimes PDFs).
const deliveryTransformation = "f_auto,q_auto,w_600,pg_1"

// TransformCloudinaryURL injects the delivery transformation right after the
// /upload/ segment of a known CDN host. An existing transformation segment
// is preserved; only f_auto is prepended to it when missing. Non-CDN URLs
// pass through untouched.
func TransformCloudinaryURL(rawURL string, cdnHosts []string) string {
	if strings.TrimSpace(rawURL) == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || !isCDNHost(u.Host, cdnHosts) {
		return rawURL
	}

	const marker = "/upload/"
	idx := strings.Index(u.Path, marker)
	if idx < 0 {
		return rawURL
	}

	before := u.Path[:idx+len(marker)]
	after := u.Path[idx+len(marker):]

	if seg, rest, ok := strings.Cut(after, "/"); ok && isTransformationSegment(seg) {
		if !strings.Contains(seg, "f_auto") {
			seg = "f_auto," + seg
		}
		u.Path = before + seg + "/" + rest
		return u.String()
	}

	u.Path = before + deliveryTransformation + "/" + after
	return u.String()
}

func isCDNHost(host string, cdnHosts []string) bool {
	host = strings.ToLower(host)
	for _, cdn := range cdnHosts {
		cdn = strings.ToLower(strings.TrimSpace(cdn))
		if cdn != "" && (host == cdn || strings.HasSuffix(host, "."+cdn)) {
			return true
		}
	}
	return false
}

// A transformation segment looks like "w_400,c_fill" rather than a version
// ("v12345") or folder component.
func isTransformationSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for _, part := range strings.Split(seg, ",") {
		key, _, ok := strings.Cut(part, "_")
		if !ok || key == "" || key == "v" || len(key) > 3 {
			return false
		}
	}
	return true
}
