package images

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"sync"

	"memberdoc/internal"
)

// Assets holds everything the HTML generator embeds. Empty strings mean the
// image is unavailable and the document shows a placeholder caption instead.
type Assets struct {
	Logo       string
	Stamp      string
	Signature  string
	Signatures []string

	// StampIsLogo records that the stamp box fell back to the federation
	// logo because the uploaded stamp could not be loaded.
	StampIsLogo bool
}

// Preload fetches the logo, the company stamp, the legacy single signature
// and every multi-signatory signature concurrently. Each fetch is isolated:
// one failure leaves a positional gap, never aborts the batch.
func (l *Loader) Preload(ctx context.Context, app internal.CanonicalApplication, logoPath, logoPublicPath string) Assets {
	assets := Assets{Signatures: make([]string, len(app.AuthorizedSignatures))}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		assets.Logo = loadLocalAsset(logoPath, logoPublicPath)
	}()

	if app.CompanyStamp != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assets.Stamp = l.LoadSignatureImage(ctx, app.CompanyStamp.FileURL, 0)
		}()
	}

	if app.AuthorizedSignature != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assets.Signature = l.LoadSignatureImage(ctx, app.AuthorizedSignature.FileURL, 0)
		}()
	}

	for i, ref := range app.AuthorizedSignatures {
		if ref == nil || ref.FileURL == "" {
			continue
		}
		wg.Add(1)
		go func(slot int, fileURL string) {
			defer wg.Done()
			assets.Signatures[slot] = l.LoadSignatureImage(ctx, fileURL, 0)
		}(i, ref.FileURL)
	}

	wg.Wait()

	// A blank stamp box looks like a mistake on the printed form, so the
	// federation logo stands in when the uploaded stamp is unusable.
	if assets.Stamp == "" && assets.Logo != "" {
		assets.Stamp = assets.Logo
		assets.StampIsLogo = true
	}

	return assets
}

// loadLocalAsset embeds a static asset as a data URL so rasterization never
// depends on asset paths resolving; the public path is the fallback.
func loadLocalAsset(assetPath, publicPath string) string {
	body, err := os.ReadFile(assetPath)
	if err != nil || len(body) == 0 {
		return publicPath
	}
	contentType := http.DetectContentType(body)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
}
