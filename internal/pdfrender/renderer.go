package pdfrender

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ledongthuc/pdf"

	"memberdoc/internal/config"
)

// Renderer rasterizes one self-contained HTML document into paginated A4
// PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
	Close() error
}

// A4 paper size in inches, the unit Chrome's print endpoint expects.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

type Options struct {
	Bin     string
	Timeout time.Duration
	Scale   float64
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Bin:     cfg.ChromeBin,
		Timeout: time.Duration(cfg.RenderTimeoutMs) * time.Millisecond,
		Scale:   cfg.RenderScale,
	}
}

// Verify checks that the produced bytes parse as a PDF with at least one
// readable page. Catches truncated writes and Chrome error pages early.
func Verify(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("verify pdf: empty output")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("verify pdf: %w", err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("verify pdf: no pages")
	}
	if page := reader.Page(1); page.V.IsNull() {
		return fmt.Errorf("verify pdf: first page unreadable")
	}
	return nil
}
