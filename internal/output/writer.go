// Package output persists rendered invoices under the output directory and
// hands finished HTML to the PDF collaborator.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Writer persists rendered invoice documents keyed by invoice number.
type Writer struct {
	dir      string
	renderer Renderer
	logger   *zap.Logger
}

// NewWriter creates a writer for the given output directory. The renderer
// may be nil when PDF output is never requested.
func NewWriter(dir string, renderer Renderer, logger *zap.Logger) *Writer {
	return &Writer{
		dir:      dir,
		renderer: renderer,
		logger:   logger,
	}
}

// Write saves the rendered HTML as invoice_<id>.html, creating the output
// directory if needed, and optionally renders a PDF sibling with the same
// stem. It returns the HTML path.
func (w *Writer) Write(html []byte, id int64, pdf bool) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	htmlPath := filepath.Join(w.dir, fmt.Sprintf("invoice_%d.html", id))
	if err := os.WriteFile(htmlPath, html, 0644); err != nil {
		return "", fmt.Errorf("failed to write invoice %d: %w", id, err)
	}

	w.logger.Info("Invoice written",
		zap.Int64("invoice", id),
		zap.String("path", htmlPath),
		zap.Bool("pdf", pdf))

	if pdf {
		if w.renderer == nil {
			return htmlPath, fmt.Errorf("pdf requested for invoice %d but no renderer configured", id)
		}
		pdfPath := filepath.Join(w.dir, fmt.Sprintf("invoice_%d.pdf", id))
		if err := w.renderer.RenderFile(htmlPath, pdfPath); err != nil {
			return htmlPath, err
		}
	}

	return htmlPath, nil
}
