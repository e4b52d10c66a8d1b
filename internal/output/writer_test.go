package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	calls []string
	err   error
}

func (f *fakeRenderer) RenderFile(htmlPath, pdfPath string) error {
	f.calls = append(f.calls, pdfPath)
	return f.err
}

func TestWriteHTML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir, nil, zap.NewNop())

	path, err := w.Write([]byte("<html>invoice</html>"), 42, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice_42.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>invoice</html>", string(content))

	// Writing again must tolerate the directory already existing.
	_, err = w.Write([]byte("<html>again</html>"), 43, false)
	assert.NoError(t, err)
}

func TestWriteDelegatesPDF(t *testing.T) {
	dir := t.TempDir()
	renderer := &fakeRenderer{}
	w := NewWriter(dir, renderer, zap.NewNop())

	_, err := w.Write([]byte("x"), 7, true)
	require.NoError(t, err)
	require.Len(t, renderer.calls, 1)
	assert.Equal(t, filepath.Join(dir, "invoice_7.pdf"), renderer.calls[0])
}

func TestWritePropagatesRendererError(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("wkhtmltopdf exploded")}
	w := NewWriter(t.TempDir(), renderer, zap.NewNop())

	_, err := w.Write([]byte("x"), 7, true)
	assert.Error(t, err)
}

func TestWritePDFWithoutRenderer(t *testing.T) {
	w := NewWriter(t.TempDir(), nil, zap.NewNop())
	_, err := w.Write([]byte("x"), 7, true)
	assert.Error(t, err)
}

// wkhtmltopdf reports a network-error exit even on successful renders; only
// that exact failure shape may be swallowed.
func TestSpuriousNetworkExitClassifier(t *testing.T) {
	assert.True(t, isSpuriousNetworkExit(errors.New("exit status 1: ProtocolUnknownError")))
	assert.True(t, isSpuriousNetworkExit(errors.New("Exit with code 1 due to network error")))
	assert.False(t, isSpuriousNetworkExit(errors.New("exit status 1: ContentNotFoundError")))
	assert.False(t, isSpuriousNetworkExit(errors.New("executable not found")))
}
