package favicon

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, size int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadReturnsDataURI(t *testing.T) {
	path := writeTestPNG(t, 64)
	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(data, "data:image/png;base64,"))
}

func TestLoadResizesNonStandardIcons(t *testing.T) {
	path := writeTestPNG(t, 128)
	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(data, "data:image/png;base64,"))
}

func TestLoadEmptyPathIsNotAnError(t *testing.T) {
	data, err := NewLoader().Load("")
	require.NoError(t, err)
	require.Empty(t, data)
}
