package media

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Rect, &image.Uniform{C: color.RGBA{R: 40, G: 90, B: 160, A: 255}}, image.Point{}, draw.Src)
	return img
}

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not found in PATH", bin)
		}
	}
}

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 150, FrameCount(5, 30))
	assert.Equal(t, 15, FrameCount(0.5, 30))
	assert.Equal(t, 0, FrameCount(0, 30))
	assert.Equal(t, 0, FrameCount(5, 0))
}

func TestMJPEGEmitterWritesAVI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.avi")
	n, err := MJPEGEmitter{}.Emit(testFrame(32, 24), path, 0.5, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "AVI ", string(data[8:12]))
	// every frame carries a JPEG start-of-image marker
	assert.Equal(t, n, bytes.Count(data, []byte{0xFF, 0xD8, 0xFF}))
}

func TestMJPEGEmitterRejectsZeroFrames(t *testing.T) {
	_, err := MJPEGEmitter{}.Emit(testFrame(4, 4), filepath.Join(t.TempDir(), "x.avi"), 0, 30)
	assert.Error(t, err)
}

func TestFFmpegEmitterCommand(t *testing.T) {
	args := strings.Join(FFmpegEmitter{}.command("frame.png", "out.mp4", 150, 30).GetArgs(), " ")
	assert.Contains(t, args, "-loop 1")
	assert.Contains(t, args, "-c:v mpeg4")
	assert.Contains(t, args, "-frames:v 150")
	assert.Contains(t, args, "-r 30")
	assert.Contains(t, args, "out.mp4")
	assert.Contains(t, args, "-vf pad=ceil(iw/2)*2:ceil(ih/2)*2")
	assert.Contains(t, args, "-y")
}

func TestFFmpegEmitterWritesVideo(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "silent.mp4")
	n, err := FFmpegEmitter{TempDir: dir}.Emit(testFrame(33, 21), out, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	d, err := ProbeDuration(out)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 0.1)

	leftovers, err := filepath.Glob(filepath.Join(dir, "captionclip-*.png"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary frame should be removed")
}
