package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/icza/mjpeg"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Emitter writes a silent video made of one frame repeated.
type Emitter interface {
	// Emit writes FrameCount(duration, fps) copies of frame to path and
	// returns the number of frames written.
	Emit(frame image.Image, path string, duration float64, fps int) (int, error)
}

// FrameCount is the number of frames for duration seconds at fps, truncated.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(duration * float64(fps))
}

// MJPEGEmitter writes an AVI/MJPEG container. The frame is JPEG-encoded
// once and the same payload is added for every frame.
type MJPEGEmitter struct {
	Quality int
}

func (e MJPEGEmitter) Emit(frame image.Image, path string, duration float64, fps int) (int, error) {
	n := FrameCount(duration, fps)
	if n <= 0 {
		return 0, fmt.Errorf("invalid duration %gs at %d fps", duration, fps)
	}
	quality := e.Quality
	if quality <= 0 {
		quality = 90
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: quality}); err != nil {
		return 0, fmt.Errorf("encode frame as JPEG: %w", err)
	}

	b := frame.Bounds()
	writer, err := mjpeg.New(path, int32(b.Dx()), int32(b.Dy()), int32(fps))
	if err != nil {
		return 0, fmt.Errorf("create video writer: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := writer.AddFrame(buf.Bytes()); err != nil {
			writer.Close()
			return i, fmt.Errorf("add frame %d: %w", i, err)
		}
	}
	if err := writer.Close(); err != nil {
		return n, fmt.Errorf("close video writer: %w", err)
	}
	return n, nil
}

// evenPadArgs rounds odd dimensions up by one pixel for yuv420p.
const (
	evenPadArgs = "ceil(iw/2)*2:ceil(ih/2)*2"
	evenPad     = "pad=" + evenPadArgs
)

// FFmpegEmitter stores the frame as a temporary PNG and lets ffmpeg loop it
// into an MPEG-4 Part 2 file.
type FFmpegEmitter struct {
	TempDir string
}

func (e FFmpegEmitter) Emit(frame image.Image, path string, duration float64, fps int) (int, error) {
	n := FrameCount(duration, fps)
	if n <= 0 {
		return 0, fmt.Errorf("invalid duration %gs at %d fps", duration, fps)
	}
	pngPath, err := e.writeFrame(frame)
	if err != nil {
		return 0, err
	}
	defer os.Remove(pngPath)

	var stderr bytes.Buffer
	err = e.command(pngPath, path, n, fps).WithErrorOutput(&stderr).Run()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg loop frame: %w: %s", err, lastLine(stderr.String()))
	}
	return n, nil
}

func (e FFmpegEmitter) command(pngPath, out string, frames, fps int) *ffmpeg.Stream {
	return ffmpeg.Input(pngPath, ffmpeg.KwArgs{"loop": 1, "framerate": fps}).
		Output(out, ffmpeg.KwArgs{
			"c:v":      "mpeg4",
			"q:v":      2,
			"r":        fps,
			"frames:v": frames,
			"pix_fmt":  "yuv420p",
			"vf":       evenPad,
		}).
		OverWriteOutput()
}

func (e FFmpegEmitter) writeFrame(frame image.Image) (string, error) {
	dir := e.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "captionclip-"+uuid.NewString()+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame file: %w", err)
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode frame as PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write frame file: %w", err)
	}
	return path, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
