package media

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// LoopPlan describes how a source clip becomes exactly Target seconds long.
type LoopPlan struct {
	Source float64 `json:"source"`
	Target float64 `json:"target"`
	Copies int     `json:"copies"`
}

// Looped reports whether the clip is repeated.
func (p LoopPlan) Looped() bool { return p.Copies > 1 }

// PlanLoop repeats a short source ceil(target/src) times; a source at
// least as long as target is used once. Both are then trimmed to target.
func PlanLoop(src, target float64) (LoopPlan, error) {
	if src <= 0 {
		return LoopPlan{}, fmt.Errorf("source duration must be positive, got %g", src)
	}
	if target <= 0 {
		return LoopPlan{}, fmt.Errorf("target duration must be positive, got %g", target)
	}
	copies := 1
	if src < target {
		copies = int(math.Ceil(target / src))
	}
	return LoopPlan{Source: src, Target: target, Copies: copies}, nil
}

// Muxer normalizes a silent video to Target seconds and attaches audio,
// writing H.264/AAC.
type Muxer struct {
	Target  float64
	TempDir string
	logger  *zap.Logger
}

// NewMuxer returns a muxer producing clips of target seconds.
func NewMuxer(target float64, logger *zap.Logger) *Muxer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Muxer{Target: target, logger: logger}
}

// Mux probes videoPath and audioPath, then writes outPath.
func (m *Muxer) Mux(videoPath, audioPath, outPath string) (LoopPlan, error) {
	src, err := ProbeDuration(videoPath)
	if err != nil {
		return LoopPlan{}, err
	}
	plan, err := PlanLoop(src, m.Target)
	if err != nil {
		return LoopPlan{}, err
	}
	audioLen, err := AudioDuration(audioPath)
	if err != nil {
		return plan, err
	}
	m.logger.Debug("mux plan",
		zap.Float64("video", src),
		zap.Float64("audio", audioLen),
		zap.Int("copies", plan.Copies),
		zap.Float64("target", plan.Target))

	videoInput := videoPath
	if plan.Looped() {
		list, err := m.writeConcatList(videoPath, plan.Copies)
		if err != nil {
			return plan, err
		}
		defer os.Remove(list)
		videoInput = list
	}

	var stderr bytes.Buffer
	cmd := m.command(videoInput, audioPath, outPath, plan, audioLen < plan.Target)
	if err := cmd.WithErrorOutput(&stderr).Run(); err != nil {
		return plan, fmt.Errorf("ffmpeg mux: %w: %s", err, lastLine(stderr.String()))
	}
	return plan, nil
}

// command builds the ffmpeg invocation. A looped plan reads videoInput as a
// concat demuxer list.
func (m *Muxer) command(videoInput, audioPath, outPath string, plan LoopPlan, padAudio bool) *ffmpeg.Stream {
	var in *ffmpeg.Stream
	if plan.Looped() {
		in = ffmpeg.Input(videoInput, ffmpeg.KwArgs{"f": "concat", "safe": 0})
	} else {
		in = ffmpeg.Input(videoInput)
	}
	video := in.Video().
		Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{"end": plan.Target}).
		Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"}).
		Filter("pad", ffmpeg.Args{evenPadArgs})

	audio := ffmpeg.Input(audioPath).Audio()
	if padAudio {
		audio = audio.Filter("apad", ffmpeg.Args{})
	}
	audio = audio.
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"end": plan.Target}).
		Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"})

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"c:a":     "aac",
		"t":       plan.Target,
	}).OverWriteOutput()
}

// writeConcatList writes a concat demuxer list naming videoPath copies times.
func (m *Muxer) writeConcatList(videoPath string, copies int) (string, error) {
	abs, err := filepath.Abs(videoPath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", videoPath, err)
	}
	line := fmt.Sprintf("file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))

	dir := m.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "captionclip-concat-"+uuid.NewString()+".txt")
	if err := os.WriteFile(path, []byte(strings.Repeat(line, copies)), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}
	return path, nil
}
