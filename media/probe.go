package media

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration returns the container duration of path in seconds, read
// from ffprobe's format section.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	d, err := parseProbeDuration(out)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return d, nil
}

type probeInfo struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeDuration(data string) (float64, error) {
	var info probeInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return 0, fmt.Errorf("decode probe output: %w", err)
	}
	if info.Format.Duration == "" {
		return 0, fmt.Errorf("probe output has no duration")
	}
	d, err := strconv.ParseFloat(info.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", info.Format.Duration, err)
	}
	return d, nil
}

// AudioDuration measures WAV files directly and falls back to ffprobe for
// every other format.
func AudioDuration(path string) (float64, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return wavDuration(path)
	}
	return ProbeDuration(path)
}

func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("invalid WAV file %s", path)
	}
	d, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("read WAV duration: %w", err)
	}
	return d.Seconds(), nil
}
