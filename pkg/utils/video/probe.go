package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
)

const (
	// WideRatio is 16:9.
	WideRatio = 16.0 / 9.0
	// RatioTolerance is the accepted absolute deviation from WideRatio.
	RatioTolerance = 0.1
)

var ErrNoVideoStream = errors.New("no video stream found")

// Dimensions of the primary video stream.
type Dimensions struct {
	Width  int
	Height int
}

func (d Dimensions) Ratio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// Prober inspects a video container.
type Prober interface {
	// Probe returns the dimensions of the primary video stream.
	Probe(ctx context.Context, path string) (Dimensions, error)
	// Available reports whether the prober can actually inspect files.
	Available() bool
}

// NewProber returns an FFProbe when the ffprobe binary is on PATH, AcceptAll otherwise.
func NewProber() Prober {
	if bin, err := exec.LookPath("ffprobe"); err == nil {
		return &FFProbe{Binary: bin}
	}
	return AcceptAll{}
}

// IsWide reports whether d is within RatioTolerance of 16:9.
func IsWide(d Dimensions) bool {
	if d.Width <= 0 || d.Height <= 0 {
		return false
	}
	return math.Abs(d.Ratio()-WideRatio) <= RatioTolerance
}

// Accept probes path and reports whether the video may be imported.
// An unavailable prober accepts every file.
func Accept(ctx context.Context, p Prober, path string) (bool, Dimensions, error) {
	if !p.Available() {
		return true, Dimensions{}, nil
	}
	d, err := p.Probe(ctx, path)
	if err != nil {
		return false, Dimensions{}, err
	}
	return IsWide(d), d, nil
}

type FFProbe struct {
	Binary string
}

func (f *FFProbe) Available() bool { return true }

func (f *FFProbe) Probe(ctx context.Context, path string) (Dimensions, error) {
	bin := f.Binary
	if bin == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "v",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return Dimensions{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseJSON(out)
}

// AcceptAll is used when ffprobe is missing; videos are imported without an aspect check.
type AcceptAll struct{}

func (AcceptAll) Available() bool { return false }

func (AcceptAll) Probe(context.Context, string) (Dimensions, error) {
	return Dimensions{}, nil
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Disposition map[string]int `json:"disposition"`
}

// ParseJSON extracts the first non cover-art video stream from ffprobe JSON output.
func ParseJSON(data []byte) (Dimensions, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Dimensions{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	for _, s := range raw.Streams {
		if s.CodecType != "video" || s.Disposition["attached_pic"] == 1 {
			continue
		}
		if s.Width > 0 && s.Height > 0 {
			return Dimensions{Width: s.Width, Height: s.Height}, nil
		}
	}
	return Dimensions{}, ErrNoVideoStream
}
