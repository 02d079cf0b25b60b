package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrNoVideoStream is returned when the source has no decodable video stream.
var ErrNoVideoStream = errors.New("no video stream")

// FFmpegSource reads frames with the ffprobe and ffmpeg binaries.
type FFmpegSource struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpegSource creates a source using the given binaries, falling back to
// "ffmpeg" and "ffprobe" from PATH.
func NewFFmpegSource(ffmpegPath, ffprobePath string) *FFmpegSource {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegSource{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
		Tags   struct {
			Rotate string `json:"rotate"`
		} `json:"tags"`
		SideData []struct {
			Rotation float64 `json:"rotation"`
		} `json:"side_data_list"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// LoadMetadata runs ffprobe against the first video stream of src.
func (s *FFmpegSource) LoadMetadata(ctx context.Context, src string) (Metadata, error) {
	cmd := exec.CommandContext(ctx, s.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:stream_tags=rotate:stream_side_data=rotation:format=duration",
		"-of", "json",
		"-i", src,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeOutput(out)
}

func parseProbeOutput(out []byte) (Metadata, error) {
	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return Metadata{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 || probe.Streams[0].Width <= 0 || probe.Streams[0].Height <= 0 {
		return Metadata{}, ErrNoVideoStream
	}

	stream := probe.Streams[0]
	meta := Metadata{
		Width:  stream.Width,
		Height: stream.Height,
	}

	// ffmpeg applies the display rotation when decoding, so report the
	// displayed size rather than the coded one.
	rotation := 0.0
	if r, err := strconv.ParseFloat(stream.Tags.Rotate, 64); err == nil {
		rotation = r
	}
	for _, sd := range stream.SideData {
		if sd.Rotation != 0 {
			rotation = sd.Rotation
		}
	}
	if quarterTurns(rotation)%2 != 0 {
		meta.Width, meta.Height = meta.Height, meta.Width
	}

	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			meta.Duration = d
		}
	}
	return meta, nil
}

func quarterTurns(degrees float64) int {
	turns := int(math.Round(degrees/90)) % 4
	if turns < 0 {
		turns += 4
	}
	return turns
}

// FirstFrame decodes the frame at time zero as a lossless PNG.
func (s *FFmpegSource) FirstFrame(ctx context.Context, src string) (image.Image, error) {
	cmd := exec.CommandContext(ctx, s.FFmpegPath,
		"-v", "error",
		"-ss", "0",
		"-i", src,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if len(out) == 0 {
		return nil, ErrNoVideoStream
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}
