package system

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// ProbeAudioDuration measures an audio file with ffprobe, in seconds.
func ProbeAudioDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, errors.Wrapf(err, "probe %s", path)
	}
	return parseProbeDuration(out)
}

// parseProbeDuration reads the container duration, falling back to the
// first audio stream.
func parseProbeDuration(probe string) (float64, error) {
	var data probeOutput
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return 0, errors.WithStack(err)
	}

	candidates := []string{data.Format.Duration}
	for _, s := range data.Streams {
		if s.CodecType == "audio" {
			candidates = append(candidates, s.Duration)
		}
	}

	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" || c == "N/A" {
			continue
		}
		d, err := strconv.ParseFloat(c, 64)
		if err != nil {
			continue
		}
		if d < 0 {
			return 0, errors.Errorf("negative duration %v", d)
		}
		return d, nil
	}

	return 0, errors.New("no duration in probe output")
}
