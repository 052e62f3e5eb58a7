package usecase

import (
	"strings"

	"github.com/hszk-dev/tunestream/internal/domain/model"
	"github.com/hszk-dev/tunestream/internal/domain/repository"
)

// SelectAudioStream picks the stream URL to play from a video's formats.
//
// Policy: among audio-capable formats (acodec present and not "none"),
// prefer the first whose codec contains "opus" for its smaller footprint;
// otherwise take the first audio-capable format; otherwise fall back to
// the top-level info URL if the extractor supplied one. No usable stream
// at all is ErrExtractionFailed.
func SelectAudioStream(info *model.MediaInfo) (string, error) {
	var firstAudio string
	for _, f := range info.Formats {
		if !f.HasAudio() {
			continue
		}
		if strings.Contains(f.ACodec, "opus") {
			return f.URL, nil
		}
		if firstAudio == "" {
			firstAudio = f.URL
		}
	}

	if firstAudio != "" {
		return firstAudio, nil
	}
	if info.URL != "" {
		return info.URL, nil
	}
	return "", repository.ErrExtractionFailed
}
