package resolver

import (
	"encoding/json"
	"fmt"

	"github.com/gcottom/yt-video-details/service/upstream"
	"github.com/samber/mo"
)

const (
	SaveFromURLFormat  = "https://en.savefrom.net/#url=https://www.youtube.com/watch?v=%s"
	Y2MateURLFormat    = "https://www.y2mate.com/youtube/%s"
	ThumbnailURLFormat = "https://img.youtube.com/vi/%s/hqdefault.jpg"
	TitleFormat        = "YouTube Video - %s"
)

// FallbackDescriptors points at mirror sites that resolve the id themselves.
func FallbackDescriptors(id string) []FormatDescriptor {
	return []FormatDescriptor{
		{
			Quality:    "HD (via SaveFrom)",
			Container:  DefaultContainer,
			URL:        mo.Some(fmt.Sprintf(SaveFromURLFormat, id)),
			Itag:       json.RawMessage(`"savefrom"`),
			HasAudio:   true,
			IsFallback: true,
		},
		{
			Quality:    "HD (via Y2Mate)",
			Container:  DefaultContainer,
			URL:        mo.Some(fmt.Sprintf(Y2MateURLFormat, id)),
			Itag:       json.RawMessage(`"y2mate"`),
			HasAudio:   true,
			IsFallback: true,
		},
	}
}

func DefaultVideoInfo(id string) VideoInfo {
	return VideoInfo{
		Title:     fmt.Sprintf(TitleFormat, id),
		Thumbnail: fmt.Sprintf(ThumbnailURLFormat, id),
		Duration:  Unknown,
		ViewCount: Unknown,
	}
}

// ResolveVideoInfo fills each field from the first payload that has it,
// then from the defaults. nil payloads are skipped.
func ResolveVideoInfo(id string, payloads ...*upstream.Payload) VideoInfo {
	info := DefaultVideoInfo(id)
	pick := func(dst *string, get func(p *upstream.Payload) string) {
		for _, p := range payloads {
			if p == nil {
				continue
			}
			if v := get(p); v != "" {
				*dst = v
				return
			}
		}
	}
	pick(&info.Title, func(p *upstream.Payload) string { return p.Title.String() })
	pick(&info.Thumbnail, func(p *upstream.Payload) string {
		if len(p.Thumbnails) == 0 {
			return ""
		}
		return p.Thumbnails[0].URL
	})
	pick(&info.Duration, func(p *upstream.Payload) string { return p.Duration.String() })
	pick(&info.ViewCount, func(p *upstream.Payload) string { return p.ViewCount.String() })
	return info
}
