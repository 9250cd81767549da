package resolver

import (
	"encoding/json"
	"strings"

	"github.com/gcottom/yt-video-details/service/upstream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Shape is one recognized place an upstream payload keeps its formats.
type Shape interface {
	Name() string
	Extract(p *upstream.Payload) []FormatDescriptor
}

// Shapes in precedence order. The first non-empty extraction wins.
var Shapes = []Shape{
	VideoFormats{},
	AdaptiveFormats{},
	TopLevelFormats{name: "formats"},
}

// AlternativeFormats reads the alternative endpoint's payload.
var AlternativeFormats Shape = TopLevelFormats{name: "alternative formats"}

// VideoFormats reads videos.formats, keeping every entry in order.
type VideoFormats struct{}

func (VideoFormats) Name() string { return "videos.formats" }

func (VideoFormats) Extract(p *upstream.Payload) []FormatDescriptor {
	if p == nil || p.Videos == nil {
		return nil
	}
	return lo.Map(p.Videos.Formats, func(f upstream.Format, _ int) FormatDescriptor {
		container := f.Container
		if container == "" {
			container = DefaultContainer
		}
		return FormatDescriptor{
			Quality:   qualityLabel(f),
			Container: container,
			URL:       formatURL(f),
			Itag:      f.Itag,
			HasAudio:  f.HasAudio == nil || *f.HasAudio,
		}
	})
}

// AdaptiveFormats reads videos.adaptiveFormats, video tracks only.
type AdaptiveFormats struct{}

func (AdaptiveFormats) Name() string { return "videos.adaptiveFormats" }

func (AdaptiveFormats) Extract(p *upstream.Payload) []FormatDescriptor {
	if p == nil || p.Videos == nil {
		return nil
	}
	return videoOnly(p.Videos.AdaptiveFormats)
}

// TopLevelFormats reads the payload's top-level formats with the adaptive rule.
type TopLevelFormats struct {
	name string
}

func (s TopLevelFormats) Name() string { return s.name }

func (TopLevelFormats) Extract(p *upstream.Payload) []FormatDescriptor {
	if p == nil {
		return nil
	}
	return videoOnly(p.Formats)
}

// ExtractFormats tries each shape in order and reports which one matched.
func ExtractFormats(p *upstream.Payload) ([]FormatDescriptor, Shape) {
	for _, shape := range Shapes {
		if formats := shape.Extract(p); len(formats) > 0 {
			return formats, shape
		}
	}
	return nil, nil
}

func videoOnly(formats []upstream.Format) []FormatDescriptor {
	return lo.FilterMap(formats, func(f upstream.Format, _ int) (FormatDescriptor, bool) {
		if !IsVideoMimeType(f.MimeType) {
			return FormatDescriptor{}, false
		}
		return FormatDescriptor{
			Quality:   qualityLabel(f),
			Container: DefaultContainer,
			URL:       formatURL(f),
			Itag:      f.Itag,
			HasAudio:  f.AudioQuality != "",
		}, true
	})
}

func IsVideoMimeType(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "video/")
}

func qualityLabel(f upstream.Format) string {
	if f.QualityLabel != "" {
		return f.QualityLabel
	}
	return strings.TrimSpace("Quality " + ItagString(f.Itag))
}

func formatURL(f upstream.Format) mo.Option[string] {
	if f.URL == nil || *f.URL == "" {
		return mo.None[string]()
	}
	return mo.Some(*f.URL)
}

// ItagString renders an itag that may be a JSON number or string.
func ItagString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
