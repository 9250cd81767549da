package upstream

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gcottom/yt-video-details/pkg/http_client"
)

const (
	HeaderAPIKey  = "X-RapidAPI-Key"
	HeaderAPIHost = "X-RapidAPI-Host"
)

type Client struct {
	HTTPClient       *http_client.HTTPClient
	BaseURL          string
	APIKey           string
	APIHost          string
	DetailsPath      string
	FormatsPath      string
	PrimaryTimeout   time.Duration
	SecondaryTimeout time.Duration
}

// Payload is the subset of an upstream response the resolver reads. Every
// field is optional and the shape differs between endpoints.
type Payload struct {
	Title      FlexString  `json:"title"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Duration   FlexString  `json:"duration"`
	ViewCount  FlexString  `json:"viewCount"`
	Videos     *Videos     `json:"videos"`
	Formats    []Format    `json:"formats"`
}

type Thumbnail struct {
	URL string `json:"url"`
}

type Videos struct {
	Formats         []Format `json:"formats"`
	AdaptiveFormats []Format `json:"adaptiveFormats"`
}

type Format struct {
	Itag         json.RawMessage `json:"itag"`
	URL          *string         `json:"url"`
	QualityLabel string          `json:"qualityLabel"`
	Container    string          `json:"container"`
	MimeType     string          `json:"mimeType"`
	HasAudio     *bool           `json:"hasAudio"`
	AudioQuality string          `json:"audioQuality"`
}

// UnmarshalJSON decodes each recognized section on its own. A section with
// an unexpected shape is left empty instead of failing the whole payload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = Payload{}
	_ = json.Unmarshal(fields["title"], &p.Title)
	_ = json.Unmarshal(fields["duration"], &p.Duration)
	_ = json.Unmarshal(fields["viewCount"], &p.ViewCount)
	p.Thumbnails = decodeThumbnails(fields["thumbnails"])
	p.Formats = decodeFormats(fields["formats"])
	var videos Videos
	if isObject(fields["videos"]) && json.Unmarshal(fields["videos"], &videos) == nil {
		p.Videos = &videos
	}
	return nil
}

func (v *Videos) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*v = Videos{
		Formats:         decodeFormats(fields["formats"]),
		AdaptiveFormats: decodeFormats(fields["adaptiveFormats"]),
	}
	return nil
}

// UnmarshalJSON keeps every field that has the expected type and zeroes the rest.
func (f *Format) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*f = Format{}
	if isScalar(fields["itag"]) {
		f.Itag = fields["itag"]
	}
	var url string
	if json.Unmarshal(fields["url"], &url) == nil && !isNull(fields["url"]) {
		f.URL = &url
	}
	_ = json.Unmarshal(fields["qualityLabel"], &f.QualityLabel)
	_ = json.Unmarshal(fields["container"], &f.Container)
	_ = json.Unmarshal(fields["mimeType"], &f.MimeType)
	var hasAudio bool
	if json.Unmarshal(fields["hasAudio"], &hasAudio) == nil && !isNull(fields["hasAudio"]) {
		f.HasAudio = &hasAudio
	}
	_ = json.Unmarshal(fields["audioQuality"], &f.AudioQuality)
	return nil
}

// decodeFormats skips list entries that are not objects.
func decodeFormats(raw json.RawMessage) []Format {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	formats := make([]Format, 0, len(items))
	for _, item := range items {
		var f Format
		if isObject(item) && json.Unmarshal(item, &f) == nil {
			formats = append(formats, f)
		}
	}
	return formats
}

func decodeThumbnails(raw json.RawMessage) []Thumbnail {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	thumbnails := make([]Thumbnail, 0, len(items))
	for _, item := range items {
		var t Thumbnail
		if isObject(item) && json.Unmarshal(item, &t) == nil {
			thumbnails = append(thumbnails, t)
		}
	}
	return thumbnails
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// isScalar reports whether raw is a JSON string or number.
func isScalar(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	c := raw[0]
	return c == '"' || c == '-' || (c >= '0' && c <= '9')
}

// FlexString accepts a JSON string or any scalar and keeps its text form.
// null, objects and arrays decode to the empty string.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || data[0] == '{' || data[0] == '[' {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	*s = FlexString(data)
	return nil
}

func (s FlexString) String() string {
	return string(s)
}
