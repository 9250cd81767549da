package resolver

import (
	"context"
	"encoding/json"

	"github.com/gcottom/yt-video-details/service/upstream"
	"github.com/samber/mo"
)

// Fetcher is the upstream capability the resolver needs.
type Fetcher interface {
	FetchDetails(ctx context.Context, id string) (*upstream.Payload, error)
	FetchFormats(ctx context.Context, id string) (*upstream.Payload, error)
}

type Options struct {
	TryAlternativeEndpoint    bool
	EnableFallbackDescriptors bool
}

type Resolver struct {
	Fetcher Fetcher
	Options Options
}

type FormatDescriptor struct {
	Quality    string            `json:"quality"`
	Container  string            `json:"container"`
	URL        mo.Option[string] `json:"url"`
	Itag       json.RawMessage   `json:"itag"`
	HasAudio   bool              `json:"hasAudio"`
	IsFallback bool              `json:"isFallback"`
}

type VideoInfo struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	ViewCount string `json:"viewCount"`
}

type Source string

const (
	SourceUpstream Source = "upstream"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

type Result struct {
	Info    VideoInfo
	Formats []FormatDescriptor
	Source  Source
	Message string
	// UpstreamErr is the failure of the primary details call, if any.
	UpstreamErr error
}

const (
	MessageFallback = "No direct formats available. Use the alternative download links below."
	MessageNone     = "No downloadable formats found"

	DefaultContainer = "mp4"
	Unknown          = "Unknown"
)
