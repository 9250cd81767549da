package resolver

import (
	"context"
	"fmt"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/yt-video-details/service/upstream"
	"go.uber.org/zap"
)

func NewResolver(fetcher Fetcher, opts Options) *Resolver {
	return &Resolver{Fetcher: fetcher, Options: opts}
}

// Resolve runs the format waterfall for id. It never fails: upstream errors
// fall through to the next step and finally to the fallback descriptors.
func (r *Resolver) Resolve(ctx context.Context, id string) *Result {
	result := &Result{}

	zaplog.InfoC(ctx, "fetching video details", zap.String("videoId", id))
	details, err := r.Fetcher.FetchDetails(ctx, id)
	if err != nil {
		zaplog.WarnC(ctx, "video details unavailable, continuing without them", zap.String("videoId", id), zap.Error(err))
		result.UpstreamErr = err
	}

	formats, shape := ExtractFormats(details)
	if shape != nil {
		zaplog.InfoC(ctx, "formats extracted", zap.String("videoId", id), zap.String("shape", shape.Name()), zap.Int("count", len(formats)))
	} else {
		zaplog.InfoC(ctx, "no formats in video details", zap.String("videoId", id))
	}

	var alternative *upstream.Payload
	if len(formats) == 0 && r.Options.TryAlternativeEndpoint {
		zaplog.InfoC(ctx, "trying alternative formats endpoint", zap.String("videoId", id))
		alternative, err = r.Fetcher.FetchFormats(ctx, id)
		if err != nil {
			zaplog.WarnC(ctx, "alternative formats endpoint failed", zap.String("videoId", id), zap.Error(err))
			alternative = nil
		}
		formats = AlternativeFormats.Extract(alternative)
		zaplog.InfoC(ctx, "alternative formats extracted", zap.String("videoId", id), zap.Int("count", len(formats)))
	}

	result.Info = ResolveVideoInfo(id, details, alternative)

	switch {
	case len(formats) > 0:
		result.Formats = formats
		result.Source = SourceUpstream
		result.Message = fmt.Sprintf("%d formats available", len(formats))
	case r.Options.EnableFallbackDescriptors:
		zaplog.InfoC(ctx, "no upstream formats, using fallback descriptors", zap.String("videoId", id))
		result.Formats = FallbackDescriptors(id)
		result.Source = SourceFallback
		result.Message = MessageFallback
	default:
		zaplog.InfoC(ctx, "no upstream formats and fallback disabled", zap.String("videoId", id))
		result.Formats = []FormatDescriptor{}
		result.Source = SourceNone
		result.Message = MessageNone
	}
	return result
}
