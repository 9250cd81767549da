package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gcottom/yt-video-details/service/upstream"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeFetcher struct {
	details      *upstream.Payload
	detailsErr   error
	formats      *upstream.Payload
	formatsErr   error
	detailsCalls int
	formatsCalls int
}

func (f *fakeFetcher) FetchDetails(ctx context.Context, id string) (*upstream.Payload, error) {
	f.detailsCalls++
	return f.details, f.detailsErr
}

func (f *fakeFetcher) FetchFormats(ctx context.Context, id string) (*upstream.Payload, error) {
	f.formatsCalls++
	return f.formats, f.formatsErr
}

var allOn = Options{TryAlternativeEndpoint: true, EnableFallbackDescriptors: true}

const testID = "dQw4w9WgXcQ"

func TestResolve(t *testing.T) {
	ctx := context.Background()
	timeout := &upstream.TimeoutError{Endpoint: "/v2/video/details", Timeout: 10 * time.Second}

	Convey("Resolve", t, func() {
		Convey("Should return videos.formats without calling the alternative endpoint", func() {
			fetcher := &fakeFetcher{details: decodePayload(`{"title":"Never","videos":{"formats":[{"itag":22},{"itag":18}]}}`)}
			res := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			So(res.Source, ShouldEqual, SourceUpstream)
			So(len(res.Formats), ShouldEqual, 2)
			So(res.Message, ShouldEqual, "2 formats available")
			So(res.Info.Title, ShouldEqual, "Never")
			So(fetcher.formatsCalls, ShouldEqual, 0)
		})

		Convey("Should read top-level formats when videos has an odd shape", func() {
			fetcher := &fakeFetcher{details: decodePayload(`{"title":"Real Title","videos":[],"formats":[{"itag":18,"mimeType":"video/mp4","url":"https://cdn/18"}]}`)}
			res := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			So(res.Source, ShouldEqual, SourceUpstream)
			So(len(res.Formats), ShouldEqual, 1)
			So(res.Formats[0].URL.OrEmpty(), ShouldEqual, "https://cdn/18")
			So(res.Info.Title, ShouldEqual, "Real Title")
			So(fetcher.formatsCalls, ShouldEqual, 0)
		})

		Convey("Should use the alternative endpoint when details have no formats", func() {
			fetcher := &fakeFetcher{
				details: decodePayload(`{"title":"Never"}`),
				formats: decodePayload(`{"formats":[{"itag":137,"mimeType":"video/mp4"},{"itag":140,"mimeType":"audio/mp4"}]}`),
			}
			res := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			So(fetcher.formatsCalls, ShouldEqual, 1)
			So(res.Source, ShouldEqual, SourceUpstream)
			So(len(res.Formats), ShouldEqual, 1)
			So(res.Info.Title, ShouldEqual, "Never")
		})

		Convey("Should continue past a timed out details call", func() {
			fetcher := &fakeFetcher{
				detailsErr: timeout,
				formats:    decodePayload(`{"title":"From Alt","formats":[{"itag":137,"mimeType":"video/mp4","url":"https://cdn/137"}]}`),
			}
			res := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			So(res.Source, ShouldEqual, SourceUpstream)
			So(len(res.Formats), ShouldEqual, 1)
			So(res.Formats[0].URL.OrEmpty(), ShouldEqual, "https://cdn/137")
			So(res.Info.Title, ShouldEqual, "From Alt")
			So(res.Info.Thumbnail, ShouldEqual, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg")
		})

		Convey("Should synthesize two fallback descriptors when everything fails", func() {
			fetcher := &fakeFetcher{detailsErr: timeout, formatsErr: &upstream.NetworkError{Err: errors.New("refused")}}
			res := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			So(res.Source, ShouldEqual, SourceFallback)
			So(res.Message, ShouldEqual, MessageFallback)
			So(len(res.Formats), ShouldEqual, 2)
			for _, f := range res.Formats {
				So(f.IsFallback, ShouldBeTrue)
				So(f.URL.OrEmpty(), ShouldContainSubstring, testID)
			}
			So(res.Info, ShouldResemble, DefaultVideoInfo(testID))
			So(res.UpstreamErr, ShouldEqual, timeout)
		})

		Convey("Should derive fallback urls deterministically from the id", func() {
			fetcher := &fakeFetcher{details: decodePayload(`{}`), formats: decodePayload(`{}`)}
			first := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			second := NewResolver(fetcher, allOn).Resolve(ctx, testID)
			So(first.Formats, ShouldResemble, second.Formats)
			So(first.Formats[0].URL.OrEmpty(), ShouldEqual, "https://en.savefrom.net/#url=https://www.youtube.com/watch?v=dQw4w9WgXcQ")
			So(first.Formats[1].URL.OrEmpty(), ShouldEqual, "https://www.y2mate.com/youtube/dQw4w9WgXcQ")
		})

		Convey("Should skip the alternative endpoint when disabled", func() {
			fetcher := &fakeFetcher{details: decodePayload(`{}`)}
			res := NewResolver(fetcher, Options{EnableFallbackDescriptors: true}).Resolve(ctx, testID)
			So(fetcher.formatsCalls, ShouldEqual, 0)
			So(res.Source, ShouldEqual, SourceFallback)
		})

		Convey("Should return an empty list when fallback is disabled", func() {
			fetcher := &fakeFetcher{details: decodePayload(`{"title":"Never"}`)}
			res := NewResolver(fetcher, Options{}).Resolve(ctx, testID)
			So(res.Source, ShouldEqual, SourceNone)
			So(res.Formats, ShouldNotBeNil)
			So(res.Formats, ShouldBeEmpty)
			So(res.Message, ShouldEqual, MessageNone)
			So(res.UpstreamErr, ShouldBeNil)
		})
	})
}

func TestResolveVideoInfo(t *testing.T) {
	Convey("ResolveVideoInfo", t, func() {
		Convey("Should default each field independently", func() {
			info := ResolveVideoInfo(testID, decodePayload(`{"title":"Real Title"}`))
			So(info.Title, ShouldEqual, "Real Title")
			So(info.Thumbnail, ShouldEqual, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg")
			So(info.Duration, ShouldEqual, "Unknown")
			So(info.ViewCount, ShouldEqual, "Unknown")
		})
		Convey("Should take the first thumbnail and accept numeric fields", func() {
			info := ResolveVideoInfo(testID, decodePayload(`{
				"thumbnails":[{"url":"https://i/1.jpg"},{"url":"https://i/2.jpg"}],
				"duration":212,"viewCount":"1500000000"}`))
			So(info.Title, ShouldEqual, "YouTube Video - dQw4w9WgXcQ")
			So(info.Thumbnail, ShouldEqual, "https://i/1.jpg")
			So(info.Duration, ShouldEqual, "212")
			So(info.ViewCount, ShouldEqual, "1500000000")
		})
		Convey("Should fill gaps from later payloads", func() {
			info := ResolveVideoInfo(testID, nil, decodePayload(`{"title":"Alt","duration":"3:32"}`))
			So(info.Title, ShouldEqual, "Alt")
			So(info.Duration, ShouldEqual, "3:32")
		})
	})
}
