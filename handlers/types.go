package handlers

import (
	"context"
	"errors"
	"regexp"

	"github.com/gcottom/yt-video-details/config"
	"github.com/gcottom/yt-video-details/service/resolver"
)

var (
	ErrMissingVideoID = errors.New("missing videoId")
	ErrInvalidVideoID = errors.New("invalid videoId format")

	videoIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
)

type FormatResolver interface {
	Resolve(ctx context.Context, id string) *resolver.Result
}

type Handler struct {
	Config   *config.Config
	Resolver FormatResolver
}

type DetailsRequest struct {
	VideoID string `json:"videoId"`
}

type DetailsResponse struct {
	Success   bool                        `json:"success"`
	Title     string                      `json:"title"`
	Thumbnail string                      `json:"thumbnail"`
	Duration  string                      `json:"duration"`
	ViewCount string                      `json:"viewCount"`
	Formats   []resolver.FormatDescriptor `json:"formats"`
	Message   string                      `json:"message"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
