package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gcottom/yt-video-details/service/upstream"
)

// upstreamFailure maps a classified upstream error to a status and body.
func upstreamFailure(err error) (int, ErrorResponse) {
	var httpErr *upstream.HTTPError
	var timeoutErr *upstream.TimeoutError
	var networkErr *upstream.NetworkError
	switch {
	case errors.As(err, &httpErr):
		code := httpErr.StatusCode
		if code < 400 || code > 599 {
			code = http.StatusInternalServerError
		}
		return code, ErrorResponse{Error: "Upstream API Error", Message: httpErr.Message}
	case errors.As(err, &timeoutErr):
		return http.StatusRequestTimeout, ErrorResponse{Error: "Request Timeout", Message: fmt.Sprintf("YouTube API did not respond within %s", timeoutErr.Timeout)}
	case errors.As(err, &networkErr):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "Network Error", Message: "No response from YouTube API"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Message: err.Error()}
	}
}
