package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/yt-video-details/config"
	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

func NewHandler(cfg *config.Config, r FormatResolver) *Handler {
	return &Handler{Config: cfg, Resolver: r}
}

// VideoDetails is the single endpoint. The returned error is always nil;
// failures are carried in the response status.
func (h *Handler) VideoDetails(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	requestID := req.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	method := strings.ToUpper(req.HTTPMethod)

	switch {
	case method == http.MethodOptions:
		return h.respond(http.StatusOK, ""), nil
	case method == http.MethodGet:
	case method == http.MethodPost && h.Config.AllowPost:
	default:
		zaplog.WarnC(ctx, "method not allowed", zap.String("requestID", requestID), zap.String("method", req.HTTPMethod))
		return h.respondJSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"}), nil
	}

	raw, err := requestVideoID(method, req)
	if err != nil {
		zaplog.WarnC(ctx, "invalid request body", zap.String("requestID", requestID), zap.Error(err))
		return h.respondJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Message: "Body must be JSON like {\"videoId\": \"...\"}"}), nil
	}
	id, err := h.parseVideoID(raw)
	if errors.Is(err, ErrMissingVideoID) {
		zaplog.WarnC(ctx, "video details request without videoId present", zap.String("requestID", requestID))
		return h.respondJSON(http.StatusBadRequest, ErrorResponse{Error: "Missing videoId parameter", Message: "Please provide a YouTube video ID"}), nil
	}
	if err != nil {
		zaplog.WarnC(ctx, "video details request with invalid videoId", zap.String("requestID", requestID), zap.String("videoId", raw))
		return h.respondJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid videoId format", Message: "A YouTube video ID is 11 characters of letters, digits, - or _"}), nil
	}

	if h.Config.APIKey == "" {
		zaplog.ErrorC(ctx, "upstream api key is not configured", zap.String("requestID", requestID))
		return h.respondJSON(http.StatusInternalServerError, ErrorResponse{Error: "API key not configured on server", Message: "Set " + config.EnvAPIKey + " in the function environment"}), nil
	}

	zaplog.InfoC(ctx, "video details request received", zap.String("requestID", requestID), zap.String("videoId", id))
	result := h.Resolver.Resolve(ctx, id)
	if len(result.Formats) == 0 && result.UpstreamErr != nil {
		code, body := upstreamFailure(result.UpstreamErr)
		zaplog.ErrorC(ctx, "video details request failed", zap.String("requestID", requestID), zap.Int("code", code), zap.Error(result.UpstreamErr))
		return h.respondJSON(code, body), nil
	}

	zaplog.InfoC(ctx, "video details request successful", zap.String("requestID", requestID), zap.String("videoId", id),
		zap.String("source", string(result.Source)), zap.Int("count", len(result.Formats)))
	return h.respondJSON(http.StatusOK, DetailsResponse{
		Success:   true,
		Title:     result.Info.Title,
		Thumbnail: result.Info.Thumbnail,
		Duration:  result.Info.Duration,
		ViewCount: result.Info.ViewCount,
		Formats:   result.Formats,
		Message:   result.Message,
	}), nil
}

// requestVideoID reads the POST body first, then the query string.
func requestVideoID(method string, req events.APIGatewayProxyRequest) (string, error) {
	if method == http.MethodPost && strings.TrimSpace(req.Body) != "" {
		body := []byte(req.Body)
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return "", err
			}
			body = decoded
		}
		var data DetailsRequest
		if err := json.Unmarshal(body, &data); err != nil {
			return "", err
		}
		if data.VideoID != "" {
			return data.VideoID, nil
		}
	}
	return req.QueryStringParameters["videoId"], nil
}

// parseVideoID accepts a bare id or, with validation on, any YouTube URL shape.
func (h *Handler) parseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingVideoID
	}
	if !h.Config.ValidateIDFormat {
		return raw, nil
	}
	id, err := youtube.ExtractVideoID(raw)
	if err != nil || !videoIDPattern.MatchString(id) {
		return "", ErrInvalidVideoID
	}
	return id, nil
}

func (h *Handler) headers() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": h.Config.AllowedMethods(),
		"Content-Type":                 "application/json",
	}
}

func (h *Handler) respond(code int, body string) *events.APIGatewayProxyResponse {
	return &events.APIGatewayProxyResponse{
		StatusCode: code,
		Headers:    h.headers(),
		Body:       body,
	}
}

func (h *Handler) respondJSON(code int, v any) *events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return h.respond(http.StatusInternalServerError, `{"success":false,"error":"Internal Server Error","message":"failed to marshal response"}`)
	}
	return h.respond(code, string(body))
}
