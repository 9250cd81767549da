package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gcottom/go-zaplog"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	RouteVideoDetails = "/video-details"
	RouteNetlify      = "/.netlify/functions/get-video-details"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Any(RouteVideoDetails, handler.ServeGin)
	router.Any(RouteNetlify, handler.ServeGin)
}

// ProxyHandler is the lambda handler signature.
type ProxyHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error)

// ServeGin adapts a gin request to the proxy event so the local server runs
// exactly the lambda code path.
func (h *Handler) ServeGin(ctx *gin.Context) {
	h.serveProxy(ctx, h.VideoDetails)
}

func (h *Handler) serveProxy(ctx *gin.Context, handle ProxyHandler) {
	req, err := ProxyRequestFromHTTP(ctx.Request)
	if err != nil {
		zaplog.ErrorC(ctx, "failed to read request body", zap.Error(err))
		writeProxyResponse(ctx, h.respondJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"}))
		return
	}
	resp, err := handle(ctx, req)
	if err != nil || resp == nil {
		zaplog.ErrorC(ctx, "proxy handler failed", zap.Error(err))
		resp = h.respondJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}
	writeProxyResponse(ctx, resp)
}

func ProxyRequestFromHTTP(r *http.Request) (events.APIGatewayProxyRequest, error) {
	req := events.APIGatewayProxyRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               map[string]string{},
		QueryStringParameters: map[string]string{},
	}
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			req.QueryStringParameters[k] = vs[0]
		}
	}
	for k := range r.Header {
		req.Headers[k] = r.Header.Get(k)
	}
	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return req, err
		}
		req.Body = string(body)
	}
	return req, nil
}

func writeProxyResponse(ctx *gin.Context, resp *events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		ctx.Header(k, v)
	}
	contentType := resp.Headers["Content-Type"]
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/json"
	}
	ctx.Data(resp.StatusCode, contentType, []byte(resp.Body))
}
