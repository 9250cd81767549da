package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/yt-video-details/config"
	"github.com/gcottom/yt-video-details/handlers"
	"github.com/gcottom/yt-video-details/pkg/http_client"
	"github.com/gcottom/yt-video-details/service/aws/ssm"
	"github.com/gcottom/yt-video-details/service/resolver"
	"github.com/gcottom/yt-video-details/service/upstream"
)

var detailsHandler *handlers.Handler

func main() {
	ctx := zaplog.CreateAndInject(context.Background())
	cfg := config.LoadConfigFromEnv()
	if cfg.APIKey == "" && cfg.APIKeySSMParameter != "" {
		config.ResolveAPIKey(ctx, cfg, ssm.NewParameterStore(ctx))
	}
	upstreamClient := upstream.NewClient(cfg, http_client.NewHTTPClient())
	formatResolver := resolver.NewResolver(upstreamClient, resolver.Options{
		TryAlternativeEndpoint:    cfg.TryAlternativeEndpoint,
		EnableFallbackDescriptors: cfg.EnableFallbackDescriptors,
	})
	detailsHandler = handlers.NewHandler(cfg, formatResolver)
	lambda.Start(handler)
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	ctx = zaplog.CreateAndInject(ctx)
	return detailsHandler.VideoDetails(ctx, req)
}
