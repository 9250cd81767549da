package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/gcottom/go-zaplog"
	"github.com/gcottom/qgin/qgin"
	"github.com/gcottom/yt-video-details/config"
	"github.com/gcottom/yt-video-details/handlers"
	"github.com/gcottom/yt-video-details/pkg/http_client"
	"github.com/gcottom/yt-video-details/service/resolver"
	"github.com/gcottom/yt-video-details/service/upstream"
	"github.com/spf13/afero"
)

func main() {
	path := flag.String("config", "", "path to the yaml config file")
	flag.Parse()
	config, err := config.LoadConfigFromFile(afero.NewOsFs(), *path)
	if err != nil {
		panic(err)
	}
	if err := RunServer(config); err != nil {
		panic(err)
	}
}

func RunServer(cfg *config.Config) error {
	ctx := zaplog.CreateAndInject(context.Background())
	zaplog.InfoC(ctx, "starting video details server")

	zaplog.InfoC(ctx, "creating http client")
	httpClient := http_client.NewHTTPClient()

	zaplog.InfoC(ctx, "creating format resolver")
	formatResolver := resolver.NewResolver(upstream.NewClient(cfg, httpClient), resolver.Options{
		TryAlternativeEndpoint:    cfg.TryAlternativeEndpoint,
		EnableFallbackDescriptors: cfg.EnableFallbackDescriptors,
	})

	zaplog.InfoC(ctx, "creating gin engine")
	ginws := qgin.NewGinEngine(&ctx, &qgin.Config{
		UseContextMW:       true,
		UseLoggingMW:       true,
		UseRequestIDMW:     false,
		InjectRequestIDCTX: false,
		LogRequestID:       false,
		ProdMode:           true,
	})

	zaplog.InfoC(ctx, "setting up routes")
	handlers.SetupRoutes(ginws, handlers.NewHandler(cfg, formatResolver))

	zaplog.InfoC(ctx, fmt.Sprintf("serving on port %d", cfg.LocalPort))
	return http.ListenAndServe(fmt.Sprintf(":%d", cfg.LocalPort), ginws)
}
