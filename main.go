package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"remoteimages/internal/adapters/cdn"
	"remoteimages/internal/adapters/file"
	"remoteimages/internal/adapters/handler"
	"remoteimages/internal/adapters/store"
	"remoteimages/internal/core/domain/source"
	"remoteimages/internal/core/service"
	"remoteimages/internal/metrics"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting remote-images...")

	configPath := pflag.String("config", "", "path to a TOML config file (default ./config.toml)")
	nodesPath := pflag.String("nodes", "", "path to a JSON array of source content nodes")
	outPath := pflag.String("out", "-", "where to write generated image data, - for stdout")
	develop := pflag.Bool("develop", false, "serve the image proxy after the build")
	pflag.Parse()

	loadConfig(*configPath)

	var logLevel zerolog.Level

	switch viper.GetString("log.level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	imgix, err := cdn.NewImgix(viper.GetString("imgix.domain"), viper.GetString("imgix.secure_token"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing imgix url builder")
	}

	client := &http.Client{}

	fetcher, err := file.NewCachingFetcher(client, viper.GetString("cache.dir"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing placeholder cache")
	}

	nodeStore := store.NewMemory()
	build := service.NewBuildContext()

	generator := service.NewImageGenerator(imgix,
		service.NewPlaceholderFetcher(fetcher, viper.GetDuration("placeholder.timeout")))

	plugin := service.NewPlugin(source.NewRegistry(),
		service.NewRemoteFileRegistry(nodeStore),
		build,
		generator,
		nodeStore)

	if *nodesPath != "" {
		b := &builder{
			plugin:      plugin,
			store:       nodeStore,
			concurrency: viper.GetInt("build.concurrency"),
			imageArgs:   viper.GetStringMap("build.image_args"),
		}

		if err := b.run(ctx, *nodesPath, *outPath); err != nil {
			log.Fatal().Err(err).Msg("build failed")
		}
	}

	if !*develop {
		return
	}

	mux := http.NewServeMux()
	handler.NewProxy(imgix, client).Routes(mux)
	mux.Handle("GET /metrics", metrics.Handler())

	server := &http.Server{
		Addr:              viper.GetString("dev.listen_addr"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("dev server shutdown failed")
		}
		build.Reset()
	}()

	log.Info().Str("addr", server.Addr).Msg("dev server listening")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("dev server failed")
	}
}

func loadConfig(path string) {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("placeholder.timeout", service.DefaultPlaceholderTimeout)
	viper.SetDefault("cache.dir", ".cache/remote-images")
	viper.SetDefault("dev.listen_addr", "localhost:8000")
	viper.SetDefault("build.concurrency", 8)

	viper.SetEnvPrefix("remote_images")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			log.Fatal().Err(err).Msg("could not read config file")
		}
		log.Info().Msg("no config file found, using defaults and environment")
	}
}
