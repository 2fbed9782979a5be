package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eatwhat/eatwhat/internal/httpserver"
	"github.com/eatwhat/eatwhat/internal/invitation"
	"github.com/eatwhat/eatwhat/internal/logger"
	"github.com/eatwhat/eatwhat/internal/match"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultAddr           = ":8080"
	defaultAnalysisDelay  = 30 * time.Millisecond
	defaultCandidateDelay = 500 * time.Millisecond
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the eatwhat recommendation server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address (default "+defaultAddr+")")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	generator, provider, err := newGenerator(ctx, config)
	if err != nil {
		zlog.Fatal(
			"configuring the model provider",
			zap.Error(err),
			zap.String("hint", "set DASHSCOPE_API_KEY and DASHSCOPE_APP_ID or the matching keys in the configuration file"),
		)
	}

	zlog = logger.WithCommonFields(zlog, provider, generator.Model())
	zlog.Info("starting the eatwhat server", zap.String("version", version))

	serverConfig := config.Server
	if serverConfig == nil {
		serverConfig = &ServerConfig{}
	}
	if serverConfig.Addr == "" {
		serverConfig.Addr = defaultAddr
	}
	if serverConfig.AnalysisDelay <= 0 {
		serverConfig.AnalysisDelay = defaultAnalysisDelay
	}
	if serverConfig.CandidateDelay <= 0 {
		serverConfig.CandidateDelay = defaultCandidateDelay
	}

	maxLogLength := 0
	if config.AI != nil {
		maxLogLength = config.AI.MaxLogLength
	}

	pipeline := match.NewPipeline(generator, zlog, maxLogLength)
	server := httpserver.New(httpserver.Config{
		Addr:           serverConfig.Addr,
		RequestTimeout: serverConfig.RequestTimeout,
		AnalysisDelay:  serverConfig.AnalysisDelay,
		CandidateDelay: serverConfig.CandidateDelay,
	}, zlog, pipeline, invitation.NewStore())

	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("http server failed", zap.Error(err))
	}

	zlog.Info("server stopped")
}
