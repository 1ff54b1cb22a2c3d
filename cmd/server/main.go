package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/jengzang/geotag-backend-go/internal/api"
	"github.com/jengzang/geotag-backend-go/internal/config"
	"github.com/jengzang/geotag-backend-go/internal/database"
	"github.com/jengzang/geotag-backend-go/internal/logging"
	"github.com/jengzang/geotag-backend-go/internal/observability"
	"github.com/jengzang/geotag-backend-go/internal/repository"
	"github.com/jengzang/geotag-backend-go/internal/service"
	"github.com/jengzang/geotag-backend-go/internal/track"
)

func main() {
	configPath := flag.String("config", "", "YAML config file applied over the environment")
	trackPath := flag.String("track", "", "GPX track to serve (overrides GEOTAG_TRACK)")
	flag.Parse()

	// 加载配置
	cfg := config.Load()
	if *configPath != "" {
		if err := config.LoadFile(*configPath, cfg); err != nil {
			log.Fatal("Failed to load config file:", err)
		}
	}
	if *trackPath != "" {
		cfg.TrackPath = *trackPath
	}
	if cfg.TrackPath == "" {
		log.Fatal("No track configured: pass -track or set GEOTAG_TRACK")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	t, err := track.LoadGPX(cfg.TrackPath, time.Duration(cfg.OffsetSeconds)*time.Second)
	if err != nil {
		log.Fatal("Failed to load track:", err)
	}

	metrics, err := observability.NewGeotagCollector(nil)
	if err != nil {
		log.Fatal("Failed to register metrics:", err)
	}
	metrics.SetTrackSamples(t.Len())

	deps := api.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Track:   service.NewTrackService(t, cfg.TrackPath),
	}

	// 初始化数据库
	if cfg.JournalPath != "" {
		if err := database.Init(database.Config{Path: cfg.JournalPath}); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer database.Close()
		deps.Journal = service.NewJournalService(repository.NewGeotagRepository(database.GetDB()))
	}

	// 初始化路由
	router := api.SetupRouter(deps)

	logger.Info(context.Background(), "server starting",
		logging.String("port", cfg.Port),
		logging.String("track", cfg.TrackPath),
		logging.Int("samples", t.Len()),
		logging.Bool("journal", cfg.JournalPath != ""),
	)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
