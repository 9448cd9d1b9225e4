package main

import (
	"net/http"
	"path/filepath"

	"github.com/yumyai/fe1/internal/util"
	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/config"
	mydb "github.com/yumyai/fe1/pkg/db"
	"github.com/yumyai/fe1/pkg/handler"
	"github.com/yumyai/fe1/pkg/middle"
	"github.com/yumyai/fe1/pkg/runner"
	"github.com/yumyai/fe1/pkg/sink"
	"github.com/yumyai/fe1/pkg/validate"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const VERSION = "0.1.0"

func main() {

	cfg, foundDotenv, err := config.Load()
	if err != nil {
		panic(err)
	}

	level, err := cfg.Level()
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Establish logger
	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}
	defer logger.Sync() // Make sure that the buffered is flushed.

	if !foundDotenv {
		logger.Warn("No .env found, using local environment")
	}

	logger.Info("Start:", zap.String("Version", VERSION))

	if err := util.EnsureDir(filepath.Dir(cfg.DBPath)); err != nil {
		logger.Fatal("Cannot create database directory", zap.Error(err))
	}

	store, err := mydb.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("Cannot open database", zap.Error(err))
	}
	defer store.Close()

	dir, err := sink.NewDir(cfg.ResultsDir)
	if err != nil {
		logger.Fatal("Cannot prepare result directory", zap.Error(err))
	}

	defaults := validate.Defaults{
		Propagation:       cfg.DefaultPropagation,
		FilterRefFeatures: cfg.DefaultFilterRefFeatures,
	}

	app := &handler.AppContext{
		Runner:     runner.New(store, sink.Multi{dir, store}, defaults),
		Store:      store,
		ResultsDir: cfg.ResultsDir,
	}

	mux := NewRouter(app)

	// Apply middleware
	h := middle.Chain(mux,
		middle.RequestIDMiddleware(logger.L()),
		middle.LoggingMiddleware(logger.L()),
	)

	logger.Info("Server starting on", zap.String("addr", cfg.Addr))
	httpErr := http.ListenAndServe(cfg.Addr, h)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}
