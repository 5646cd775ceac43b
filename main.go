package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"socialFeed/auth"
	"socialFeed/crud"
	"socialFeed/database"
	"socialFeed/feed"
	"socialFeed/http"
	"socialFeed/logging"
	"socialFeed/metrics"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a config file is provided before the application starts.")
	configPath := flag.String("config", ".config.yaml", "Path of the yaml config file.")
	flag.Parse()

	// Load configuration from the config file if present, otherwise use the default dev setup.
	// Environment variables override both. In production the file is required.
	config, err := LoadConfig(*configPath, *productionBool)
	must(err)

	logger, err := logging.New(config.IsProd())
	must(err)
	defer logger.Sync()

	// Open a database connection and execute migrations.
	db := database.NewDB(config.Database.Dialect, config.Database.ConnectionInfo())
	db.MaxOpenConns = config.Database.MaxOpenConns
	must(database.Open(db, config.IsProd()))
	defer database.Close(db)
	must(database.AutoMigrate(db))

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithGuard(crud.GuardConfig{
			Timeout:      config.Database.Timeout,
			MinRequests:  config.Database.BreakerMinRequests,
			FailureRatio: config.Database.BreakerFailureRatio,
			OpenTimeout:  config.Database.BreakerOpenTimeout,
			Logger:       logger,
		}),
		crud.WithUser(config.Pepper, config.BcryptCost),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
	)
	must(err)

	tokens, err := auth.NewTokens(auth.TokensConfig{
		Secret:     config.SecretKey,
		Issuer:     config.Tokens.Issuer,
		AccessTTL:  config.Tokens.AccessTTL,
		RefreshTTL: config.Tokens.RefreshTTL,
	})
	must(err)

	collector := metrics.NewCollector()
	core := feed.New(feed.Stores{
		Users:    services.User,
		Posts:    services.Post,
		Comments: services.Comment,
		Likes:    services.Like,
	}, tokens, feed.WithMetrics(collector), feed.WithLogger(logger))

	// Set up a webserver.
	server, err := http.NewServer(core, http.Config{
		AllowedOrigins: config.AllowedOrigins,
		Logger:         logger,
		Metrics:        collector,
	})
	must(err)

	// Serve the app until SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = server.Run(ctx, ":"+strconv.Itoa(config.Port), http.Timeouts{
		Read:     config.HTTP.ReadTimeout,
		Write:    config.HTTP.WriteTimeout,
		Idle:     config.HTTP.IdleTimeout,
		Shutdown: config.HTTP.ShutdownTimeout,
	})
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
