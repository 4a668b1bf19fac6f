package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/storeapi"
	"github.com/talkincode/storefront/internal/webserver"
	"go.uber.org/zap"
)

var version = "develop"

var (
	h         = flag.Bool("h", false, "help usage")
	showVer   = flag.Bool("v", false, "show version")
	conffile  = flag.String("c", "", "config yaml file")
	envfile   = flag.String("env", ".env", "dotenv file loaded before the config")
	initdb    = flag.Bool("initdb", false, "recreate all tables, existing data is lost")
	migrateDB = flag.Bool("migrate", false, "migrate the database schema and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}
	if *h {
		flag.Usage()
		return
	}

	// a missing .env is fine, the environment may be set already
	_ = godotenv.Load(*envfile)

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.InitDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "init dirs: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init application: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	switch {
	case *initdb:
		application.InitDb()
		zap.S().Info("database initialized")
		return
	case *migrateDB:
		// Init has migrated already
		return
	}

	srv, err := webserver.NewServer(cfg)
	if err != nil {
		zap.S().Errorf("create web server: %v", err)
		return
	}
	storeapi.Register(srv, application.Repos(), cfg.Web.MediaURL)
	srv.RegisterHealth(application.Ping)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		if err != nil {
			zap.S().Error(err)
		}
		return
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("shutdown: %v", err)
	}
}
