package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pokeru-app/backend/internal/blocklist"
	"github.com/pokeru-app/backend/internal/config"
	"github.com/pokeru-app/backend/internal/db"
	"github.com/pokeru-app/backend/internal/events"
	"github.com/pokeru-app/backend/internal/httpserver"
	"github.com/pokeru-app/backend/internal/logging"
	"github.com/pokeru-app/backend/internal/mail"
	mwauth "github.com/pokeru-app/backend/internal/middleware/auth"
	loggingmw "github.com/pokeru-app/backend/internal/middleware/logging"
	"github.com/pokeru-app/backend/internal/repo"
	"github.com/pokeru-app/backend/internal/search"
	"github.com/pokeru-app/backend/internal/service"
	"github.com/pokeru-app/backend/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	blist, err := blocklist.Connect(initCtx, cfg.RedisHost, cfg.RedisPort)
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	defer blist.Close()

	codec, err := tokens.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	if err != nil {
		log.Fatalf("token codec error: %v", err)
	}
	safe := tokens.NewSafeCodec(cfg.JWTSecret, cfg.SafeTokenExpiry)

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	var gameIndex *search.Index
	if cfg.ESURL != "" {
		gameIndex, err = search.NewIndex(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	gormRepo := &repo.GormRepo{DB: gormDB}

	authSvc := &service.AuthService{
		Repo:       gormRepo,
		Codec:      codec,
		Safe:       safe,
		Blocklist:  blist,
		Mailer:     mail.NewResendMailer(cfg.ResendAPIKey),
		Producer:   producer,
		Domain:     cfg.Domain,
		APIVersion: cfg.APIVersion,
		JTIExpiry:  cfg.JTIExpiry,
	}
	gameSvc := &service.GameService{Repo: gormRepo, Index: gameIndex}

	e := echo.New()
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		GameHandler: &httpserver.GameHTTP{Svc: gameSvc},
		Guard:       &mwauth.TokenGuard{Codec: codec, Blocklist: blist},
		Roles:       &mwauth.RoleGate{Users: gormRepo},
		APIVersion:  cfg.APIVersion,
	})

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
