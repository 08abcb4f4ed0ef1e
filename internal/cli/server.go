package cli

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	api "github.com/classleaf/quizport/internal/api/http"
	"github.com/classleaf/quizport/internal/auth"
	"github.com/classleaf/quizport/internal/config"
	"github.com/classleaf/quizport/internal/db"
	"github.com/classleaf/quizport/internal/quiz"
	"github.com/classleaf/quizport/internal/session"
	"github.com/classleaf/quizport/internal/verify"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the assessment server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

// openStore builds the record store from config. "memory" is for offline
// single-process runs and tests.
func openStore(ctx context.Context, cfg config.Config) (quiz.Store, error) {
	if cfg.DB.Driver == "memory" {
		return quiz.NewMemoryStore(), nil
	}
	dbh, err := db.Open(ctx, db.Driver(cfg.DB.Driver), cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	return quiz.NewSQLStore(dbh), nil
}

func runServer(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := openStore(openCtx, cfg)
	if err != nil {
		return err
	}

	var cache *verify.Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = verify.NewCache(client, cfg.RedisTTL())
	}

	svc := quiz.NewService(store)
	verifier := verify.NewService(store, cache)
	authSvc := auth.NewService(cfg.Auth.HMACSecret, cfg.TokenTTL(), store)
	sessions := session.NewController()

	handler := api.NewRouter(api.Deps{
		Store:       store,
		Service:     svc,
		Verifier:    verifier,
		Auth:        authSvc,
		Sessions:    sessions,
		CORSOrigins: cfg.CORS.Origins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket sessions stay open across the quiz window
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Printf("listening on %s (db=%s)", cfg.Server.Addr, cfg.DB.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
