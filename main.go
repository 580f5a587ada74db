package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/client"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/db/impl"
	"github.com/sidereusnuntius/gofederate/internal/federation/fedb"
	"github.com/sidereusnuntius/gofederate/internal/gateway"
	"github.com/sidereusnuntius/gofederate/internal/idgen"
	"github.com/sidereusnuntius/gofederate/internal/initialization"
	"github.com/sidereusnuntius/gofederate/internal/queue"
	"github.com/sidereusnuntius/gofederate/internal/state"
	"github.com/sidereusnuntius/gofederate/internal/web"
	"github.com/sidereusnuntius/gofederate/internal/wellknown"
	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
)

const userAgent = "gofederate/0.1"

func main() {
	configPath := pflag.String("config", "", "path to the configuration file")
	pflag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.ReadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read configuration")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, &cfg); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func run(ctx context.Context, cfg *config.Configuration) error {
	conn, err := initialization.OpenDB(cfg.DbUrl)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info().Msg("database connection established")

	if err = initialization.SetupDB(conn, cfg.MigrationsFolder, cfg.DbUrl); err != nil {
		return err
	}

	bl, err := initialization.InitQueue(cfg, conn)
	if err != nil {
		return fmt.Errorf("unable to set up the delivery queue: %w", err)
	}

	DB := impl.New(*cfg, conn, impl.Options{Returning: true})

	var salt []byte
	if cfg.IdSalt != "" {
		sum := blake3.Sum256([]byte(cfg.IdSalt))
		salt = sum[:idgen.SaltSize]
	}
	ids, err := idgen.New(DB, salt, nil)
	if err != nil {
		return err
	}

	// The signed client needs the instance actor's key, which the cache creates on first start.
	cache := fedb.New(DB, ids, *cfg, nil)
	instance, err := initialization.EnsureInstanceActor(ctx, cache, cfg)
	if err != nil {
		return err
	}
	key, err := cache.PrivateKey(ctx, instance.ID, cfg.UserKEK)
	if err != nil {
		return fmt.Errorf("unsealing the instance key: %w", err)
	}

	httpClient, err := client.New(&http.Client{Timeout: 30 * time.Second}, userAgent, key, instance.KeyID())
	if err != nil {
		return err
	}
	cache.SetFetcher(httpClient)

	queue.Start(ctx, bl, queue.NewConsumer(cache, httpClient))
	fanout := queue.NewFanout(DB, queue.NewSubmitter(bl), cfg.UserKEK)

	st := &state.State{
		Config:     cfg,
		DB:         DB,
		Cache:      cache,
		Dispatcher: gateway.New(DB, cache, httpClient, fanout, cfg),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	if cfg.Debug {
		router.Use(middleware.Logger)
	}
	handler := web.New(st)
	handler.Mount(router)
	wellknown.Mount(st, router)

	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("failed to shut down the server")
		}
	}()

	log.Info().Uint16("port", cfg.Port).Str("url", cfg.Url.String()).Msg("started server")
	if err = s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
