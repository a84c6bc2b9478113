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
	"traffic-route-service/internal/adapters/kvstore"
	"traffic-route-service/internal/adapters/routing"
	"traffic-route-service/internal/api"
	"traffic-route-service/internal/config"
	"traffic-route-service/internal/platform/db"
	"traffic-route-service/internal/platform/logging"
	"traffic-route-service/internal/ports"
	"traffic-route-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Points per path when no routing API key is configured.
const straightLinePoints = 50

// main is the application composition root.
// It wires concrete adapters (history store, path cache, ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	stores, err := openStores(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer stores.close()

	provider, err := newProvider(cfg, stores.pathCache)
	if err != nil {
		logrus.Fatal(err)
	}

	rnd := services.NewTimeSeededRandom()
	congestion := services.NewCongestionModel(services.DefaultCongestionConfig(), rnd)
	segmenter := services.NewSegmenter(services.DefaultSegmentConfig(), congestion)
	scorer := services.NewRouteScorer(provider, segmenter, rnd, services.DefaultScoreConfig())

	historyCfg := services.DefaultHistoryConfig()
	historyCfg.KeyPrefix = cfg.HistoryKeyPrefix
	historyCfg.MaxItems = cfg.HistoryMaxItems
	history := services.NewSearchHistory(stores.history, historyCfg)

	predictor := services.NewPredictor(scorer, rnd,
		services.WithHistory(history),
		services.WithRequestTracker(services.NewRequestTracker()),
	)

	router := api.NewRouter(predictor, history, cfg.CORSOrigins)

	// Timeouts are tuned for cold-cache predictions (two upstream directions calls).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"backend": cfg.HistoryBackend,
		}).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}

type storeSet struct {
	history   ports.KeyValueStore
	pathCache ports.KeyValueStore
	closers   []func() error
}

func (s *storeSet) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logrus.WithError(err).Warn("close store failed")
		}
	}
}

// openStores opens the configured history backend and the path cache. Cached
// paths expire after PATH_CACHE_TTL on every backend: in Redis when Redis
// holds history, in the badger database when badger does, and in an
// in-memory badger otherwise.
func openStores(cfg config.Config) (_ *storeSet, err error) {
	s := &storeSet{}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	switch cfg.HistoryBackend {
	case config.BackendMemory:
		s.history = kvstore.NewMemoryStore()

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("open stores: ping redis %q: %w", cfg.RedisAddr, err)
		}
		s.history = kvstore.NewRedisStore(client, 0)
		s.pathCache = kvstore.NewRedisStore(client, cfg.PathCacheTTL)
		s.closers = append(s.closers, client.Close)

	case config.BackendPostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open stores: %w", err)
		}
		if err := kvstore.InitPostgresSchema(conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open stores: %w", err)
		}
		s.history = kvstore.NewSQLStore(conn)
		s.closers = append(s.closers, conn.Close)

	case config.BackendSqlite:
		conn, err := db.OpenSqlite(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open stores: %w", err)
		}
		if err := kvstore.InitSqliteSchema(conn); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open stores: %w", err)
		}
		s.history = kvstore.NewSqliteStore(conn)
		s.closers = append(s.closers, conn.Close)

	case config.BackendBadger:
		bdb, err := kvstore.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, fmt.Errorf("open stores: %w", err)
		}
		s.history = kvstore.NewBadgerStore(bdb, 0)
		s.pathCache = kvstore.NewBadgerStore(bdb, cfg.PathCacheTTL)
		s.closers = append(s.closers, bdb.Close)

	default:
		return nil, fmt.Errorf("open stores: unknown backend %q", cfg.HistoryBackend)
	}

	if s.pathCache == nil {
		cacheDB, err := kvstore.OpenBadger("")
		if err != nil {
			return nil, fmt.Errorf("open stores: path cache: %w", err)
		}
		s.pathCache = kvstore.NewBadgerStore(cacheDB, cfg.PathCacheTTL)
		s.closers = append(s.closers, cacheDB.Close)
	}

	return s, nil
}

// newProvider returns the ORS provider when a key is configured, or a
// straight-line stand-in for local runs. Either way paths go through the cache.
func newProvider(cfg config.Config, cache ports.KeyValueStore) (ports.RoutingProvider, error) {
	if cfg.ORSAPIKey == "" {
		logrus.Warn("ORS_API_KEY not set; serving straight-line paths")
		return routing.NewCachedProvider(routing.NewStraightLineProvider(straightLinePoints), cache), nil
	}

	ors, err := routing.NewORSDirectionsProvider(cfg.ORSAPIKey, routing.ORSOptions{
		BaseURL:       cfg.ORSBaseURL,
		RatePerMinute: cfg.ORSRatePerMin,
	})
	if err != nil {
		return nil, fmt.Errorf("new provider: %w", err)
	}
	return routing.NewCachedProvider(ors, cache), nil
}
