package main

import (
	"database/sql"
	"flag"
	"strings"
	"traffic-route-service/internal/adapters/kvstore"
	"traffic-route-service/internal/config"
	"traffic-route-service/internal/platform/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// dbtool prepares the SQL history backends ahead of a deploy.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	backend := flag.String("backend", config.Get("HISTORY_BACKEND", string(config.BackendPostgres)), "postgres or sqlite")
	flag.Parse()

	var (
		conn       *sql.DB
		initSchema func(*sql.DB) error
		err        error
	)

	switch config.HistoryBackend(strings.ToLower(*backend)) {
	case config.BackendPostgres:
		databaseURL := config.Get("DATABASE_URL", "")
		if strings.TrimSpace(databaseURL) == "" {
			logrus.Fatal("DATABASE_URL is required")
		}
		conn, err = db.Open(databaseURL)
		initSchema = kvstore.InitPostgresSchema
	case config.BackendSqlite:
		conn, err = db.OpenSqlite(config.Get("SQLITE_PATH", "data/history.db"))
		initSchema = kvstore.InitSqliteSchema
	default:
		logrus.Fatalf("backend %q has no schema to initialize", *backend)
	}
	if err != nil {
		logrus.Fatal(err)
	}
	defer conn.Close()

	logrus.Info("Initializing database schema...")
	if err := initSchema(conn); err != nil {
		logrus.Fatalf("schema initialization failed: %v", err)
	}
	logrus.Info("Schema ready.")
}
