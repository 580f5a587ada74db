// The init package contains functions that setup required dependencies such as the SQLite database.
package initialization

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate"
	"github.com/golang-migrate/migrate/database/sqlite3"
	_ "github.com/golang-migrate/migrate/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gofederate/internal/config"
	"github.com/sidereusnuntius/gofederate/internal/domain"
)

// InstanceActorName is the username of the Service actor signing requests made on behalf of the instance.
const InstanceActorName = "instance"

// SetupDB applies all remaining migrations.
func SetupDB(db *sql.DB, folder, dbname string) error {
	log.Info().Msg("starting migrations")
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Error().Err(err).Msg("failed to create sqlite3 migration driver")
		return err
	}

	mig, err := migrate.NewWithDatabaseInstance(
		"file://"+folder,
		dbname,
		driver,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create Migrate object")
		return err
	}

	err = mig.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("database schema is up to date")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
		return err
	}
	return nil
}

// OpenDB opens the SQLite database. A single connection is kept open: SQLite serializes writers anyway,
// and shared in-memory databases live only as long as a connection does.
func OpenDB(connString string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connString)
	if err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to open database")
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		log.Error().Err(err).Str("connection string", connString).Msg("failed to connect to database")
		db.Close()
		return nil, err
	}
	return db, nil
}

type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Debug().Fields(params).Msg(message)
}

func (queueLogger) Error(message string, params ...any) {
	log.Error().Fields(params).Msg(message)
}

// InitQueue creates the backlite client storing tasks in db and installs its schema.
func InitQueue(cfg *config.Configuration, db *sql.DB) (*backlite.Client, error) {
	workers := cfg.QueueWorkers
	if workers <= 0 {
		workers = config.DefaultQueueWorkers
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		Logger:          queueLogger{},
		ReleaseAfter:    time.Minute,
		NumWorkers:      workers,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		return nil, err
	}

	if err = client.Install(); err != nil {
		return nil, err
	}
	return client, nil
}

type localActors interface {
	EnsureLocalActor(ctx context.Context, username, name, actorType string) (domain.Actor, error)
}

// EnsureInstanceActor creates the instance's Service actor on first start.
func EnsureInstanceActor(ctx context.Context, actors localActors, cfg *config.Configuration) (domain.Actor, error) {
	actor, err := actors.EnsureLocalActor(ctx, InstanceActorName, cfg.Name, domain.ServiceType)
	if err != nil {
		log.Error().Err(err).Msg("failed to ensure the instance actor exists")
		return domain.Actor{}, err
	}
	return actor, nil
}
