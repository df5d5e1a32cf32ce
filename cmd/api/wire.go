package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/ports"
	"github.com/papyrus/bookstore-api/internal/core/service"
	"github.com/papyrus/bookstore-api/internal/infrastructure/blob"
	"github.com/papyrus/bookstore-api/internal/infrastructure/config"
	"github.com/papyrus/bookstore-api/internal/infrastructure/db/mongo"
	"github.com/papyrus/bookstore-api/internal/infrastructure/db/postgres"
	"github.com/papyrus/bookstore-api/internal/infrastructure/db/redis"
	"github.com/papyrus/bookstore-api/internal/infrastructure/http/handlers"
	"github.com/papyrus/bookstore-api/internal/infrastructure/notify"
)

type stores struct {
	users       ports.UserRepository
	admins      ports.AdminRepository
	revocations ports.RevocationRepository
	books       ports.BookRepository
	authors     ports.AuthorRepository
	genres      ports.GenreRepository

	ledgerOpts []service.LedgerOption
	readiness  []handlers.Dependency
	closers    []func(context.Context) error
}

func (s *stores) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{}

	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}
		st.users = postgres.NewUserRepository(db)
		st.admins = postgres.NewAdminRepository(db)
		st.revocations = postgres.NewRevocationRepository(db)
		st.books = postgres.NewBookRepository(db)
		st.authors = postgres.NewAuthorRepository(db)
		st.genres = postgres.NewGenreRepository(db)
		st.readiness = append(st.readiness, handlers.Dependency{Name: "postgres", Pinger: postgres.Pinger{DB: db}})
		st.closers = append(st.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		st.users = mongo.NewUserRepository(db)
		st.admins = mongo.NewAdminRepository(db)
		st.revocations = mongo.NewRevocationRepository(db)
		st.books = mongo.NewBookRepository(db)
		st.authors = mongo.NewAuthorRepository(db)
		st.genres = mongo.NewGenreRepository(db)
		st.readiness = append(st.readiness, handlers.Dependency{Name: "mongo", Pinger: mongo.Pinger{Client: client}})
		st.closers = append(st.closers, client.Disconnect)
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = st.close(ctx)
			return nil, err
		}
		st.ledgerOpts = append(st.ledgerOpts, service.WithRevocationCache(redis.NewRevocationCache(rdb)))
		st.readiness = append(st.readiness, handlers.Dependency{Name: "redis", Pinger: redis.Pinger{Client: rdb}})
		st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
	}

	log.Info().Str("store", cfg.Store.Driver).Bool("redis", cfg.Redis.Enabled).Msg("stores ready")
	return st, nil
}

func newNotifier(cfg *config.Config, log zerolog.Logger) (ports.Notifier, func(), error) {
	switch cfg.Notify.Driver {
	case config.NotifierSMTP:
		return notify.NewSMTPNotifier(notify.SMTPConfig{
			Server:   cfg.Mail.Server,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}), func() {}, nil
	case config.NotifierKafka:
		k := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.NotifyTopic)
		return k, func() {
			if err := k.Close(); err != nil {
				log.Error().Err(err).Msg("kafka writer close failed")
			}
		}, nil
	case config.NotifierLog:
		return notify.NewLogNotifier(log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifier %q", cfg.Notify.Driver)
	}
}

// newBlobStore also returns the directory to serve at /uploads, empty when
// uploads live elsewhere.
func newBlobStore(ctx context.Context, cfg *config.Config) (ports.BlobStore, string, error) {
	if cfg.Blob.Driver == config.BlobS3 {
		s, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		return s, "", err
	}
	s, err := blob.NewLocalStore(cfg.Blob.UploadDir)
	if err != nil {
		return nil, "", err
	}
	return s, s.Root(), nil
}
