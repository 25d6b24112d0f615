package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/Saravana-31/Form-Builder/internal/config"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Store owns every connection the process opens. It is built once at
// startup, handed to the repositories and closed on shutdown.
type Store struct {
	Driver string
	SQL    *gorm.DB
	Mongo  *mongo.Database
	Redis  *redis.Client

	mongoClient *mongo.Client
}

// Open connects the backend named by cfg.Database.Driver and, when enabled,
// Redis. The memory driver opens nothing.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	s := &Store{Driver: cfg.Database.Driver}

	switch cfg.Database.Driver {
	case "mongo":
		client, err := InitMongo(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		s.mongoClient = client
		s.Mongo = client.Database(cfg.Database.MongoDatabase)
	case "memory":
	default:
		db, err := InitDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		s.SQL = db
	}

	if cfg.Redis.Enabled {
		rdb, err := InitRedis(ctx, &cfg.Redis)
		if err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.Redis = rdb
	}
	return s, nil
}

// Migrate brings the schema (sql) or indexes (mongo) up to date.
func (s *Store) Migrate(ctx context.Context) error {
	switch {
	case s.SQL != nil:
		return Migrate(s.SQL.WithContext(ctx))
	case s.Mongo != nil:
		return EnsureMongoIndexes(ctx, s.Mongo)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.SQL != nil {
		sqlDB, err := s.SQL.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
	}
	if s.mongoClient != nil {
		if err := s.mongoClient.Ping(ctx, nil); err != nil {
			return err
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	var errs []error
	if s.SQL != nil {
		if sqlDB, err := s.SQL.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
		s.SQL = nil
	}
	if s.mongoClient != nil {
		errs = append(errs, s.mongoClient.Disconnect(ctx))
		s.mongoClient, s.Mongo = nil, nil
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
		s.Redis = nil
	}
	return errors.Join(errs...)
}
