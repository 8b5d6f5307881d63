package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"medicine-chatbot-backend/config"
)

// Connect establishes database connection based on config. The memory store
// needs no connection.
func Connect(cfg *config.Config) error {
	switch cfg.Database.Type {
	case "mongodb":
		return ConnectMongoDB(cfg)
	case "memory":
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// Disconnect closes database connection
func Disconnect(cfg *config.Config) error {
	switch cfg.Database.Type {
	case "mongodb":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.Timeout)
		defer cancel()
		return DisconnectMongoDB(ctx)
	default:
		return nil
	}
}

// HealthCheck performs a database health check
func HealthCheck(ctx context.Context, cfg *config.Config) error {
	switch cfg.Database.Type {
	case "mongodb":
		if mongoClient == nil {
			return fmt.Errorf("MongoDB client not initialized")
		}
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return mongoClient.Ping(ctx, readpref.Primary())
	case "memory":
		return nil
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}
