package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/repository"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// DefaultMongoDatabase is used when the URI names no database.
const DefaultMongoDatabase = "storefront"

// PhoneIndexName names the unique index on users.phone.
const PhoneIndexName = "phone_unique"

// MongoDatabaseName returns the database named in the URI path.
func MongoDatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse MONGODB_URI: %w", err)
	}
	if cs.Database == "" {
		return DefaultMongoDatabase, nil
	}
	return cs.Database, nil
}

// ConnectMongo connects and pings, retrying like ConnectDB, and returns
// the client and the database named in the URI.
func ConnectMongo(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	dbName, err := MongoDatabaseName(uri)
	if err != nil {
		return nil, nil, err
	}

	clientOptions := options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, connectBackoff(), func(ctx context.Context) error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			logger.Warn("failed to reach MongoDB",
				"attempt", attempt, "max_attempts", connectAttempts, "retry_in", connectRetryInterval, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB after %d attempts: %w", attempt, err)
	}

	logger.Info("connected to MongoDB", "database", dbName)
	return client, client.Database(dbName), nil
}

// EnsureMongoIndexes creates the unique phone index on the users collection.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(PhoneIndexName),
	}
	if _, err := db.Collection(repository.UsersCollection).Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create %s index: %w", PhoneIndexName, err)
	}
	logger.Info("MongoDB indexes ensured", "collection", repository.UsersCollection)
	return nil
}
