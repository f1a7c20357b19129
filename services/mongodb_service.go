package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/models"
)

var ErrMongoDisabled = errors.New("MongoDB not enabled")

const CollectionVersionHistory = "version_history"

// MongoDBService keeps the minor group distribution over time
type MongoDBService struct {
	client  *mongo.Client
	db      *mongo.Database
	enabled bool
}

func NewMongoDBService(cfg *config.Config) (*MongoDBService, error) {
	if !cfg.MongoDB.Enabled {
		log.Println("MongoDB is disabled in configuration")
		return &MongoDBService{enabled: false}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	service := &MongoDBService{
		client:  client,
		db:      client.Database(cfg.MongoDB.Database),
		enabled: true,
	}

	if err := service.createIndexes(ctx); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	log.Printf("MongoDB connected successfully to database: %s", cfg.MongoDB.Database)
	return service, nil
}

func (m *MongoDBService) Enabled() bool {
	return m != nil && m.enabled
}

func (m *MongoDBService) createIndexes(ctx context.Context) error {
	_, err := m.db.Collection(CollectionVersionHistory).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("timestamp_desc"),
	})
	return err
}

func (m *MongoDBService) Close() error {
	if !m.Enabled() || m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoDBService) InsertVersionHistory(ctx context.Context, point *models.VersionHistoryPoint) error {
	if !m.Enabled() {
		return nil
	}
	_, err := m.db.Collection(CollectionVersionHistory).InsertOne(ctx, point)
	return err
}

// GetVersionHistory returns points newer than since, oldest first
func (m *MongoDBService) GetVersionHistory(ctx context.Context, since time.Time) ([]models.VersionHistoryPoint, error) {
	if !m.Enabled() {
		return nil, ErrMongoDisabled
	}

	filter := bson.M{"timestamp": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := m.db.Collection(CollectionVersionHistory).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []models.VersionHistoryPoint{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// NewVersionHistoryPoint condenses version groups into a storable point
func NewVersionHistoryPoint(groups []models.VersionGroup, all []models.Validator, at time.Time) *models.VersionHistoryPoint {
	total := TotalStake(all)
	point := &models.VersionHistoryPoint{
		Timestamp:  at,
		TotalStake: total,
		Validators: len(all),
		Groups:     make([]models.GroupPoint, 0, len(groups)),
	}
	for _, g := range groups {
		pct := 0.0
		if total > 0 {
			pct = float64(g.Stake) / float64(total) * 100
		}
		point.Groups = append(point.Groups, models.GroupPoint{
			Group:      g.Group,
			Stake:      g.Stake,
			Percentage: pct,
		})
	}
	return point
}
