package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collStations       = "stations"
	collSnapshots      = "station_data"
	collScrapeStations = "scrap_stations"
	collScrapeReadings = "scrap_data"
)

// Store owns the Mongo connection and the four collections: station metadata
// and reading history for each of the two source families.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Stations       *StationStore
	Snapshots      *SnapshotStore
	ScrapeStations *ScrapeStationStore
	ScrapeReadings *ScrapeReadingStore
}

func Connect(ctx context.Context, uri, dbName string, connectTimeout time.Duration) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:         client,
		db:             db,
		Stations:       &StationStore{coll: db.Collection(collStations)},
		Snapshots:      &SnapshotStore{coll: db.Collection(collSnapshots)},
		ScrapeStations: &ScrapeStationStore{coll: db.Collection(collScrapeStations)},
		ScrapeReadings: &ScrapeReadingStore{coll: db.Collection(collScrapeReadings)},
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("creating indexes: %w", err)
	}

	return s, nil
}

// ensureIndexes enforces station identity at the store level. Insert-if-absent
// relies on these unique indexes rather than a lookup-then-insert pattern, so
// overlapping sync runs cannot create duplicates.
func (s *Store) ensureIndexes(ctx context.Context) error {
	uuidIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "station_id_uuid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(collStations).Indexes().CreateOne(ctx, uuidIndex); err != nil {
		return err
	}
	if _, err := s.db.Collection(collScrapeStations).Indexes().CreateOne(ctx, uuidIndex); err != nil {
		return err
	}

	rangeIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "station_id_uuid", Value: 1}, {Key: "horag_gen", Value: -1}},
	}
	if _, err := s.db.Collection(collSnapshots).Indexes().CreateOne(ctx, rangeIndex); err != nil {
		return err
	}
	_, err := s.db.Collection(collScrapeReadings).Indexes().CreateOne(ctx, rangeIndex)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
