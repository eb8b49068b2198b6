package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stationsync/internal/models"
)

// JoinedSnapshot is one snapshot document joined to its station's display name.
type JoinedSnapshot struct {
	HoragGen    time.Time       `bson:"horag_gen"`
	Sensors     []models.Sensor `bson:"sensors"`
	StationName string          `bson:"station_name"`
}

// JoinedScrapeReading is one scrape reading joined to its station's display name.
type JoinedScrapeReading struct {
	HoragGen    time.Time `bson:"horag_gen"`
	Temperature float64   `bson:"temperature"`
	StationName string    `bson:"station_name"`
}

// SnapshotStore holds the API-sourced reading history. Documents are written
// once per fetch cycle and never updated.
type SnapshotStore struct {
	coll *mongo.Collection
}

func (s *SnapshotStore) Insert(ctx context.Context, snap models.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := s.coll.InsertOne(ctx, snap)
	return err
}

// QueryBetween selects snapshots whose generation time falls in [start, end]
// for one station, carrying at least one ambient-class sensor, left-joined to
// the stations collection for the display name. Match order is preserved; no
// re-sort is applied.
func (s *SnapshotStore) QueryBetween(ctx context.Context, stationUUID string, start, end time.Time) ([]JoinedSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"horag_gen":           bson.M{"$gte": start, "$lte": end},
			"sensors.sensor_type": models.AmbientSensorType,
			"station_id_uuid":     stationUUID,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collStations,
			"localField":   "station_id_uuid",
			"foreignField": "station_id_uuid",
			"as":           "station_info",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$station_info",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"horag_gen":    1,
			"sensors":      1,
			"station_name": "$station_info.station_name",
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []JoinedSnapshot
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ScrapeReadingStore holds the scrape-sourced reading history.
type ScrapeReadingStore struct {
	coll *mongo.Collection
}

func (s *ScrapeReadingStore) Insert(ctx context.Context, reading models.ScrapeReading) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := s.coll.InsertOne(ctx, reading)
	return err
}

func (s *ScrapeReadingStore) QueryBetween(ctx context.Context, stationUUID string, start, end time.Time) ([]JoinedScrapeReading, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"horag_gen":       bson.M{"$gte": start, "$lte": end},
			"station_id_uuid": stationUUID,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collScrapeStations,
			"localField":   "station_id_uuid",
			"foreignField": "station_id_uuid",
			"as":           "station_info",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$station_info",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"horag_gen":    1,
			"temperature":  1,
			"station_name": "$station_info.station_name",
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []JoinedScrapeReading
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Latest returns the most recent persisted reading for a station, or nil when
// none exists.
func (s *ScrapeReadingStore) Latest(ctx context.Context, stationUUID string) (*models.ScrapeReading, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "horag_gen", Value: -1}})

	var reading models.ScrapeReading
	err := s.coll.FindOne(ctx, bson.M{"station_id_uuid": stationUUID}, opts).Decode(&reading)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}
