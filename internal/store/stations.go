package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stationsync/internal/models"
)

// StationStore holds vendor-registered station metadata.
type StationStore struct {
	coll *mongo.Collection
}

// UpsertIfAbsent inserts the station unless one with the same station_id_uuid
// already exists. Existing records are never refreshed: re-running a full sync
// must not overwrite edits made to a station record. Returns true when a new
// record was inserted.
func (s *StationStore) UpsertIfAbsent(ctx context.Context, station models.Station) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"station_id_uuid": station.StationIDUUID},
		bson.M{"$setOnInsert": station},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (s *StationStore) ListAll(ctx context.Context) ([]models.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stations []models.Station
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// FindByUUID returns nil when no station matches.
func (s *StationStore) FindByUUID(ctx context.Context, uuid string) (*models.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var station models.Station
	err := s.coll.FindOne(ctx, bson.M{"station_id_uuid": uuid}).Decode(&station)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// ScrapeStationStore holds scrape-target station metadata.
type ScrapeStationStore struct {
	coll *mongo.Collection
}

// BulkInsert loads a batch of scrape-target stations, used by the one-off
// stations.json load. Duplicate uuids are rejected by the unique index but do
// not abort the remainder of the batch.
func (s *ScrapeStationStore) BulkInsert(ctx context.Context, stations []models.ScrapeStation) (int, error) {
	if len(stations) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(stations))
	for i := range stations {
		docs = append(docs, stations[i])
	}

	res, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}

func (s *ScrapeStationStore) ListAll(ctx context.Context) ([]models.ScrapeStation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stations []models.ScrapeStation
	if err := cursor.All(ctx, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

func (s *ScrapeStationStore) FindByUUID(ctx context.Context, uuid string) (*models.ScrapeStation, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var station models.ScrapeStation
	err := s.coll.FindOne(ctx, bson.M{"station_id_uuid": uuid}).Decode(&station)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &station, nil
}
