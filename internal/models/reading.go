package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sensor is one instrument stream inside a station snapshot. The vendor payload
// carries dozens of optional numeric/string fields per data point, so the inner
// records stay untyped maps; sensor_type 23 is the ambient weather class every
// downstream query filters on.
type Sensor struct {
	LSID              int64            `bson:"lsid" json:"lsid"`
	SensorType        int              `bson:"sensor_type" json:"sensor_type"`
	DataStructureType int              `bson:"data_structure_type" json:"data_structure_type"`
	Data              []map[string]any `bson:"data" json:"data"`
}

// AmbientSensorType is the sensor class consumed by the report and export paths.
const AmbientSensorType = 23

// Snapshot is one persisted API fetch for a station. Immutable once written.
// StationIDUUID is denormalized alongside the back-reference so range queries
// on this collection can filter by station without a join; the join is still
// needed to recover the display name.
type Snapshot struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StationRef    primitive.ObjectID `bson:"stations" json:"stations"`
	StationID     int                `bson:"station_id" json:"station_id"`
	StationIDUUID string             `bson:"station_id_uuid" json:"station_id_uuid"`
	GeneratedAt   int64              `bson:"generated_at,omitempty" json:"generated_at,omitempty"`
	Sensors       []Sensor           `bson:"sensors" json:"sensors"`
	HoragGen      time.Time          `bson:"horag_gen" json:"horag_gen"`
}

// ScrapeReading is one persisted scrape result: a single temperature value.
type ScrapeReading struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StationRef    primitive.ObjectID `bson:"stations" json:"stations"`
	StationIDUUID string             `bson:"station_id_uuid" json:"station_id_uuid"`
	Temperature   float64            `bson:"temperature" json:"temperature"`
	HoragGen      time.Time          `bson:"horag_gen" json:"horag_gen"`
}
