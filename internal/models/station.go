package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Station is one vendor-registered weather station. Records are written once by
// the registry sync and never refreshed afterwards.
type Station struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StationID           int                `bson:"station_id" json:"station_id"`
	StationIDUUID       string             `bson:"station_id_uuid" json:"station_id_uuid"`
	StationName         string             `bson:"station_name" json:"station_name"`
	GatewayID           int                `bson:"gateway_id,omitempty" json:"gateway_id,omitempty"`
	GatewayIDHex        string             `bson:"gateway_id_hex,omitempty" json:"gateway_id_hex,omitempty"`
	ProductNumber       string             `bson:"product_number,omitempty" json:"product_number,omitempty"`
	Username            string             `bson:"username,omitempty" json:"username,omitempty"`
	UserEmail           string             `bson:"user_email,omitempty" json:"user_email,omitempty"`
	CompanyName         string             `bson:"company_name,omitempty" json:"company_name,omitempty"`
	Active              bool               `bson:"active" json:"active"`
	Private             bool               `bson:"private" json:"private"`
	RecordingInterval   int                `bson:"recording_interval,omitempty" json:"recording_interval,omitempty"`
	FirmwareVersion     string             `bson:"firmware_version,omitempty" json:"firmware_version,omitempty"`
	IMEI                string             `bson:"imei,omitempty" json:"imei,omitempty"`
	RegisteredDate      int64              `bson:"registered_date,omitempty" json:"registered_date,omitempty"`
	SubscriptionEndDate int64              `bson:"subscription_end_date,omitempty" json:"subscription_end_date,omitempty"`
	TimeZone            string             `bson:"time_zone,omitempty" json:"time_zone,omitempty"`
	City                string             `bson:"city,omitempty" json:"city,omitempty"`
	Region              string             `bson:"region,omitempty" json:"region,omitempty"`
	Country             string             `bson:"country,omitempty" json:"country,omitempty"`
	Latitude            float64            `bson:"latitude" json:"latitude"`
	Longitude           float64            `bson:"longitude" json:"longitude"`
	Elevation           float64            `bson:"elevation,omitempty" json:"elevation,omitempty"`
}

// ScrapeStation is a station whose readings come from the scraped public page
// rather than the vendor API.
type ScrapeStation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StationIDUUID string             `bson:"station_id_uuid" json:"station_id_uuid"`
	StationName   string             `bson:"station_name" json:"station_name"`
	Latitude      float64            `bson:"latitude" json:"latitude"`
	Longitude     float64            `bson:"longitude" json:"longitude"`
	Elevation     float64            `bson:"elevation,omitempty" json:"elevation,omitempty"`
}
