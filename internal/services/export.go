package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Column maps an internal field key to its human-readable CSV title.
type Column struct {
	Key   string
	Title string
}

// SnapshotColumns is the fixed export schema for API-sourced readings. Order
// is part of the file contract.
var SnapshotColumns = []Column{
	{"ts", "Fecha y Hora"},
	{"tz_offset", "tz_offset"},
	{"bar", "Presion"},
	{"bar_absolute", "Presion Absoluta"},
	{"bar_trend", "Tendencia de Presion"},
	{"dew_point", "Punto de rocio"},
	{"et_day", "Evapotranspiracion"},
	{"forecast_rule", "Regla Pronostico"},
	{"forecast_desc", "Pronostico"},
	{"heat_index", "Indice de calor"},
	{"hum_out", "Humedad"},
	{"rain_15_min_clicks", "Lluvia 15 minutos clicks"},
	{"rain_15_min_in", "Lluvia 15 minutos in"},
	{"rain_15_min_mm", "Lluvia 15 minutos mm"},
	{"rain_60_min_clicks", "Lluvia 60 minutos clicks"},
	{"rain_60_min_in", "Lluvia 60 minutos in"},
	{"rain_60_min_mm", "Lluvia 60 minutos mm"},
	{"rain_24_hr_clicks", "Lluvia 24 horas clicks"},
	{"rain_24_hr_in", "Lluvia 24 horas in"},
	{"rain_24_hr_mm", "Lluvia 24 horas mm"},
	{"rain_day_clicks", "Lluvia dia clicks"},
	{"rain_day_in", "Lluvia dia in"},
	{"rain_day_mm", "Lluvia dia mm"},
	{"rain_rate_clicks", "Intensidad lluvia clicks"},
	{"rain_rate_in", "Intensidad lluvia in"},
	{"rain_rate_mm", "Intensidad lluvia mm"},
	{"rain_storm_clicks", "Tormenta clicks"},
	{"rain_storm_in", "Tormenta in"},
	{"rain_storm_mm", "Tormente mm"},
	{"rain_storm_start_date", "Inicio Tormenta"},
	{"solar_rad", "Radiacion Solar"},
	{"temp_out", "Temperatura"},
	{"thsw_index", "Indice THSW"},
	{"uv", "uv"},
	{"wind_chill", "Sensacion Termica"},
	{"wind_dir", "Direccion del viento"},
	{"wind_dir_of_gust_10_min", "Direccion de Rafaga"},
	{"wind_gust_10_min", "Rafaga 10 min"},
	{"wind_speed", "Velocidad del viento"},
	{"wind_speed_2_min", "Velocidad del viento 2 min"},
	{"wind_speed_10_min", "Velocidad del viento 10 min"},
	{"wet_bulb", "Bulbo humedo"},
}

// ScrapeColumns is the fixed export schema for scrape-sourced readings.
var ScrapeColumns = []Column{
	{"horag_gen", "Fecha y Hora"},
	{"temperature", "Temperatura"},
}

// temperatureFields carry Fahrenheit values that are converted to Celsius on
// export.
var temperatureFields = map[string]bool{
	"temp_out":    true,
	"thsw_index":  true,
	"wind_chill":  true,
	"wet_bulb":    true,
	"temperature": true,
}

// WriteCSV writes a header row of column titles followed by one line per row.
// Missing and falsy cells (including a real zero reading) collapse to the
// string "0"; that precision loss is part of the file contract and must not
// be fixed here.
func WriteCSV(w io.Writer, columns []Column, rows []Row) error {
	writer := csv.NewWriter(w)

	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = col.Title
	}
	if err := writer.Write(titles); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = formatCell(col.Key, row[col.Key])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(key string, value any) string {
	if isFalsy(value) {
		return "0"
	}
	if temperatureFields[key] {
		if f, ok := asFloat(value); ok {
			return strconv.FormatFloat(FToC(f), 'f', 2, 64)
		}
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case float32:
		return v == 0
	case int:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	default:
		return false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
