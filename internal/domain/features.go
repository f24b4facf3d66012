package domain

// FeatureRecord holds the 16 readings the AQI model is trained on.
// Missing upstream values are stored as 0, which the model cannot tell
// apart from a genuine zero reading.
type FeatureRecord struct {
	CO    float64 `json:"components_co"`
	NO    float64 `json:"components_no"`
	NO2   float64 `json:"components_no2"`
	O3    float64 `json:"components_o3"`
	SO2   float64 `json:"components_so2"`
	PM2_5 float64 `json:"components_pm2_5"`
	PM10  float64 `json:"components_pm10"`
	NH3   float64 `json:"components_nh3"`

	Temperature        float64 `json:"temperature_2m"`
	RelativeHumidity   float64 `json:"relative_humidity_2m"`
	DewPoint           float64 `json:"dew_point_2m"`
	Precipitation      float64 `json:"precipitation"`
	SurfacePressure    float64 `json:"surface_pressure"`
	WindSpeed          float64 `json:"wind_speed_10m"`
	WindDirection      float64 `json:"wind_direction_10m"`
	ShortwaveRadiation float64 `json:"shortwave_radiation"`
}

// FeatureNames lists the model's input columns in training order.
var FeatureNames = []string{
	"components_co",
	"components_no",
	"components_no2",
	"components_o3",
	"components_so2",
	"components_pm2_5",
	"components_pm10",
	"components_nh3",
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"precipitation",
	"surface_pressure",
	"wind_speed_10m",
	"wind_direction_10m",
	"shortwave_radiation",
}

// Vector returns the readings in FeatureNames order.
func (f FeatureRecord) Vector() []float64 {
	return []float64{
		f.CO,
		f.NO,
		f.NO2,
		f.O3,
		f.SO2,
		f.PM2_5,
		f.PM10,
		f.NH3,
		f.Temperature,
		f.RelativeHumidity,
		f.DewPoint,
		f.Precipitation,
		f.SurfacePressure,
		f.WindSpeed,
		f.WindDirection,
		f.ShortwaveRadiation,
	}
}

// Named returns the readings keyed by column name, for services that
// accept a named frame instead of a positional vector.
func (f FeatureRecord) Named() map[string]float64 {
	values := f.Vector()
	named := make(map[string]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		named[name] = values[i]
	}
	return named
}

// Location is a geocoded city
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Country   string  `json:"country"`
}

// DefaultCountry restricts geocoding to Pakistan
const DefaultCountry = "PK"
