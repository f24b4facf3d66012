package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/breathify/backend/internal/domain"
	"github.com/breathify/backend/internal/metrics"
)

// currentWeatherVars are the Open-Meteo instantaneous variables the model uses
var currentWeatherVars = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"precipitation",
	"surface_pressure",
	"wind_speed_10m",
	"wind_direction_10m",
	"shortwave_radiation",
}

// EnvironmentConfig points the service at its upstream APIs
type EnvironmentConfig struct {
	APIKey       string
	GeoBaseURL   string
	OWMBaseURL   string
	MeteoBaseURL string
	Country      string
	HTTPClient   *http.Client
}

// EnvironmentService resolves a city and collects its pollution and weather readings
type EnvironmentService struct {
	apiKey       string
	geoBaseURL   string
	owmBaseURL   string
	meteoBaseURL string
	country      string
	httpClient   *http.Client
}

// NewEnvironmentService creates a new environment service
func NewEnvironmentService(cfg EnvironmentConfig) *EnvironmentService {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	country := cfg.Country
	if country == "" {
		country = domain.DefaultCountry
	}
	return &EnvironmentService{
		apiKey:       cfg.APIKey,
		geoBaseURL:   strings.TrimRight(cfg.GeoBaseURL, "/"),
		owmBaseURL:   strings.TrimRight(cfg.OWMBaseURL, "/"),
		meteoBaseURL: strings.TrimRight(cfg.MeteoBaseURL, "/"),
		country:      country,
		httpClient:   client,
	}
}

// geocodeMatch is one entry of the OpenWeatherMap direct geocoding response
type geocodeMatch struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// AirPollutionResponse represents the OpenWeatherMap air pollution response.
// List is a pointer so a missing key can be told apart from an empty list.
type AirPollutionResponse struct {
	List *[]struct {
		Components struct {
			CO    float64 `json:"co"`
			NO    float64 `json:"no"`
			NO2   float64 `json:"no2"`
			O3    float64 `json:"o3"`
			SO2   float64 `json:"so2"`
			PM2_5 float64 `json:"pm2_5"`
			PM10  float64 `json:"pm10"`
			NH3   float64 `json:"nh3"`
		} `json:"components"`
	} `json:"list"`
}

// OpenMeteoResponse represents the Open-Meteo forecast response
type OpenMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   *struct {
		Time               string  `json:"time"`
		Temperature        float64 `json:"temperature_2m"`
		RelativeHumidity   float64 `json:"relative_humidity_2m"`
		DewPoint           float64 `json:"dew_point_2m"`
		Precipitation      float64 `json:"precipitation"`
		SurfacePressure    float64 `json:"surface_pressure"`
		WindSpeed          float64 `json:"wind_speed_10m"`
		WindDirection      float64 `json:"wind_direction_10m"`
		ShortwaveRadiation float64 `json:"shortwave_radiation"`
	} `json:"current"`
}

// FetchEnvironment geocodes the city and merges its latest pollution and
// weather readings into one feature record. Calls run one after another.
func (s *EnvironmentService) FetchEnvironment(ctx context.Context, city string) (domain.FeatureRecord, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.FeatureRecord{}, domain.ErrEmptyCity
	}

	loc, err := s.Geocode(ctx, city)
	if err != nil {
		return domain.FeatureRecord{}, err
	}
	log.Printf("Resolved %q to %s (%.4f, %.4f)", city, loc.Name, loc.Latitude, loc.Longitude)

	var air AirPollutionResponse
	airURL := fmt.Sprintf("%s/data/2.5/air_pollution?lat=%s&lon=%s&appid=%s",
		s.owmBaseURL, formatCoord(loc.Latitude), formatCoord(loc.Longitude), url.QueryEscape(s.apiKey))
	if err := s.getJSON(ctx, "air_pollution", airURL, &air); err != nil {
		return domain.FeatureRecord{}, err
	}

	var weather OpenMeteoResponse
	weatherURL := fmt.Sprintf("%s/v1/forecast?latitude=%s&longitude=%s&current=%s",
		s.meteoBaseURL, formatCoord(loc.Latitude), formatCoord(loc.Longitude), strings.Join(currentWeatherVars, ","))
	if err := s.getJSON(ctx, "forecast", weatherURL, &weather); err != nil {
		return domain.FeatureRecord{}, err
	}

	if weather.Current == nil || air.List == nil {
		return domain.FeatureRecord{}, domain.ErrIncompleteData
	}
	if len(*air.List) == 0 {
		return domain.FeatureRecord{}, fmt.Errorf("air_pollution: empty reading list: %w", domain.ErrIncompleteData)
	}

	components := (*air.List)[0].Components
	current := weather.Current

	return domain.FeatureRecord{
		CO:                 components.CO,
		NO:                 components.NO,
		NO2:                components.NO2,
		O3:                 components.O3,
		SO2:                components.SO2,
		PM2_5:              components.PM2_5,
		PM10:               components.PM10,
		NH3:                components.NH3,
		Temperature:        current.Temperature,
		RelativeHumidity:   current.RelativeHumidity,
		DewPoint:           current.DewPoint,
		Precipitation:      current.Precipitation,
		SurfacePressure:    current.SurfacePressure,
		WindSpeed:          current.WindSpeed,
		WindDirection:      current.WindDirection,
		ShortwaveRadiation: current.ShortwaveRadiation,
	}, nil
}

// Geocode returns the first match for the city within the configured country
func (s *EnvironmentService) Geocode(ctx context.Context, city string) (domain.Location, error) {
	geoURL := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s",
		s.geoBaseURL, url.QueryEscape(city+","+s.country), url.QueryEscape(s.apiKey))

	var matches []geocodeMatch
	if err := s.getJSON(ctx, "geocode", geoURL, &matches); err != nil {
		return domain.Location{}, err
	}
	if len(matches) == 0 {
		return domain.Location{}, fmt.Errorf("geocode %q: %w", city, domain.ErrCityNotFound)
	}

	m := matches[0]
	return domain.Location{
		Name:      m.Name,
		Latitude:  m.Lat,
		Longitude: m.Lon,
		Country:   m.Country,
	}, nil
}

func (s *EnvironmentService) getJSON(ctx context.Context, api, rawURL string, out interface{}) error {
	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues(api).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", api, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(api, metrics.StatusError).Inc()
		return fmt.Errorf("%s: request failed: %w", api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamCallsTotal.WithLabelValues(api, strconv.Itoa(resp.StatusCode)).Inc()
		return fmt.Errorf("%s: upstream returned status %d", api, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(api, metrics.StatusError).Inc()
		return fmt.Errorf("%s: failed to decode response: %w", api, err)
	}

	metrics.UpstreamCallsTotal.WithLabelValues(api, metrics.StatusOK).Inc()
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
