package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/breathify/backend/internal/domain"
)

const (
	lahoreGeo = `[{"name":"Lahore","lat":31.5656,"lon":74.3142,"country":"PK","state":"Punjab"}]`

	lahoreAir = `{"coord":{"lon":74.3142,"lat":31.5656},"list":[{"main":{"aqi":5},
		"components":{"co":1428.77,"no":0.85,"no2":47.98,"o3":31.83,"so2":23.37,"pm2_5":187.4,"pm10":232.1,"nh3":21.03},
		"dt":1700000000}]}`

	lahoreWeather = `{"latitude":31.5,"longitude":74.25,"current_units":{"temperature_2m":"°C"},
		"current":{"time":"2024-11-10T12:00","interval":900,"temperature_2m":27.4,"relative_humidity_2m":48,
		"dew_point_2m":15.6,"precipitation":0.0,"surface_pressure":995.1,"wind_speed_10m":4.3,
		"wind_direction_10m":302,"shortwave_radiation":512.0}}`
)

type fakeUpstream struct {
	geo, air, weather string
	calls             atomic.Int32
	lastGeoQuery      atomic.Value
}

func (f *fakeUpstream) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastGeoQuery.Store(r.URL.Query().Get("q"))
		w.Write([]byte(f.geo))
	})
	mux.HandleFunc("/data/2.5/air_pollution", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.URL.Query().Get("appid") != "test-key" {
			http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
			return
		}
		w.Write([]byte(f.air))
	})
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.URL.Query().Get("current") == "" {
			http.Error(w, "missing current", http.StatusBadRequest)
			return
		}
		w.Write([]byte(f.weather))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEnvironment(srv *httptest.Server) *EnvironmentService {
	return NewEnvironmentService(EnvironmentConfig{
		APIKey:       "test-key",
		GeoBaseURL:   srv.URL,
		OWMBaseURL:   srv.URL,
		MeteoBaseURL: srv.URL + "/",
		HTTPClient:   srv.Client(),
	})
}

func TestFetchEnvironment(t *testing.T) {
	up := &fakeUpstream{geo: lahoreGeo, air: lahoreAir, weather: lahoreWeather}
	svc := newTestEnvironment(up.server(t))

	got, err := svc.FetchEnvironment(context.Background(), "  Lahore ")
	if err != nil {
		t.Fatalf("FetchEnvironment: %v", err)
	}

	want := domain.FeatureRecord{
		CO: 1428.77, NO: 0.85, NO2: 47.98, O3: 31.83, SO2: 23.37, PM2_5: 187.4, PM10: 232.1, NH3: 21.03,
		Temperature: 27.4, RelativeHumidity: 48, DewPoint: 15.6, Precipitation: 0,
		SurfacePressure: 995.1, WindSpeed: 4.3, WindDirection: 302, ShortwaveRadiation: 512,
	}
	if got != want {
		t.Errorf("features = %+v\nwant %+v", got, want)
	}
	if q, _ := up.lastGeoQuery.Load().(string); q != "Lahore,PK" {
		t.Errorf("geocode query = %q, want %q", q, "Lahore,PK")
	}
	if n := up.calls.Load(); n != 3 {
		t.Errorf("upstream calls = %d, want 3", n)
	}
}

func TestFetchEnvironmentMissingFieldsDefaultToZero(t *testing.T) {
	up := &fakeUpstream{
		geo:     lahoreGeo,
		air:     `{"list":[{"components":{"pm2_5":55.5}}]}`,
		weather: `{"current":{"temperature_2m":31.2,"relative_humidity_2m":null}}`,
	}
	svc := newTestEnvironment(up.server(t))

	got, err := svc.FetchEnvironment(context.Background(), "Lahore")
	if err != nil {
		t.Fatalf("FetchEnvironment: %v", err)
	}

	want := domain.FeatureRecord{PM2_5: 55.5, Temperature: 31.2}
	if got != want {
		t.Errorf("features = %+v, want %+v", got, want)
	}
}

func TestFetchEnvironmentErrors(t *testing.T) {
	tests := []struct {
		name    string
		up      *fakeUpstream
		wantErr error
		calls   int32
	}{
		{
			name:    "city not found",
			up:      &fakeUpstream{geo: `[]`, air: lahoreAir, weather: lahoreWeather},
			wantErr: domain.ErrCityNotFound,
			calls:   1,
		},
		{
			name:    "pollution list missing",
			up:      &fakeUpstream{geo: lahoreGeo, air: `{"coord":{}}`, weather: lahoreWeather},
			wantErr: domain.ErrIncompleteData,
			calls:   3,
		},
		{
			name:    "pollution list empty",
			up:      &fakeUpstream{geo: lahoreGeo, air: `{"list":[]}`, weather: lahoreWeather},
			wantErr: domain.ErrIncompleteData,
			calls:   3,
		},
		{
			name:    "weather current missing",
			up:      &fakeUpstream{geo: lahoreGeo, air: lahoreAir, weather: `{"error":true,"reason":"bad"}`},
			wantErr: domain.ErrIncompleteData,
			calls:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestEnvironment(tt.up.server(t))

			_, err := svc.FetchEnvironment(context.Background(), "Zzzyx")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if n := tt.up.calls.Load(); n != tt.calls {
				t.Errorf("upstream calls = %d, want %d", n, tt.calls)
			}
		})
	}
}

func TestFetchEnvironmentEmptyCityMakesNoCalls(t *testing.T) {
	up := &fakeUpstream{geo: lahoreGeo, air: lahoreAir, weather: lahoreWeather}
	svc := newTestEnvironment(up.server(t))

	for _, city := range []string{"", "   ", "\t\n"} {
		if _, err := svc.FetchEnvironment(context.Background(), city); !errors.Is(err, domain.ErrEmptyCity) {
			t.Errorf("FetchEnvironment(%q) error = %v, want ErrEmptyCity", city, err)
		}
	}
	if n := up.calls.Load(); n != 0 {
		t.Errorf("upstream calls = %d, want 0", n)
	}
}

func TestFetchEnvironmentUpstreamStatus(t *testing.T) {
	up := &fakeUpstream{geo: lahoreGeo, air: lahoreAir, weather: lahoreWeather}
	srv := up.server(t)
	svc := NewEnvironmentService(EnvironmentConfig{
		APIKey:       "wrong-key",
		GeoBaseURL:   srv.URL,
		OWMBaseURL:   srv.URL,
		MeteoBaseURL: srv.URL,
		HTTPClient:   srv.Client(),
	})

	_, err := svc.FetchEnvironment(context.Background(), "Lahore")
	if err == nil {
		t.Fatal("expected error for 401 from pollution API")
	}
	if errors.Is(err, domain.ErrCityNotFound) || errors.Is(err, domain.ErrIncompleteData) {
		t.Errorf("status error should not map to a domain error, got %v", err)
	}
}
