package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/breathify/backend/internal/domain"
)

func TestMLBridgePredict(t *testing.T) {
	var received map[string]map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/predict":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"prediction": 4}`))
		case "/health":
			w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	bridge := NewMLBridge(srv.URL + "/")

	if err := bridge.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}

	got, err := bridge.Predict(context.Background(), domain.FeatureRecord{PM2_5: 150, Temperature: 30})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 4 {
		t.Errorf("prediction = %d, want 4", got)
	}

	features := received["features"]
	if len(features) != len(domain.FeatureNames) {
		t.Fatalf("sent %d features, want %d", len(features), len(domain.FeatureNames))
	}
	if features["components_pm2_5"] != 150 || features["temperature_2m"] != 30 {
		t.Errorf("features sent = %v", features)
	}
}

func TestMLBridgeFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`},
		{"no prediction", http.StatusOK, `{"label":"moderate"}`},
		{"bad json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewMLBridge(srv.URL).Predict(context.Background(), domain.FeatureRecord{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMLBridgeHealthDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if err := NewMLBridge(srv.URL).Health(context.Background()); err == nil {
		t.Fatal("expected health error")
	}
}
