package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENWEATHER_API_KEY", "MODEL_PATH", "MODEL_CLASS_OFFSET", "ML_SERVICE_URL",
		"DATABASE_URL", "TTS_PROVIDER", "OPENAI_API_KEY", "OPENAI_TTS_MODEL",
		"SESSION_TTL", "PORT", "GEO_BASE_URL", "TIMEZONE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("OPENWEATHER_API_KEY", "owm-key")
	t.Setenv("MODEL_PATH", "testdata/aqi_lightgbm_model.txt")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ModelClassOffset != 1 {
		t.Errorf("ModelClassOffset = %d, want 1", cfg.ModelClassOffset)
	}
	if cfg.TTSProvider != TTSProviderGoogle {
		t.Errorf("TTSProvider = %q, want google", cfg.TTSProvider)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.GeoBaseURL != "http://api.openweathermap.org" {
		t.Errorf("GeoBaseURL = %q", cfg.GeoBaseURL)
	}
	if cfg.Timezone != "Asia/Karachi" {
		t.Errorf("Timezone = %q, want Asia/Karachi", cfg.Timezone)
	}
	if cfg.UseRemoteModel() {
		t.Error("UseRemoteModel should be false without ML_SERVICE_URL")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{"OPENWEATHER_API_KEY": ""},
			wantErr: "OPENWEATHER_API_KEY",
		},
		{
			name:    "missing model",
			env:     map[string]string{"MODEL_PATH": ""},
			wantErr: "MODEL_PATH",
		},
		{
			name:    "remote model instead of file",
			env:     map[string]string{"MODEL_PATH": "", "ML_SERVICE_URL": "http://localhost:8000"},
			wantErr: "",
		},
		{
			name:    "openai without key",
			env:     map[string]string{"TTS_PROVIDER": "openai"},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "openai with key",
			env:     map[string]string{"TTS_PROVIDER": "openai", "OPENAI_API_KEY": "sk-test"},
			wantErr: "",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"TTS_PROVIDER": "espeak"},
			wantErr: "unknown TTS_PROVIDER",
		},
		{
			name:    "bad offset",
			env:     map[string]string{"MODEL_CLASS_OFFSET": "one"},
			wantErr: "MODEL_CLASS_OFFSET",
		},
		{
			name:    "bad session ttl",
			env:     map[string]string{"SESSION_TTL": "forever"},
			wantErr: "SESSION_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
