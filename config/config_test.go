package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recommend.Direction != "movie" || cfg.Recommend.BatchSize != core.DefaultBatchSize {
		t.Errorf("recommend = %+v", cfg.Recommend)
	}
	if cfg.Model.Type != "baseline" || cfg.Model.Timeout != 5*time.Second {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.Store.Type != "" {
		t.Errorf("store.type = %q, want empty", cfg.Store.Type)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
recommend:
  direction: user
  batch_size: 50
  max_size: 3
model:
  type: lr
  bias: 0.5
  user_weights:
    age: 0.1
dataset:
  dir: /data/ml
  movielens: true
store:
  type: badger
  ttl: 3600
`)
	t.Setenv("MOVIEREC_RECOMMEND_MAX_SIZE", "7")
	t.Setenv("MOVIEREC_STORE_PATH", "/tmp/rec")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"log.level", cfg.Log.Level, "debug"},
		{"recommend.direction", cfg.Recommend.Direction, "user"},
		{"recommend.batch_size", cfg.Recommend.BatchSize, 50},
		{"recommend.max_size (env)", cfg.Recommend.MaxSize, 7},
		{"model.bias", cfg.Model.Bias, 0.5},
		{"model.user_weights.age", cfg.Model.UserWeights["age"], 0.1},
		{"dataset.dir", cfg.Dataset.Dir, "/data/ml"},
		{"dataset.movielens", cfg.Dataset.MovieLens, true},
		{"store.type", cfg.Store.Type, "badger"},
		{"store.path (env)", cfg.Store.Path, "/tmp/rec"},
		{"store.ttl", cfg.Store.TTL, 3600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	dir, err := cfg.Recommend.DirectionValue()
	if err != nil || dir != core.DirectionUser {
		t.Errorf("DirectionValue() = %v, %v", dir, err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad direction", "recommend:\n  direction: sideways\n"},
		{"zero batch size", "recommend:\n  batch_size: 0\n"},
		{"negative max size", "recommend:\n  max_size: -1\n"},
		{"unknown model", "model:\n  type: svd\n"},
		{"rpc without endpoint", "model:\n  type: rpc\n"},
		{"redis without addr", "store:\n  type: redis\n"},
		{"unknown store", "store:\n  type: mongo\n"},
		{"bad log format", "log:\n  format: xml\n"},
		{"feast without host", "feature:\n  source: feast\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Load() error = nil")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load(missing file) error = nil")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"MOVIEREC_RECOMMEND_BATCH_SIZE": "recommend.batch_size",
		"MOVIEREC_STORE_ADDR":           "store.addr",
		"MOVIEREC_DEBUG":                "debug",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewModel(t *testing.T) {
	tests := []struct {
		cfg     ModelConfig
		want    string
		wantErr bool
	}{
		{cfg: ModelConfig{Type: "baseline", UserReg: 5}, want: "baseline"},
		{cfg: ModelConfig{Type: "lr", Bias: 1}, want: "lr"},
		{cfg: ModelConfig{Type: "rpc", Endpoint: "http://localhost:8080/predict"}, want: "rpc"},
		{cfg: ModelConfig{Type: "rpc"}, wantErr: true},
		{cfg: ModelConfig{Type: "svd"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Type, func(t *testing.T) {
			m, err := NewModel(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewModel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && m.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", m.Name(), tt.want)
			}
		})
	}

	m, _ := NewModel(ModelConfig{Type: "baseline", UserReg: 5, MovieReg: 7})
	if b := m.(*model.BaselineModel); b.UserReg != 5 || b.MovieReg != 7 {
		t.Errorf("baseline regs = %v, %v", b.UserReg, b.MovieReg)
	}
}

func TestOpenStore(t *testing.T) {
	s, err := OpenStore(StoreConfig{})
	if err != nil || s != nil {
		t.Errorf("OpenStore(empty) = %v, %v", s, err)
	}
	for _, typ := range []string{"memory", "badger"} {
		s, err := OpenStore(StoreConfig{Type: typ})
		if err != nil {
			t.Fatalf("OpenStore(%s) error = %v", typ, err)
		}
		if s.Name() != typ {
			t.Errorf("Name() = %q, want %q", s.Name(), typ)
		}
		s.Close()
	}
	if _, err := OpenStore(StoreConfig{Type: "mongo"}); err == nil {
		t.Errorf("OpenStore(mongo) error = nil")
	}
}

func TestNewFeatureProviders(t *testing.T) {
	users, movies, err := NewFeatureProviders(FeatureConfig{}, nil)
	if err != nil || users != nil || movies != nil {
		t.Errorf("NewFeatureProviders(empty) = %v, %v, %v", users, movies, err)
	}

	if _, _, err := NewFeatureProviders(FeatureConfig{Source: "store"}, nil); err == nil {
		t.Errorf("NewFeatureProviders(store, nil) error = nil")
	}

	st, _ := OpenStore(StoreConfig{Type: "memory"})
	defer st.Close()
	users, movies, err = NewFeatureProviders(FeatureConfig{Source: "store", UserPrefix: "u:", MoviePrefix: "m:"}, st)
	if err != nil {
		t.Fatalf("NewFeatureProviders(store) error = %v", err)
	}
	if users.Name() != "store.memory" || movies.Name() != "store.memory" {
		t.Errorf("names = %q, %q", users.Name(), movies.Name())
	}
}
