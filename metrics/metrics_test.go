package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/recommend"
)

func TestCollector_ObserveBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveBatch(recommend.BatchStats{Direction: core.DirectionMovie, Sources: 100, Pairs: 300, Missing: 4, Duration: 20 * time.Millisecond})
	c.ObserveBatch(recommend.BatchStats{Direction: core.DirectionMovie, Sources: 50, Pairs: 150, Missing: 1, Duration: 10 * time.Millisecond})
	c.ObserveBatch(recommend.BatchStats{Direction: core.DirectionUser, Sources: 3, Pairs: 6})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"batches movie", testutil.ToFloat64(c.Batches.WithLabelValues("movie")), 2},
		{"batches user", testutil.ToFloat64(c.Batches.WithLabelValues("user")), 1},
		{"sources movie", testutil.ToFloat64(c.Sources.WithLabelValues("movie")), 150},
		{"pairs movie", testutil.ToFloat64(c.PairsScored.WithLabelValues("movie")), 450},
		{"missing movie", testutil.ToFloat64(c.MissingScores.WithLabelValues("movie")), 5},
		{"missing user", testutil.ToFloat64(c.MissingScores.WithLabelValues("user")), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if n := testutil.CollectAndCount(c.BatchDuration); n != 2 {
		t.Errorf("histogram series = %d, want 2", n)
	}
}

type constScorer struct{}

func (constScorer) Name() string { return "const" }

func (constScorer) Predict(pairs []core.Pair, _, _ core.FeatureTable) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		scores[i] = float64(p.Movie)
	}
	return scores, nil
}

func TestCollector_WithRecommender(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	users := make([]core.EntityID, 250)
	for i := range users {
		users[i] = core.EntityID(i + 1)
	}
	r := recommend.New(constScorer{}, recommend.WithObserver(c))
	if _, err := r.Recommend(&recommend.Request{
		Direction: core.DirectionMovie,
		Users:     users,
		Movies:    []core.EntityID{1, 2},
		MaxSize:   1,
	}); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if got := testutil.ToFloat64(c.Batches.WithLabelValues("movie")); got != 3 {
		t.Errorf("batches = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.PairsScored.WithLabelValues("movie")); got != 500 {
		t.Errorf("pairs = %v, want 500", got)
	}
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Errorf("second New() on same registry did not panic")
		}
	}()
	New(reg)
}
