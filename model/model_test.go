package model

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/recommend"
)

func trainSet() *TrainSet {
	return &TrainSet{
		Pairs: []core.Pair{
			{User: 1, Movie: 101},
			{User: 1, Movie: 102},
			{User: 2, Movie: 101},
			{User: 2, Movie: 103},
			{User: 3, Movie: 102},
		},
		Targets: []float64{5, 3, 4, 2, 4},
	}
}

func TestTrainSet_Validate(t *testing.T) {
	var nilSet *TrainSet
	if err := nilSet.Validate(); !errors.Is(err, core.ErrInvalidTrainSet) {
		t.Errorf("nil Validate() error = %v", err)
	}
	bad := &TrainSet{Pairs: []core.Pair{{User: 1, Movie: 2}}}
	if err := bad.Validate(); !core.IsInvalidInput(err) {
		t.Errorf("mismatch Validate() error = %v, want invalid input", err)
	}
	if err := trainSet().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBaselineModel_FitPredict(t *testing.T) {
	m := NewBaselineModel()
	if _, err := m.Predict([]core.Pair{{User: 1, Movie: 101}}, nil, nil); !errors.Is(err, core.ErrModelNotFitted) {
		t.Fatalf("Predict() before Fit error = %v, want not fitted", err)
	}

	m.UserReg, m.MovieReg = 0, 0
	if err := m.Fit(trainSet(), trainSet()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if math.Abs(m.globalMean-3.6) > 1e-9 {
		t.Errorf("global mean = %v, want 3.6", m.globalMean)
	}

	// 无正则时 b_m(101) = ((5-3.6)+(4-3.6))/2 = 0.9
	if got := m.movieBias[101]; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("movie 101 bias = %v, want 0.9", got)
	}

	scores, err := m.Predict([]core.Pair{
		{User: 1, Movie: 101},
		{User: 9, Movie: 101}, // 未知用户
		{User: 1, Movie: 999}, // 未知电影
	}, nil, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}
	if core.IsMissing(scores[0]) {
		t.Errorf("known pair scored missing")
	}
	if !core.IsMissing(scores[1]) || !core.IsMissing(scores[2]) {
		t.Errorf("cold-start pairs = %v, want missing", scores[1:])
	}

	rmse, n, err := m.RMSE(trainSet())
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if n != 5 || rmse <= 0 || rmse > 2 {
		t.Errorf("RMSE() = %v over %d samples", rmse, n)
	}
}

func TestBaselineModel_FitRejectsBadSet(t *testing.T) {
	m := NewBaselineModel()
	bad := &TrainSet{Pairs: []core.Pair{{User: 1, Movie: 1}}, Targets: nil}
	if err := m.Fit(bad, nil); !errors.Is(err, core.ErrInvalidTrainSet) {
		t.Errorf("Fit(bad) error = %v", err)
	}
	if err := m.Fit(trainSet(), bad); !errors.Is(err, core.ErrInvalidTrainSet) {
		t.Errorf("Fit(valid=bad) error = %v", err)
	}
}

func TestBaselineModel_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "baseline")

	m := NewBaselineModel()
	if err := m.Save(dir); !errors.Is(err, core.ErrModelNotFitted) {
		t.Fatalf("Save() before Fit error = %v", err)
	}
	if err := m.Fit(trainSet(), nil); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name() != "baseline" {
		t.Fatalf("loaded model = %s, want baseline", loaded.Name())
	}

	pairs := trainSet().Pairs
	want, _ := m.Predict(pairs, nil, nil)
	got, err := loaded.Predict(pairs, nil, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("loaded predictions = %v, want %v", got, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("Load(empty dir) error = nil")
	}

	dir := t.TempDir()
	manifest := "name: nope\nversion: 1\n"
	if err := os.WriteFile(filepath.Join(dir, manifestFile), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); !errors.Is(err, core.ErrUnknownModel) {
		t.Errorf("Load(unknown) error = %v, want ErrUnknownModel", err)
	}

	lr := &LRModel{}
	if err := saveDir(dir, "baseline", &baselineParams{}); err != nil {
		t.Fatal(err)
	}
	if err := lr.Load(dir); err == nil {
		t.Errorf("LRModel.Load(baseline dir) error = nil")
	}
}

func TestNames(t *testing.T) {
	want := []string{"baseline", "lr", "rpc"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLRModel_Predict(t *testing.T) {
	m := &LRModel{
		Bias:         0,
		UserWeights:  map[string]float64{"age": 0.1},
		MovieWeights: map[string]float64{"year": -0.5},
	}
	if err := m.Fit(trainSet(), nil); !core.IsNotSupported(err) {
		t.Errorf("Fit() error = %v, want not supported", err)
	}

	scores, err := m.Predict([]core.Pair{{User: 1, Movie: 10}}, nil, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if scores[0] != 0.5 {
		t.Errorf("Predict() without features = %v, want sigmoid(0) = 0.5", scores[0])
	}

	users := core.FeatureTable{1: {"age": 10}}
	movies := core.FeatureTable{10: {"year": 2}}
	scores, err = m.Predict([]core.Pair{{User: 1, Movie: 10}, {User: 2, Movie: 10}}, users, movies)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	// z = 0.1*10 - 0.5*2 = 0
	if math.Abs(scores[0]-0.5) > 1e-12 {
		t.Errorf("score = %v, want 0.5", scores[0])
	}
	if !core.IsMissing(scores[1]) {
		t.Errorf("user without features scored %v, want missing", scores[1])
	}

	dir := t.TempDir()
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, m) {
		t.Errorf("loaded = %+v, want %+v", loaded, m)
	}
}

func TestRPCModel_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scores := make([]*float64, len(req.Pairs))
		for i, p := range req.Pairs {
			if p[1] == 0 {
				continue // null
			}
			v := float64(p[0]) / float64(p[1])
			scores[i] = &v
		}
		_ = json.NewEncoder(w).Encode(rpcResponse{Scores: scores})
	}))
	defer srv.Close()

	m := NewRPCModel(srv.URL, time.Second)
	if err := m.Fit(nil, nil); !core.IsNotSupported(err) {
		t.Errorf("Fit() error = %v, want not supported", err)
	}

	scores, err := m.Predict([]core.Pair{{User: 1, Movie: 2}, {User: 3, Movie: 0}}, nil, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if scores[0] != 0.5 || !core.IsMissing(scores[1]) {
		t.Errorf("Predict() = %v, want [0.5 NaN]", scores)
	}

	// 作为 Scorer 接入推荐核心
	res, err := Recommend(m, &recommend.Request{
		Direction: core.DirectionMovie,
		Users:     []core.EntityID{1},
		Movies:    []core.EntityID{4, 2, 0},
	})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := res.Recommendations(0); len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Errorf("Recommend() = %v, want [2 4]", got)
	}

	dir := t.TempDir()
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	rpc, ok := loaded.(*RPCModel)
	if !ok || rpc.Endpoint != srv.URL || rpc.Timeout != time.Second {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestRPCModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-200",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "count mismatch",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"scores":[1]}`))
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			m := NewRPCModel(srv.URL, time.Second)
			if _, err := m.Predict([]core.Pair{{User: 1, Movie: 1}, {User: 1, Movie: 2}}, nil, nil); err == nil {
				t.Errorf("Predict() error = nil")
			}
		})
	}
}
