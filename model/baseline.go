package model

import (
	"math"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/logging"
)

// BaselineModel 是带阻尼的偏置基线模型：
//
//	r̂(u, m) = μ + b_u + b_m
//
// 其中 b_m = Σ(r - μ) / (MovieReg + n_m)，b_u = Σ(r - μ - b_m) / (UserReg + n_u)。
// 闭式求解，无需迭代。训练集中从未出现的用户或电影返回 NaN（冷启动，分数缺失）。
type BaselineModel struct {
	UserReg  float64
	MovieReg float64

	globalMean float64
	userBias   map[core.EntityID]float64
	movieBias  map[core.EntityID]float64
}

type baselineParams struct {
	UserReg    float64                   `json:"user_reg"`
	MovieReg   float64                   `json:"movie_reg"`
	GlobalMean float64                   `json:"global_mean"`
	UserBias   map[core.EntityID]float64 `json:"user_bias"`
	MovieBias  map[core.EntityID]float64 `json:"movie_bias"`
}

func init() {
	Register("baseline", func() Model { return NewBaselineModel() })
}

func NewBaselineModel() *BaselineModel {
	return &BaselineModel{UserReg: 10, MovieReg: 25}
}

func (m *BaselineModel) Name() string { return "baseline" }

func (m *BaselineModel) Fit(train *TrainSet, valid *TrainSet) error {
	if err := train.Validate(); err != nil {
		return err
	}
	if valid != nil {
		if err := valid.Validate(); err != nil {
			return err
		}
	}

	var sum float64
	for _, r := range train.Targets {
		sum += r
	}
	if len(train.Targets) > 0 {
		m.globalMean = sum / float64(len(train.Targets))
	}

	movieSum := make(map[core.EntityID]float64)
	movieCnt := make(map[core.EntityID]int)
	for i, p := range train.Pairs {
		movieSum[p.Movie] += train.Targets[i] - m.globalMean
		movieCnt[p.Movie]++
	}
	m.movieBias = make(map[core.EntityID]float64, len(movieSum))
	for id, s := range movieSum {
		m.movieBias[id] = s / (m.MovieReg + float64(movieCnt[id]))
	}

	userSum := make(map[core.EntityID]float64)
	userCnt := make(map[core.EntityID]int)
	for i, p := range train.Pairs {
		userSum[p.User] += train.Targets[i] - m.globalMean - m.movieBias[p.Movie]
		userCnt[p.User]++
	}
	m.userBias = make(map[core.EntityID]float64, len(userSum))
	for id, s := range userSum {
		m.userBias[id] = s / (m.UserReg + float64(userCnt[id]))
	}

	ev := logging.Info().
		Str("model", m.Name()).
		Int("samples", len(train.Pairs)).
		Int("users", len(m.userBias)).
		Int("movies", len(m.movieBias)).
		Float64("global_mean", m.globalMean)
	if valid != nil {
		rmse, n, err := m.RMSE(valid)
		if err != nil {
			return err
		}
		ev = ev.Float64("valid_rmse", rmse).Int("valid_scored", n)
	}
	ev.Msg("model fitted")
	return nil
}

func (m *BaselineModel) Predict(pairs []core.Pair, _, _ core.FeatureTable) ([]float64, error) {
	if m.userBias == nil || m.movieBias == nil {
		return nil, core.ErrModelNotFitted
	}
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		bu, okU := m.userBias[p.User]
		bm, okM := m.movieBias[p.Movie]
		if !okU || !okM {
			scores[i] = core.Missing()
			continue
		}
		scores[i] = m.globalMean + bu + bm
	}
	return scores, nil
}

// RMSE 计算 set 上的均方根误差，缺失分数的样本不计入；返回参与计算的样本数。
func (m *BaselineModel) RMSE(set *TrainSet) (float64, int, error) {
	if err := set.Validate(); err != nil {
		return 0, 0, err
	}
	pred, err := m.Predict(set.Pairs, set.UserFeatures, set.MovieFeatures)
	if err != nil {
		return 0, 0, err
	}
	var sq float64
	n := 0
	for i, p := range pred {
		if core.IsMissing(p) {
			continue
		}
		d := p - set.Targets[i]
		sq += d * d
		n++
	}
	if n == 0 {
		return core.Missing(), 0, nil
	}
	return math.Sqrt(sq / float64(n)), n, nil
}

func (m *BaselineModel) Save(dir string) error {
	if m.userBias == nil || m.movieBias == nil {
		return core.ErrModelNotFitted
	}
	return saveDir(dir, m.Name(), &baselineParams{
		UserReg:    m.UserReg,
		MovieReg:   m.MovieReg,
		GlobalMean: m.globalMean,
		UserBias:   m.userBias,
		MovieBias:  m.movieBias,
	})
}

func (m *BaselineModel) Load(dir string) error {
	var p baselineParams
	if err := loadDir(dir, m.Name(), &p); err != nil {
		return err
	}
	m.UserReg, m.MovieReg = p.UserReg, p.MovieReg
	m.globalMean = p.GlobalMean
	m.userBias = p.UserBias
	m.movieBias = p.MovieBias
	if m.userBias == nil {
		m.userBias = make(map[core.EntityID]float64)
	}
	if m.movieBias == nil {
		m.movieBias = make(map[core.EntityID]float64)
	}
	return nil
}

var _ Model = (*BaselineModel)(nil)
