package model

import (
	"math"

	"github.com/rushteam/movierec/core"
)

// LRModel 实现了逻辑回归 (Logistic Regression) 打分。
//
// 预测原理：
// 1. 线性加权求和: z = Bias + Σ UserWeight_i * UserFeature_i + Σ MovieWeight_j * MovieFeature_j
// 2. Sigmoid 变换: P = 1 / (1 + exp(-z))
//
// 权重离线训练后通过 Load 加载，Fit 不支持。
// 传入了特征表但某个用户/电影没有特征行时，该 pair 分数缺失（NaN）。
type LRModel struct {
	Bias         float64            `json:"bias"`
	UserWeights  map[string]float64 `json:"user_weights"`
	MovieWeights map[string]float64 `json:"movie_weights"`
}

func init() {
	Register("lr", func() Model { return &LRModel{} })
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) Fit(_ *TrainSet, _ *TrainSet) error {
	return core.ErrModelNotSupported
}

func (m *LRModel) Predict(pairs []core.Pair, userFeatures, movieFeatures core.FeatureTable) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for i, p := range pairs {
		z := m.Bias
		missing := false
		if userFeatures != nil {
			row, ok := userFeatures.Row(p.User)
			missing = missing || !ok
			z += dot(m.UserWeights, row)
		}
		if movieFeatures != nil {
			row, ok := movieFeatures.Row(p.Movie)
			missing = missing || !ok
			z += dot(m.MovieWeights, row)
		}
		if missing {
			scores[i] = core.Missing()
			continue
		}
		scores[i] = 1 / (1 + math.Exp(-z))
	}
	return scores, nil
}

func (m *LRModel) Save(dir string) error {
	return saveDir(dir, m.Name(), m)
}

func (m *LRModel) Load(dir string) error {
	return loadDir(dir, m.Name(), m)
}

func dot(weights, features map[string]float64) float64 {
	var z float64
	for k, v := range features {
		if w, ok := weights[k]; ok {
			z += w * v
		}
	}
	return z
}

var _ Model = (*LRModel)(nil)
