package core

// Scorer 是推荐核心唯一依赖的模型能力：对一批 (user, movie) pair 打分。
//
// 约定：
//   - 返回的分数与 pairs 按位置一一对应，长度必须相同
//   - 无法打分的 pair 返回 NaN（或 ±Inf），视为缺失，不参与排序
//   - userFeatures / movieFeatures 可以为 nil，原样透传
//   - 返回 error 时推荐调用整体失败，不做重试
type Scorer interface {
	Name() string
	Predict(pairs []Pair, userFeatures, movieFeatures FeatureTable) ([]float64, error)
}

// ScorerFunc 将普通函数适配为 Scorer（测试、组合模型时常用）。
type ScorerFunc func(pairs []Pair, userFeatures, movieFeatures FeatureTable) ([]float64, error)

func (f ScorerFunc) Name() string { return "func" }

func (f ScorerFunc) Predict(pairs []Pair, userFeatures, movieFeatures FeatureTable) ([]float64, error) {
	return f(pairs, userFeatures, movieFeatures)
}
