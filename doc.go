// Package movierec 是一个电影推荐工具包。
//
// 设计要点：
// - Scorer-first: 推荐核心只依赖不透明的 Predict(pairs) -> scores，模型可以是本地或远程
// - Batch TopK: 源实体分批（默认 100）与全部目标做笛卡尔积打分，每行按分数取 TopK
// - 缺失即无效: NaN / Inf 分数不占名次，结果单元格带显式有效位，不用数值哨兵
package movierec

import (
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/recommend"
)

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type (
	EntityID    = core.EntityID
	Pair        = core.Pair
	Direction   = core.Direction
	Scorer      = core.Scorer
	Model       = model.Model
	Request     = recommend.Request
	Result      = recommend.Result
	Recommender = recommend.Recommender
)

const (
	DirectionMovie = core.DirectionMovie
	DirectionUser  = core.DirectionUser
)

// New 创建分批 TopK 推荐器。
func New(scorer Scorer, opts ...recommend.Option) *Recommender {
	return recommend.New(scorer, opts...)
}
