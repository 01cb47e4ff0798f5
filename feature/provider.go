// Package feature 为打分模型准备不透明的用户/电影特征表。
//
// 推荐核心只透传特征表，不做任何特征工程；Provider 负责把外部特征源
// （KV 存储、Feast 在线特征服务）读成 core.FeatureTable。
package feature

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Provider 按实体 ID 批量读取特征。
// 没有特征的实体不出现在返回的表中。
type Provider interface {
	Name() string
	Features(ctx context.Context, ids []core.EntityID) (core.FeatureTable, error)
}
