package config

import (
	"fmt"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/feature"
	"github.com/rushteam/movierec/logging"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/store"
)

// Logging 转换为 logging.Config。
func (c LogConfig) Logging() logging.Config {
	return logging.Config{Level: c.Level, Format: c.Format, Caller: c.Caller}
}

// DirectionValue 解析推荐方向。
func (c RecommendConfig) DirectionValue() (core.Direction, error) {
	return core.ParseDirection(c.Direction)
}

// NewModel 按 Type 构建一个未加载的模型。
// baseline 返回尚未拟合的模型；lr / rpc 直接可用于打分。
func NewModel(c ModelConfig) (model.Model, error) {
	switch c.Type {
	case "baseline":
		m := model.NewBaselineModel()
		m.UserReg = c.UserReg
		m.MovieReg = c.MovieReg
		return m, nil
	case "lr":
		return &model.LRModel{
			Bias:         c.Bias,
			UserWeights:  c.UserWeights,
			MovieWeights: c.MovieWeights,
		}, nil
	case "rpc":
		if c.Endpoint == "" {
			return nil, fmt.Errorf("rpc model: endpoint not found")
		}
		return model.NewRPCModel(c.Endpoint, c.Timeout), nil
	default:
		return nil, fmt.Errorf("%q: %w (supported: %v)", c.Type, core.ErrUnknownModel, model.Names())
	}
}

// OpenStore 按 Type 打开存储；Type 为空时返回 nil, nil。
func OpenStore(c StoreConfig) (core.Store, error) {
	switch c.Type {
	case "":
		return nil, nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		s, err := store.NewRedisStore(c.Addr, c.DB)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "badger":
		s, err := store.OpenBadgerStore(c.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", c.Type)
	}
}

// NewFeatureProviders 构建用户与电影特征提供者；Source 为空时返回 nil, nil, nil。
// Source 为 store 时需要传入已打开的 st。
func NewFeatureProviders(c FeatureConfig, st core.Store) (users, movies feature.Provider, err error) {
	switch c.Source {
	case "":
		return nil, nil, nil
	case "store":
		if st == nil {
			return nil, nil, fmt.Errorf("feature source store: store not configured")
		}
		return feature.NewStoreProvider(st, c.UserPrefix), feature.NewStoreProvider(st, c.MoviePrefix), nil
	case "feast":
		client, err := feature.NewGrpcOnlineClient(c.FeastHost, c.FeastPort)
		if err != nil {
			return nil, nil, err
		}
		users = &feature.FeastProvider{Client: client, Project: c.FeastProject, Entity: c.UserEntity, Refs: c.UserFeatures}
		movies = &feature.FeastProvider{Client: client, Project: c.FeastProject, Entity: c.MovieEntity, Refs: c.MovieFeatures}
		return users, movies, nil
	default:
		return nil, nil, fmt.Errorf("unknown feature source %q", c.Source)
	}
}
