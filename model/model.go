// Package model 定义推荐模型的契约（Fit / Predict / Save / Load）以及几种打分后端。
//
// 推荐核心（recommend 包）只依赖 core.Scorer，即 Predict；
// Fit / Save / Load 是模型生命周期的其余部分，由具体后端实现。
package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/recommend"
)

// Model 是所有打分后端必须实现的契约。
type Model interface {
	core.Scorer

	// Fit 在训练集上拟合模型；valid 可为 nil。
	// 不支持训练的后端（权重离线产出、远程服务）返回 core.ErrModelNotSupported。
	Fit(train *TrainSet, valid *TrainSet) error

	// Save 将模型保存到目录（manifest.yaml + params.json）。
	Save(dir string) error

	// Load 从目录加载模型参数到当前实例。
	Load(dir string) error
}

// TrainSet 是一份训练（或验证）数据。
type TrainSet struct {
	Pairs         []core.Pair
	Targets       []float64
	UserFeatures  core.FeatureTable
	MovieFeatures core.FeatureTable
}

// Validate 检查 Pairs 与 Targets 一一对应。
func (s *TrainSet) Validate() error {
	if s == nil {
		return fmt.Errorf("nil train set: %w", core.ErrInvalidTrainSet)
	}
	if len(s.Pairs) != len(s.Targets) {
		return fmt.Errorf("%d pairs, %d targets: %w", len(s.Pairs), len(s.Targets), core.ErrInvalidTrainSet)
	}
	return nil
}

// Recommend 用模型的 Predict 为 req 生成 TopK 推荐。
func Recommend(m core.Scorer, req *recommend.Request, opts ...recommend.Option) (*recommend.Result, error) {
	return recommend.New(m, opts...).Recommend(req)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Model)
)

// Register 注册模型构建器，name 与 manifest.yaml 中的 name 对应。
func Register(name string, builder func() Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = builder
}

// New 根据名称创建一个空模型。
func New(name string) (Model, error) {
	registryMu.RLock()
	builder, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, core.ErrUnknownModel)
	}
	return builder(), nil
}

// Names 返回已注册的模型名称（排序后）。
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 读取目录下的 manifest，按其中的模型名称构建并加载模型。
func Load(dir string) (Model, error) {
	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	m, err := New(manifest.Name)
	if err != nil {
		return nil, err
	}
	if err := m.Load(dir); err != nil {
		return nil, fmt.Errorf("load %s model: %w", manifest.Name, err)
	}
	return m, nil
}
