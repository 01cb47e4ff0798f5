package feature

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// StoreProvider 从 core.Store 读取特征，采用适配器模式。
// 每个实体一条记录：key 为 <prefix><id>，value 为 JSON 对象 {"name": value}。
type StoreProvider struct {
	store  core.Store
	prefix string
}

// NewStoreProvider 创建基于 Store 的特征提供者，prefix 例如 "feature:user:"。
func NewStoreProvider(s core.Store, prefix string) *StoreProvider {
	return &StoreProvider{store: s, prefix: prefix}
}

func (p *StoreProvider) Name() string {
	return fmt.Sprintf("store.%s", p.store.Name())
}

// Key 返回实体特征的存储 key。
func (p *StoreProvider) Key(id core.EntityID) string {
	return p.prefix + strconv.FormatUint(uint64(id), 10)
}

func (p *StoreProvider) Features(ctx context.Context, ids []core.EntityID) (core.FeatureTable, error) {
	table := make(core.FeatureTable, len(ids))
	if len(ids) == 0 {
		return table, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = p.Key(id)
	}
	values, err := p.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("feature %s: batch get: %w", p.Name(), err)
	}

	for i, id := range ids {
		data, ok := values[keys[i]]
		if !ok {
			continue
		}
		var row map[string]float64
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("feature %s: decode %s: %w", p.Name(), keys[i], err)
		}
		table[id] = row
	}
	return table, nil
}

// Put 写入一个实体的特征，ttl 单位为秒（可选）。
func (p *StoreProvider) Put(ctx context.Context, id core.EntityID, features map[string]float64, ttl ...int) error {
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, p.Key(id), data, ttl...)
}
