package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rushteam/movierec/core"
)

// KeyPrefix 是导出结果的 key 前缀：rec:<direction>:<sourceID>
const KeyPrefix = "rec:"

// Key 返回某个源实体推荐列表的存储 key。
func Key(dir core.Direction, source core.EntityID) string {
	return KeyPrefix + string(dir) + ":" + strconv.FormatUint(uint64(source), 10)
}

// Export 把结果的每一行以 JSON 数组写入 store（一次 BatchSet），ttl 单位为秒（可选）。
// 没有任何有效推荐的行写入空数组，便于线上区分“无推荐”和“未计算”。
// 返回写入的 key 个数：同一源实体出现多次时共用一个 key，以最后一次出现的行为准，
// 因此返回值可能小于 res.Rows()。
func Export(ctx context.Context, s core.Store, res *Result, ttl ...int) (int, error) {
	kvs := make(map[string][]byte, res.Rows())
	for i, src := range res.Sources {
		data, err := json.Marshal(res.Recommendations(i))
		if err != nil {
			return 0, fmt.Errorf("marshal row %d: %w", i, err)
		}
		kvs[Key(res.Direction, src)] = data
	}
	if err := s.BatchSet(ctx, kvs, ttl...); err != nil {
		return 0, fmt.Errorf("export to %s: %w", s.Name(), err)
	}
	return len(kvs), nil
}

// Lookup 读取 Export 写入的推荐列表。
func Lookup(ctx context.Context, s core.Store, dir core.Direction, source core.EntityID) ([]Recommendation, error) {
	data, err := s.Get(ctx, Key(dir, source))
	if err != nil {
		return nil, err
	}
	var recs []Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}
