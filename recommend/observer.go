package recommend

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rushteam/movierec/core"
)

// BatchStats 描述一个已完成的批次。
type BatchStats struct {
	RunID     string
	Direction core.Direction
	Scorer    string

	Batch   int // 从 0 开始
	Batches int

	Sources int // 本批源实体数
	Pairs   int // 本批打分 pair 数
	Missing int // 本批缺失分数数

	Done  int // 累计完成的源实体数
	Total int // 源实体总数

	Duration time.Duration
}

// Observer 在每个批次完成后被调用，只用于进度与观测，不影响结果。
type Observer interface {
	ObserveBatch(stats BatchStats)
}

// ObserverFunc 将函数适配为 Observer。
type ObserverFunc func(stats BatchStats)

func (f ObserverFunc) ObserveBatch(stats BatchStats) { f(stats) }

// Progress 返回一个只关心 (done, total) 的进度回调。
func Progress(fn func(done, total int)) Observer {
	return ObserverFunc(func(s BatchStats) { fn(s.Done, s.Total) })
}

// LogObserver 以 debug 级别记录每个批次的进度。
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) ObserveBatch(s BatchStats) {
	o.Logger.Debug().
		Str("run_id", s.RunID).
		Str("direction", string(s.Direction)).
		Int("batch", s.Batch+1).
		Int("batches", s.Batches).
		Int("done", s.Done).
		Int("total", s.Total).
		Int("pairs", s.Pairs).
		Int("missing", s.Missing).
		Dur("elapsed", s.Duration).
		Msg("batch ranked")
}
