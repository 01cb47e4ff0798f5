package recommend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/logging"
)

// Request 是一次推荐请求。
type Request struct {
	// Direction 为 core.DirectionMovie（为用户推荐电影）或 core.DirectionUser（为电影推荐用户）
	Direction core.Direction

	// Users / Movies 是候选用户与候选电影，结果行顺序与源实体列表一致
	Users  []core.EntityID
	Movies []core.EntityID

	// 可选的辅助特征表，原样透传给 Scorer
	UserFeatures  core.FeatureTable
	MovieFeatures core.FeatureTable

	// MaxSize 是每行推荐个数上限；0 表示不截断（等于目标候选个数）
	MaxSize int
}

// Recommender 在 core.Scorer 之上做分批 TopK 推荐。
// 每次 Recommend 调用相互独立，不保留状态；批次严格串行执行。
type Recommender struct {
	scorer    core.Scorer
	batchSize int
	observers []Observer
	logger    *zerolog.Logger // nil 时每次 Recommend 使用当前全局 logger
}

// Option 配置 Recommender。
type Option func(*Recommender)

// WithBatchSize 设置每批源实体个数（默认 core.DefaultBatchSize）。
func WithBatchSize(n int) Option {
	return func(r *Recommender) { r.batchSize = n }
}

// WithObserver 追加批次观测者（进度、日志、指标）。
func WithObserver(o Observer) Option {
	return func(r *Recommender) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithLogger 替换默认 logger。
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recommender) { r.logger = &l }
}

func New(scorer core.Scorer, opts ...Option) *Recommender {
	r := &Recommender{
		scorer:    scorer,
		batchSize: core.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend 为每个源实体生成 TopK 目标及分数。
//
// 非法方向、负的 MaxSize、非正的批大小在任何批处理开始前返回 INVALID_INPUT 错误；
// Scorer 的错误原样（%w）向上传递；批次拼接后行数与源实体数不一致返回 ErrRowCountMismatch。
func (r *Recommender) Recommend(req *Request) (*Result, error) {
	if req == nil {
		return nil, core.ErrInvalidRequest
	}
	if !req.Direction.Valid() {
		return nil, fmt.Errorf("%q: %w", req.Direction, core.ErrInvalidDirection)
	}
	if req.MaxSize < 0 {
		return nil, fmt.Errorf("maxsize %d: %w", req.MaxSize, core.ErrInvalidMaxSize)
	}
	if r.batchSize <= 0 {
		return nil, fmt.Errorf("batch size %d: %w", r.batchSize, core.ErrInvalidBatchSize)
	}

	sources, targets := req.Users, req.Movies
	if req.Direction == core.DirectionUser {
		sources, targets = req.Movies, req.Users
	}
	maxsize := req.MaxSize
	if maxsize == 0 {
		maxsize = len(targets)
	}

	stats := BatchStats{
		RunID:     uuid.NewString(),
		Direction: req.Direction,
		Scorer:    r.scorer.Name(),
		Batches:   (len(sources) + r.batchSize - 1) / r.batchSize,
		Total:     len(sources),
	}
	log := r.baseLogger().With().Str("run_id", stats.RunID).Str("direction", string(req.Direction)).Logger()
	log.Info().
		Str("scorer", stats.Scorer).
		Int("sources", len(sources)).
		Int("targets", len(targets)).
		Int("maxsize", maxsize).
		Int("batches", stats.Batches).
		Msg("recommend start")

	started := time.Now()
	items := NewMatrix[core.EntityID](0, maxsize)
	scores := NewMatrix[float64](0, maxsize)

	for b := 0; b < stats.Batches; b++ {
		start := b * r.batchSize
		end := min(start+r.batchSize, len(sources))
		batch := sources[start:end]

		t := time.Now()
		pairs, rows := buildPairs(req.Direction, batch, targets)
		predicted, err := r.scorer.Predict(pairs, req.UserFeatures, req.MovieFeatures)
		if err != nil {
			return nil, fmt.Errorf("predict batch %d: %w", b, err)
		}
		if len(predicted) != len(pairs) {
			return nil, fmt.Errorf("batch %d: %d scores for %d pairs: %w", b, len(predicted), len(pairs), core.ErrScoreCountMismatch)
		}
		subItems, subScores, missing := rankBatch(req.Direction, pairs, rows, predicted, len(batch), maxsize)

		if err := items.AppendRows(subItems); err != nil {
			return nil, err
		}
		if err := scores.AppendRows(subScores); err != nil {
			return nil, err
		}

		stats.Batch = b
		stats.Sources = len(batch)
		stats.Pairs = len(pairs)
		stats.Missing = missing
		stats.Done = end
		stats.Duration = time.Since(t)
		for _, o := range r.observers {
			o.ObserveBatch(stats)
		}
	}

	if items.Rows() != len(sources) || scores.Rows() != len(sources) {
		return nil, fmt.Errorf("%d item rows, %d score rows, %d sources: %w",
			items.Rows(), scores.Rows(), len(sources), core.ErrRowCountMismatch)
	}

	log.Info().Dur("elapsed", time.Since(started)).Msg("recommend done")
	return &Result{
		Direction: req.Direction,
		Sources:   sources,
		Items:     items,
		Scores:    scores,
	}, nil
}

func (r *Recommender) baseLogger() zerolog.Logger {
	if r.logger != nil {
		return *r.logger
	}
	return logging.With().Str("component", "recommend").Logger()
}
