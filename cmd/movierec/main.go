// movierec 在评分数据上批量生成 TopK 推荐。
//
// 用法：
//
//	movierec -config config.yaml
//	MOVIEREC_RECOMMEND_DIRECTION=user movierec -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/logging"
	"github.com/rushteam/movierec/metrics"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/recommend"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "movierec: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Logging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("movierec failed")
		os.Exit(1)
	}
}

// run 加载数据与模型，执行一次推荐并按配置导出结果。
func run(ctx context.Context, cfg *config.Config) (*recommend.Result, error) {
	dir, err := cfg.Recommend.DirectionValue()
	if err != nil {
		return nil, err
	}

	dg, err := loadDataset(cfg.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logging.Info().
		Int("ratings", len(dg.Ratings)).
		Int("movies", len(dg.Movies)).
		Msg("dataset loaded")

	m, err := loadModel(cfg.Model, dg.Ratings)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	st, err := config.OpenStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if st != nil {
		defer st.Close()
	}

	req := &recommend.Request{
		Direction: dir,
		Users:     dataset.Users(dg.Ratings),
		Movies:    dataset.Movies(dg.Ratings),
		MaxSize:   cfg.Recommend.MaxSize,
	}
	if err := loadFeatures(ctx, cfg.Feature, st, req); err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}

	opts := []recommend.Option{
		recommend.WithBatchSize(cfg.Recommend.BatchSize),
		recommend.WithObserver(recommend.LogObserver{Logger: logging.Logger()}),
	}
	reg := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		opts = append(opts, recommend.WithObserver(metrics.New(reg)))
	}

	res, err := model.Recommend(m, req, opts...)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, reg); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}

	if st != nil {
		n, err := recommend.Export(ctx, st, res, cfg.Store.TTL)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("store", st.Name()).Int("rows", n).Msg("recommendations exported")
	}
	return res, nil
}

func loadDataset(c config.DatasetConfig) (*dataset.Datagroup, error) {
	if c.MovieLens {
		return dataset.LoadMovieLens(c.Dir)
	}
	return dataset.LoadDatagroup(c.Dir, c.Name)
}

// loadModel 优先加载已保存的模型；否则按配置构建，baseline 在评分上拟合后保存。
func loadModel(c config.ModelConfig, ratings []dataset.Rating) (model.Model, error) {
	if model.Saved(c.Dir) {
		m, err := model.Load(c.Dir)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("model", m.Name()).Str("dir", c.Dir).Msg("model loaded")
		return m, nil
	}

	m, err := config.NewModel(c)
	if err != nil {
		return nil, err
	}
	if m.Name() != "baseline" {
		return m, nil
	}

	pairs, targets := dataset.TrainPairs(ratings)
	if err := m.Fit(&model.TrainSet{Pairs: pairs, Targets: targets}, nil); err != nil {
		return nil, err
	}
	if c.Dir != "" {
		if err := m.Save(c.Dir); err != nil {
			return nil, err
		}
		logging.Info().Str("model", m.Name()).Str("dir", c.Dir).Msg("model saved")
	}
	return m, nil
}

func loadFeatures(ctx context.Context, c config.FeatureConfig, st core.Store, req *recommend.Request) error {
	users, movies, err := config.NewFeatureProviders(c, st)
	if err != nil || users == nil {
		return err
	}
	if req.UserFeatures, err = users.Features(ctx, req.Users); err != nil {
		return err
	}
	if req.MovieFeatures, err = movies.Features(ctx, req.Movies); err != nil {
		return err
	}
	logging.Info().
		Str("source", c.Source).
		Int("users", len(req.UserFeatures)).
		Int("movies", len(req.MovieFeatures)).
		Msg("features loaded")
	return nil
}
