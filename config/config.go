// Package config 加载 movierec 的分层配置。
//
// 优先级：环境变量（MOVIEREC_*）> YAML 配置文件 > 内置默认值。
// 环境变量按第一个下划线拆成 "段.字段"，例如
// MOVIEREC_RECOMMEND_BATCH_SIZE -> recommend.batch_size。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是环境变量前缀。
const EnvPrefix = "MOVIEREC_"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Recommend RecommendConfig `koanf:"recommend"`
	Model     ModelConfig     `koanf:"model"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Store     StoreConfig     `koanf:"store"`
	Feature   FeatureConfig   `koanf:"feature"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

type RecommendConfig struct {
	// Direction: movie（为用户推荐电影）或 user（为电影推荐用户）
	Direction string `koanf:"direction" validate:"oneof=movie user"`
	BatchSize int    `koanf:"batch_size" validate:"gt=0"`
	// MaxSize 为 0 表示不截断
	MaxSize int `koanf:"max_size" validate:"gte=0"`
}

// ModelConfig 描述打分模型。
//
// Dir 下存在 manifest.yaml 时直接加载；否则按 Type 构建：
// baseline 在评分数据上拟合后保存到 Dir，lr / rpc 使用下面的参数。
type ModelConfig struct {
	Dir  string `koanf:"dir"`
	Type string `koanf:"type" validate:"oneof=baseline lr rpc"`

	// baseline
	UserReg  float64 `koanf:"user_reg" validate:"gte=0"`
	MovieReg float64 `koanf:"movie_reg" validate:"gte=0"`

	// lr
	Bias         float64            `koanf:"bias"`
	UserWeights  map[string]float64 `koanf:"user_weights"`
	MovieWeights map[string]float64 `koanf:"movie_weights"`

	// rpc
	Endpoint string        `koanf:"endpoint" validate:"required_if=Type rpc,omitempty,url"`
	Timeout  time.Duration `koanf:"timeout" validate:"gte=0"`
}

type DatasetConfig struct {
	Dir string `koanf:"dir" validate:"required"`
	// Name 为 SaveDatagroup 保存的数据组名；MovieLens 为 true 时读取原始 MovieLens 文件
	Name      string `koanf:"name" validate:"required_without=MovieLens"`
	MovieLens bool   `koanf:"movielens"`
}

type StoreConfig struct {
	// Type 为空表示不导出推荐结果
	Type string `koanf:"type" validate:"omitempty,oneof=memory redis badger"`
	Addr string `koanf:"addr" validate:"required_if=Type redis"`
	DB   int    `koanf:"db" validate:"gte=0"`
	// Path 为 badger 数据目录，为空时使用内存模式
	Path string `koanf:"path"`
	// TTL 单位为秒，0 表示不过期
	TTL int `koanf:"ttl" validate:"gte=0"`
}

// FeatureConfig 描述打分时透传给模型的特征来源。
// Source 为空表示不加载特征；store 复用 Store 配置；feast 读取 Feast 在线特征。
type FeatureConfig struct {
	Source      string `koanf:"source" validate:"omitempty,oneof=store feast"`
	UserPrefix  string `koanf:"user_prefix"`
	MoviePrefix string `koanf:"movie_prefix"`

	FeastHost     string   `koanf:"feast_host" validate:"required_if=Source feast"`
	FeastPort     int      `koanf:"feast_port" validate:"gte=0,lte=65535"`
	FeastProject  string   `koanf:"feast_project"`
	UserEntity    string   `koanf:"user_entity"`
	MovieEntity   string   `koanf:"movie_entity"`
	UserFeatures  []string `koanf:"user_features"`
	MovieFeatures []string `koanf:"movie_features"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
	// Textfile 为 node_exporter textfile collector 格式的输出文件
	Textfile string `koanf:"textfile" validate:"required_if=Enabled true"`
}

func defaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			Direction: "movie",
			BatchSize: 100,
			MaxSize:   10,
		},
		Model: ModelConfig{
			Dir:      "model",
			Type:     "baseline",
			UserReg:  10,
			MovieReg: 25,
			Timeout:  5 * time.Second,
		},
		Dataset: DatasetConfig{
			Dir:  "data",
			Name: "train",
		},
		Feature: FeatureConfig{
			UserPrefix:  "feature:user:",
			MoviePrefix: "feature:movie:",
			UserEntity:  "user_id",
			MovieEntity: "movie_id",
		},
		Metrics: MetricsConfig{
			Textfile: "movierec.prom",
		},
	}
}

// Load 依次加载默认值、配置文件（path 为空时跳过）和环境变量，并校验。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransformFunc: MOVIEREC_STORE_ADDR -> store.addr
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}
