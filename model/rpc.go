package model

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rushteam/movierec/core"
)

// RPCModel 是通过 HTTP 调用外部模型服务的打分后端（TF Serving / TorchServe / 自建服务均可）。
//
// 请求格式（JSON）：
//
//	{"pairs": [[1, 10], [1, 20]], "user_features": {...}, "movie_features": {...}}
//
// 响应格式（JSON），null 表示该 pair 无法打分：
//
//	{"scores": [0.85, null]}
type RPCModel struct {
	Endpoint string // 例如 "http://localhost:8080/predict"
	Timeout  time.Duration
	Client   *http.Client
}

type rpcParams struct {
	Endpoint  string `json:"endpoint"`
	TimeoutMS int64  `json:"timeout_ms"`
}

type rpcRequest struct {
	Pairs         [][2]core.EntityID `json:"pairs"`
	UserFeatures  core.FeatureTable  `json:"user_features,omitempty"`
	MovieFeatures core.FeatureTable  `json:"movie_features,omitempty"`
}

type rpcResponse struct {
	Scores []*float64 `json:"scores"`
}

func init() {
	Register("rpc", func() Model { return &RPCModel{} })
}

func NewRPCModel(endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCModel{
		Endpoint: endpoint,
		Timeout:  timeout,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (m *RPCModel) Name() string { return "rpc" }

func (m *RPCModel) Fit(_ *TrainSet, _ *TrainSet) error {
	return core.ErrModelNotSupported
}

// Predict 一次请求打完整批 pair。
func (m *RPCModel) Predict(pairs []core.Pair, userFeatures, movieFeatures core.FeatureTable) ([]float64, error) {
	if len(pairs) == 0 {
		return []float64{}, nil
	}
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	body := rpcRequest{
		Pairs:         make([][2]core.EntityID, len(pairs)),
		UserFeatures:  userFeatures,
		MovieFeatures: movieFeatures,
	}
	for i, p := range pairs {
		body.Pairs[i] = [2]core.EntityID{p.User, p.Movie}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("rpc error: status=%d, read body failed: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("rpc error: status=%d, body=%s", resp.StatusCode, string(msg))
	}

	var result rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Scores) != len(pairs) {
		return nil, fmt.Errorf("response scores count mismatch: expected %d, got %d", len(pairs), len(result.Scores))
	}

	scores := make([]float64, len(pairs))
	for i, s := range result.Scores {
		if s == nil {
			scores[i] = core.Missing()
			continue
		}
		scores[i] = *s
	}
	return scores, nil
}

func (m *RPCModel) Save(dir string) error {
	return saveDir(dir, m.Name(), &rpcParams{
		Endpoint:  m.Endpoint,
		TimeoutMS: m.Timeout.Milliseconds(),
	})
}

func (m *RPCModel) Load(dir string) error {
	var p rpcParams
	if err := loadDir(dir, m.Name(), &p); err != nil {
		return err
	}
	*m = *NewRPCModel(p.Endpoint, time.Duration(p.TimeoutMS)*time.Millisecond)
	return nil
}

var _ Model = (*RPCModel)(nil)
