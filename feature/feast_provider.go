package feature

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	"github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/conv"
)

// OnlineClient 是 Feast 在线特征读取的最小接口，便于测试替换。
type OnlineClient interface {
	OnlineRows(ctx context.Context, features []string, entities []feastsdk.Row, project string) ([]feastsdk.Row, error)
}

// GrpcOnlineClient 基于官方 Feast Go SDK 的 gRPC 客户端。
type GrpcOnlineClient struct {
	client *feastsdk.GrpcClient
}

// NewGrpcOnlineClient 连接 Feast Serving，port 为 0 时使用默认端口 6565。
func NewGrpcOnlineClient(host string, port int) (*GrpcOnlineClient, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("create feast grpc client: %w", err)
	}
	return &GrpcOnlineClient{client: client}, nil
}

func (c *GrpcOnlineClient) OnlineRows(ctx context.Context, features []string, entities []feastsdk.Row, project string) ([]feastsdk.Row, error) {
	resp, err := c.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: features,
		Entities: entities,
		Project:  project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features failed: %w", err)
	}
	return resp.Rows(), nil
}

// FeastProvider 从 Feast 读取在线特征。
//
// Entity 为 Feast 中的实体列名（例如 "user_id"），Refs 为特征引用
// （例如 "user_profile:avg_rating"）。只保留数值型特征，特征名即引用本身。
type FeastProvider struct {
	Client   OnlineClient
	Project  string
	Entity   string
	Refs     []string
}

var (
	_ Provider = (*FeastProvider)(nil)
	_ Provider = (*StoreProvider)(nil)
)

func (p *FeastProvider) Name() string { return "feast" }

func (p *FeastProvider) Features(ctx context.Context, ids []core.EntityID) (core.FeatureTable, error) {
	table := make(core.FeatureTable, len(ids))
	if len(ids) == 0 {
		return table, nil
	}
	if p.Entity == "" || len(p.Refs) == 0 {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			"feature: feast provider requires entity and feature refs")
	}

	entities := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		entities[i] = feastsdk.Row{p.Entity: feastsdk.Int64Val(int64(id))}
	}

	rows, err := p.Client.OnlineRows(ctx, p.Refs, entities, p.Project)
	if err != nil {
		return nil, err
	}
	if len(rows) != len(ids) {
		return nil, fmt.Errorf("feature feast: response row count mismatch: expected %d, got %d", len(ids), len(rows))
	}

	for i, row := range rows {
		values := make(map[string]any, len(p.Refs))
		for _, name := range p.Refs {
			values[name] = rawValue(row[name])
		}
		if features := conv.MapToFloat64(values); len(features) > 0 {
			table[ids[i]] = features
		}
	}
	return table, nil
}

// rawValue 取出 Feast Value 中的数值型取值，空值和非数值返回 nil。
func rawValue(v *types.Value) any {
	switch val := v.GetVal().(type) {
	case *types.Value_DoubleVal:
		return val.DoubleVal
	case *types.Value_FloatVal:
		return val.FloatVal
	case *types.Value_Int64Val:
		return val.Int64Val
	case *types.Value_Int32Val:
		return val.Int32Val
	case *types.Value_BoolVal:
		return val.BoolVal
	default:
		return nil
	}
}
