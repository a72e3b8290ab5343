package xmongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"
)

// =============================================================================
// 内部接口定义 - 用于依赖注入和测试
// =============================================================================

// collectionOperations 定义导出器用到的集合操作。
// *mongo.Collection 经 collectionAdapter 实现此接口。
type collectionOperations interface {
	InsertOne(ctx context.Context, document any, opts ...mongooptions.Lister[mongooptions.InsertOneOptions]) (*mongo.InsertOneResult, error)
	CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error)
	Name() string
}

// =============================================================================
// 集合适配器
// =============================================================================

type collectionAdapter struct {
	coll *mongo.Collection
}

func (a *collectionAdapter) InsertOne(ctx context.Context, document any, opts ...mongooptions.Lister[mongooptions.InsertOneOptions]) (*mongo.InsertOneResult, error) {
	return a.coll.InsertOne(ctx, document, opts...)
}

func (a *collectionAdapter) CreateIndexes(ctx context.Context, models []mongo.IndexModel) ([]string, error) {
	return a.coll.Indexes().CreateMany(ctx, models)
}

func (a *collectionAdapter) Name() string {
	return a.coll.Name()
}
