package xmongo

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mopts "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/xmeasure/pkg/observability/xexport"
)

// 索引名
const (
	IndexNameTimestamp = "name_1_timestamp_-1"
	IndexTTL           = "timestamp_ttl"
)

// Exporter MongoDB 导出器，并发安全
type Exporter struct {
	coll collectionOperations
	opts options
	now  func() time.Time

	inserted     atomic.Int64
	insertErrors atomic.Int64
	slowInserts  atomic.Int64
}

var _ xexport.Exporter = (*Exporter)(nil)

// New 以集合创建导出器
func New(coll *mongo.Collection, opts ...Option) (*Exporter, error) {
	if coll == nil {
		return nil, ErrNilCollection
	}
	return newExporter(&collectionAdapter{coll: coll}, opts...)
}

func newExporter(coll collectionOperations, opts ...Option) (*Exporter, error) {
	e := &Exporter{coll: coll, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&e.opts)
		}
	}
	if e.opts.ttl > 0 && (e.opts.ttl < time.Second || e.opts.ttl/time.Second > math.MaxInt32) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTTL, e.opts.ttl)
	}
	return e, nil
}

// Export 实现 xexport.Exporter
func (e *Exporter) Export(ctx context.Context, rec xexport.Record) error {
	start := e.now()
	_, err := e.coll.InsertOne(ctx, rec)
	elapsed := e.now().Sub(start)

	if err != nil {
		e.insertErrors.Add(1)
		return fmt.Errorf("xmongo: insert into %s: %w", e.coll.Name(), err)
	}
	e.inserted.Add(1)

	if e.opts.slowThreshold > 0 && elapsed > e.opts.slowThreshold {
		e.slowInserts.Add(1)
		if e.opts.slowHook != nil {
			e.opts.slowHook(ctx, SlowInsertInfo{Collection: e.coll.Name(), Name: rec.Name, Duration: elapsed})
		}
	}
	return nil
}

// EnsureIndexes 创建查询索引，配置了 TTL 时同时创建 TTL 索引。已存在的同名索引不报错。
func (e *Exporter) EnsureIndexes(ctx context.Context) ([]string, error) {
	models := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: mopts.Index().SetName(IndexNameTimestamp),
	}}
	if e.opts.ttl > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: mopts.Index().SetName(IndexTTL).SetExpireAfterSeconds(int32(e.opts.ttl / time.Second)),
		})
	}
	names, err := e.coll.CreateIndexes(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("xmongo: create indexes on %s: %w", e.coll.Name(), err)
	}
	return names, nil
}

// Stats 统计快照
func (e *Exporter) Stats() Stats {
	return Stats{
		Inserted:     e.inserted.Load(),
		InsertErrors: e.insertErrors.Load(),
		SlowInserts:  e.slowInserts.Load(),
	}
}
