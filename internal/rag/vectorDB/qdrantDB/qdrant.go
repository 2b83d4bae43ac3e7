package qdrantDB

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ContractRAG/internal/config"
	"github.com/akolanti/ContractRAG/internal/domain/contractModel"
	"github.com/akolanti/ContractRAG/internal/rag/vectorDB"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// pointNamespace derives Qdrant point ids from content hashes; Qdrant only
// accepts UUIDs or integers as ids.
var pointNamespace = uuid.MustParse("6f1c3a52-0d5e-4b8e-9a57-3c1f4e2b7d90")

type Options struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimension  int
	Timeout    time.Duration
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
	timeout    time.Duration
	logger     *logger_i.Logger
}

var _ vectorDB.Store = (*ClientHolder)(nil)

// NewClient connects to Qdrant and closes the connection when ctx is done.
func NewClient(ctx context.Context, opts Options) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")
	if opts.Timeout <= 0 {
		opts.Timeout = config.VectorStoreTimeout
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     opts.Host,
		Port:     opts.Port,
		APIKey:   opts.APIKey,
		UseTLS:   opts.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err),
			"could not instantiate qdrant client", goerr.V("host", opts.Host), goerr.V("port", opts.Port))
	}

	go closeQdrant(ctx, client, logger)

	return &ClientHolder{
		QObj:       client,
		collection: opts.Collection,
		dimension:  uint64(opts.Dimension),
		timeout:    opts.Timeout,
		logger:     logger,
	}, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client, logger *logger_i.Logger) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

// PointID maps a content hash to its Qdrant point id.
func PointID(contentHash string) string {
	return uuid.NewSHA1(pointNamespace, []byte(contentHash)).String()
}

func (db *ClientHolder) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	if db.collection == "" {
		return goerr.Wrap(contractModel.ErrConfiguration, "empty collection name")
	}
	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return classify(err, "failed to check collection", db.collection)
	}
	if exists {
		return nil
	}

	db.logger.Info("Creating collection", "collection", db.collection, "dimension", db.dimension)
	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		// lost a creation race with another process
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return classify(err, "failed to create collection", db.collection)
	}
	return nil
}

func (db *ClientHolder) Upsert(ctx context.Context, records []contractModel.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(r.ID)),
			Vectors: qdrant.NewVectors(r.Values...),
			Payload: qdrant.NewValueMap(toPayload(r.Metadata)),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return classify(err, "qdrant upsert failed", db.collection)
	}
	return nil
}

func (db *ClientHolder) Fetch(ctx context.Context, ids []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	byPoint := make(map[string]string, len(ids))
	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pid := PointID(id)
		byPoint[pid] = id
		pointIDs[i] = qdrant.NewID(pid)
	}

	points, err := db.QObj.Get(ctx, &qdrant.GetPoints{
		CollectionName: db.collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(false),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, classify(err, "qdrant fetch failed", db.collection)
	}

	for _, p := range points {
		hash, ok := byPoint[p.GetId().GetUuid()]
		if !ok {
			continue
		}
		found[hash] = denseVector(p.GetVectors())
	}
	return found, nil
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, k int) ([]contractModel.SearchHit, error) {
	if k <= 0 {
		return []contractModel.SearchHit{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, classify(err, "qdrant query failed", db.collection)
	}

	hits := make([]contractModel.SearchHit, 0, len(result))
	for _, hit := range result {
		meta := fromPayload(hit.GetPayload())
		hits = append(hits, contractModel.SearchHit{
			ID:       meta.ContentHash,
			Score:    hit.GetScore(),
			Metadata: meta,
		})
	}
	vectorDB.SortHits(hits)
	return hits, nil
}

func (db *ClientHolder) Stats(ctx context.Context) (contractModel.IndexStats, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	stats := contractModel.IndexStats{
		IndexName:   db.collection,
		Dimension:   int(db.dimension),
		StorageType: config.VectorBackendQdrant,
	}
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		stats.Status = contractModel.IndexError
		stats.Error = err.Error()
		return stats, classify(err, "qdrant count failed", db.collection)
	}
	stats.Status = contractModel.IndexConnected
	stats.TotalVectors = count
	return stats, nil
}

// classify maps every qdrant failure to ErrStoreUnavailable, keeping the cause
// and gRPC code for the logs.
func classify(err error, msg, collection string) error {
	if errors.Is(err, context.Canceled) {
		return goerr.Wrap(err, msg, goerr.V("collection", collection))
	}
	return goerr.Wrap(contractModel.Classify(contractModel.ErrStoreUnavailable, err), msg,
		goerr.V("collection", collection), goerr.V("code", status.Code(err).String()))
}

func denseVector(v *qdrant.VectorsOutput) []float32 {
	out := v.GetVector()
	if dense := out.GetDense(); dense != nil {
		return dense.GetData()
	}
	return out.GetData()
}
