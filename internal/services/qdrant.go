package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

type QdrantService interface {
	InitCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []KnowledgeChunk) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, filter SearchFilter, limit int) ([]SearchResult, error)
	DeleteByField(ctx context.Context, key, value string) error
}

// KnowledgeChunk is one embedded piece of a job posting or reference document.
type KnowledgeChunk struct {
	SourceID   string
	DocType    string
	JobID      string
	ChunkIndex int
	Text       string
	Embedding  []float32
}

type SearchFilter struct {
	DocType string
	JobID   string
}

type SearchResult struct {
	ID       string
	Score    float32
	Text     string
	DocType  string
	Metadata map[string]interface{}
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantService(urlStr, apiKey, collectionName string, vectorSize uint64, logger *zap.Logger) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// the REST port in QDRANT_URL is ignored unless it is explicitly the gRPC one
	port := 6334
	if p := parsed.Port(); p != "" && p != "6333" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		logger:         logger,
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !exists {
		err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: q.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     q.vectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		q.logger.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName))
	}

	for _, field := range []string{"doc_type", "job_id", "source_id"} {
		_, err := q.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: q.collectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			q.logger.Debug("Payload index not created", zap.String("field", field), zap.Error(err))
		}
	}

	return nil
}

// UpsertChunks implements QdrantService. Point ids derive from source and
// chunk index, so re-indexing a source overwrites its points.
func (q *qdrantService) UpsertChunks(ctx context.Context, chunks []KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		pointID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", chunk.SourceID, chunk.ChunkIndex)))

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID.String()),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"source_id":   chunk.SourceID,
				"doc_type":    chunk.DocType,
				"job_id":      chunk.JobID,
				"chunk_index": chunk.ChunkIndex,
				"text":        chunk.Text,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// SearchSimilar implements QdrantService.
func (q *qdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, filter SearchFilter, limit int) ([]SearchResult, error) {
	var conditions []*qdrant.Condition
	if filter.DocType != "" {
		conditions = append(conditions, qdrant.NewMatch("doc_type", filter.DocType))
	}
	if filter.JobID != "" {
		conditions = append(conditions, qdrant.NewMatch("job_id", filter.JobID))
	}

	var qfilter *qdrant.Filter
	if len(conditions) > 0 {
		qfilter = &qdrant.Filter{Must: conditions}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         qfilter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		metadata := make(map[string]interface{}, len(payload))
		for key, value := range payload {
			metadata[key] = value
		}

		results = append(results, SearchResult{
			ID:       payloadString(payload, "source_id"),
			Score:    point.Score,
			Text:     payloadString(payload, "text"),
			DocType:  payloadString(payload, "doc_type"),
			Metadata: metadata,
		})
	}

	return results, nil
}

// DeleteByField implements QdrantService.
func (q *qdrantService) DeleteByField(ctx context.Context, key, value string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{qdrant.NewMatch(key, value)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}
