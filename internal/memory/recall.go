package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/qdrant"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/voyage"
)

// VectorRecall backs semantic recall with voyage embeddings and a
// Qdrant collection. Every failure is logged and swallowed: recall is
// an enrichment, never a dependency.
type VectorRecall struct {
	l          pkgLog.Logger
	embedder   voyage.IVoyage
	store      *qdrant.Client
	collection string
	vectorSize int
}

var _ Recaller = (*VectorRecall)(nil)

// NewVectorRecall creates a vector-backed recaller.
func NewVectorRecall(l pkgLog.Logger, embedder voyage.IVoyage, store *qdrant.Client, collection string, vectorSize int) *VectorRecall {
	return &VectorRecall{
		l:          l,
		embedder:   embedder,
		store:      store,
		collection: collection,
		vectorSize: vectorSize,
	}
}

// Bootstrap ensures the collection exists. Qdrant treats re-creation of
// an existing collection as an error, which is fine to ignore here.
func (r *VectorRecall) Bootstrap(ctx context.Context) {
	err := r.store.CreateCollection(ctx, qdrant.CreateCollectionRequest{
		Name: r.collection,
		Vectors: qdrant.VectorConfig{
			Size:     r.vectorSize,
			Distance: "Cosine",
		},
	})
	if err != nil {
		r.l.Debugf(ctx, "%s: collection bootstrap: %v", LogPrefixIndex, err)
	}
}

func (r *VectorRecall) Index(ctx context.Context, text string, payload map[string]any) {
	if text == "" {
		return
	}

	vectors, err := r.embedder.Embed(ctx, []string{text})
	if err != nil || len(vectors) == 0 {
		r.l.Warnf(ctx, "%s: embedding failed: %v", LogPrefixIndex, err)
		return
	}

	if payload == nil {
		payload = map[string]any{}
	}
	payload["text"] = text
	payload["indexed_at"] = time.Now().UTC().Format(time.RFC3339)

	err = r.store.UpsertPoints(ctx, r.collection, qdrant.UpsertPointsRequest{
		Points: []qdrant.Point{{
			ID:      uuid.NewString(),
			Vector:  vectors[0],
			Payload: payload,
		}},
	})
	if err != nil {
		r.l.Warnf(ctx, "%s: upsert failed: %v", LogPrefixIndex, err)
	}
}

func (r *VectorRecall) Search(ctx context.Context, query string, limit int) []string {
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 3
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		r.l.Warnf(ctx, "%s: embedding failed: %v", LogPrefixRecall, err)
		return nil
	}

	resp, err := r.store.SearchPoints(ctx, r.collection, qdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       limit,
		WithPayload: true,
	})
	if err != nil {
		r.l.Warnf(ctx, "%s: search failed: %v", LogPrefixRecall, err)
		return nil
	}

	texts := make([]string, 0, len(resp.Result))
	for _, point := range resp.Result {
		if text, ok := point.Payload["text"].(string); ok && text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}
