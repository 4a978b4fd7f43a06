package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/index"
	"github.com/poiesic/docfind/source"
	"github.com/poiesic/docfind/text"
)

func buildIndex(t *testing.T, pages []core.Page) *core.Index {
	t.Helper()

	var chunks []*core.Chunk
	for _, page := range pages {
		chunks = append(chunks, text.ChunkPage(page.Text, page.Number, text.DefaultChunkOptions())...)
	}
	return index.Build(chunks)
}

var servicePages = []core.Page{
	{Number: 1, Text: "The hydraulic pump pressurizes the main circuit."},
	{Number: 2, Text: "Relief valves protect the circuit from pressure spikes."},
}

func TestService_SearchBeforeIndex(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	candidates, err := svc.Search(context.Background(), "hydraulic pump", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, candidates, "a service without an index answers with nothing")
}

func TestService_SetIndexAndSearch(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	src := source.NewSlice(servicePages)
	require.NoError(t, svc.SetIndex(context.Background(), buildIndex(t, servicePages), src))

	candidates, err := svc.SearchBoosted(context.Background(), "hydraulic pump", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, 1, candidates[0].Page)
}

func TestService_SearchHybridWithoutVector(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.SetIndex(context.Background(), buildIndex(t, servicePages), nil))

	candidates, err := svc.SearchHybrid(context.Background(), "relief valves", nil, 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, 2, candidates[0].Page)
}

func TestService_ApplyEmbeddings(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	idx := buildIndex(t, servicePages)
	require.NoError(t, svc.SetIndex(context.Background(), idx, nil))

	stats, err := svc.IndexStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Chunks)
	assert.Zero(t, stats.Embedded)

	vectors := map[core.ChunkID][]float32{
		core.NewChunkID(1, 0): {0.6, 0.8},
		"99-0":                {1, 0}, // unknown ids are dropped
	}
	require.NoError(t, svc.ApplyEmbeddings(context.Background(), vectors))

	stats, err = svc.IndexStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Embedded)
}

func TestService_PageText(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	src := source.NewSlice(servicePages)
	require.NoError(t, svc.SetIndex(context.Background(), buildIndex(t, servicePages), src))

	assert.Equal(t, servicePages[1].Text, svc.PageText(context.Background(), 2))
	assert.Empty(t, svc.PageText(context.Background(), 7), "unknown pages yield empty text")
}

func TestService_PageTextWithoutSource(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.SetIndex(context.Background(), buildIndex(t, servicePages), nil))
	assert.Empty(t, svc.PageText(context.Background(), 1))
}

func TestService_Close(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	svc.Close()
	svc.Close() // idempotent

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = svc.Search(ctx, "anything", 5, nil)
	assert.ErrorIs(t, err, ErrServiceClosed)
}

func TestService_FindBoostedCandidates(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.SetIndex(context.Background(), buildIndex(t, servicePages), nil))

	candidates, err := svc.FindBoostedCandidates("pressure spikes", 5, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, candidates)
}
