package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_OpenTwiceMigratesOnce(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestDocumentStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:          "doc-1",
		SourceURI:   "notes/flywheel.md",
		Title:       "Flywheel Notes",
		ContentHash: "abc123",
		Status:      domain.StatusReady,
		IngestedAt:  time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.SourceURI, got.SourceURI)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.ContentHash, got.ContentHash)
	assert.Equal(t, domain.StatusReady, got.Status)
	assert.True(t, got.IngestedAt.Equal(doc.IngestedAt))
	assert.Empty(t, got.Error)

	byURI, err := docs.GetDocumentBySourceURI(ctx, "notes/flywheel.md")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byURI.ID)

	_, err = docs.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = docs.GetDocumentBySourceURI(ctx, "missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", SourceURI: "a.txt", Status: domain.StatusPending}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	doc.Status = domain.StatusFailed
	doc.Error = "embedding service down"
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, "embedding service down", got.Error)
}

func TestDocumentStore_ListOrdered(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	for _, uri := range []string{"c.txt", "a.txt", "b.txt"} {
		require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
			ID: "id-" + uri, SourceURI: uri, Status: domain.StatusReady,
		}))
	}

	list, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a.txt", list[0].SourceURI)
	assert.Equal(t, "b.txt", list[1].SourceURI)
	assert.Equal(t, "c.txt", list[2].SourceURI)
}

func TestDocumentStore_ReplaceChunks(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SourceURI: "a.txt", Status: domain.StatusPending,
	}))

	gen1 := []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", SequenceIndex: 0, Text: "first", Span: domain.CharSpan{Start: 0, End: 5}, ContentHash: "h1"},
		{ID: "c2", DocumentID: "doc-1", SequenceIndex: 1, Text: "second", Span: domain.CharSpan{Start: 3, End: 9}, ContentHash: "h2"},
	}
	require.NoError(t, docs.ReplaceChunks(ctx, "doc-1", gen1))

	gen2 := []domain.Chunk{
		{ID: "c3", DocumentID: "doc-1", SequenceIndex: 0, Text: "rewritten", Span: domain.CharSpan{Start: 0, End: 9}, ContentHash: "h3"},
	}
	require.NoError(t, docs.ReplaceChunks(ctx, "doc-1", gen2))

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c3", chunks[0].ID)
	assert.Equal(t, "rewritten", chunks[0].Text)
	assert.Equal(t, domain.CharSpan{Start: 0, End: 9}, chunks[0].Span)

	_, err = docs.GetChunk(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := docs.GetChunk(ctx, "c3")
	require.NoError(t, err)
	assert.Equal(t, "h3", got.ContentHash)
}

func TestDocumentStore_DeleteCascadesChunks(t *testing.T) {
	store := newTestStore(t)
	docs := store.DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", SourceURI: "a.txt", Status: domain.StatusReady,
	}))
	require.NoError(t, docs.ReplaceChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "c1", DocumentID: "doc-1", SequenceIndex: 0, Text: "body"},
	}))

	require.NoError(t, docs.DeleteDocument(ctx, "doc-1"))

	_, err := docs.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = docs.GetChunk(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, docs.DeleteDocument(ctx, "doc-1"), domain.ErrNotFound)
}

func TestEmbeddingStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	embeddings := store.EmbeddingStore()
	ctx := context.Background()

	rec := &domain.EmbeddingRecord{
		ContentHash:  "hash-1",
		Vector:       []float32{0.25, -1.5, 3.125, 0},
		ModelVersion: "text-embedding-3-small",
		CreatedAt:    time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, embeddings.SaveEmbedding(ctx, rec))

	got, err := embeddings.GetEmbedding(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Vector, got.Vector)
	assert.Equal(t, rec.ModelVersion, got.ModelVersion)
	assert.True(t, got.CreatedAt.Equal(rec.CreatedAt))

	_, err = embeddings.GetEmbedding(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmbeddingStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	embeddings := store.EmbeddingStore()
	ctx := context.Background()

	require.NoError(t, embeddings.SaveEmbedding(ctx, &domain.EmbeddingRecord{
		ContentHash: "h", Vector: []float32{1}, ModelVersion: "v1", CreatedAt: time.Now(),
	}))
	require.NoError(t, embeddings.SaveEmbedding(ctx, &domain.EmbeddingRecord{
		ContentHash: "h", Vector: []float32{2}, ModelVersion: "v2", CreatedAt: time.Now(),
	}))

	got, err := embeddings.GetEmbedding(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, got.Vector)
	assert.Equal(t, "v2", got.ModelVersion)
}

func TestSchedulerStore_TaskLifecycle(t *testing.T) {
	store := newTestStore(t)
	sched := store.SchedulerStore()
	ctx := context.Background()

	missing, err := sched.GetTask(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing, "absent task is nil, nil")

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDDailyWords,
		Name:     "Daily Words",
		Interval: 24 * time.Hour,
		NextRun:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Enabled:  true,
	}
	require.NoError(t, sched.SaveTask(ctx, task))

	got, err := sched.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 24*time.Hour, got.Interval)
	assert.True(t, got.NextRun.Equal(task.NextRun))
	assert.True(t, got.Enabled)
	assert.True(t, got.LastRun.IsZero())

	task.LastRun = time.Date(2026, 3, 1, 8, 0, 5, 0, time.UTC)
	task.LastError = "llm timeout"
	require.NoError(t, sched.SaveTask(ctx, task))

	got, err = sched.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "llm timeout", got.LastError)
	assert.True(t, got.LastRun.Equal(task.LastRun))

	tasks, err := sched.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	assert.ErrorIs(t, sched.SaveTask(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_ResultsAndPrune(t *testing.T) {
	store := newTestStore(t)
	sched := store.SchedulerStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, sched.RecordResult(ctx, &domain.TaskResult{
			TaskID:    domain.TaskIDDailyQuotes,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			EndedAt:   base.Add(time.Duration(i)*time.Hour + time.Second),
			Success:   i%2 == 0,
			Error:     map[bool]string{true: "", false: "failed"}[i%2 == 0],
		}))
	}
	// Another task's history must not be affected by pruning.
	require.NoError(t, sched.RecordResult(ctx, &domain.TaskResult{
		TaskID:    domain.TaskIDDailyWords,
		StartedAt: base,
		EndedAt:   base.Add(time.Second),
		Success:   true,
	}))

	require.NoError(t, sched.PruneHistory(ctx, 2))

	var count int
	row := store.db.QueryRow("SELECT COUNT(*) FROM task_results WHERE task_id = ?", domain.TaskIDDailyQuotes)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 2, count)

	row = store.db.QueryRow("SELECT COUNT(*) FROM task_results WHERE task_id = ?", domain.TaskIDDailyWords)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)

	// The survivors are the most recent runs.
	row = store.db.QueryRow(
		"SELECT MIN(started_at) FROM task_results WHERE task_id = ?", domain.TaskIDDailyQuotes)
	var minStarted string
	require.NoError(t, row.Scan(&minStarted))
	assert.Equal(t, base.Add(3*time.Hour).Format(time.RFC3339), minStarted)
}
