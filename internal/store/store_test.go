// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "review.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() RunRecord {
	return RunRecord{
		CreatedAt:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Keywords:         []string{"mindfulness", "anxiety"},
		ResearchQuestion: "Does mindfulness reduce anxiety?",
		Sources:          []string{"pubmed", "arxiv"},
		Corpus: types.Corpus{Records: []types.Record{
			{
				ID: 1, Title: "Mindfulness reduces anxiety in adults",
				Authors: "Jane A Smith, Robert Jones", Abstract: "A trial.",
				Year: 2019, URL: "https://pubmed.ncbi.nlm.nih.gov/1/",
				DOI: "10.1000/jaad.2019.001", Source: "pubmed",
				Method: "pubmed_api_research_question",
				Terms:  []string{"mindfulness", "anxiety"},
			},
			{
				ID: 2, Title: "Attention and calm: a survey",
				Authors: types.UnknownAuthors, Year: 0, Source: "arxiv",
				Method: "arxiv_api_keyword_combo",
			},
		}},
		Stats: types.RunStatistics{
			Successful: []string{"pubmed:pubmed_api_research_question", "arxiv:arxiv_api_keyword_combo"},
			Failed:     []string{"scopus:failed"},
			PerSource:  map[string]int{"pubmed": 1, "arxiv": 1},
		},
	}
}

// --- persistence round trips ---

func TestSaveRunAndLoadCorpus(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := sampleRun()

	runID, err := s.SaveRun(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	corpus, err := s.LoadCorpus(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, run.Corpus.Records, corpus.Records)
}

func TestSaveRunAssignsSequentialIDs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	assert.Equal(t, first+1, second)
}

func TestLoadStatsRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := sampleRun()

	runID, err := s.SaveRun(ctx, run)
	require.NoError(t, err)

	stats, err := s.LoadStats(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, run.Stats, stats)
}

func TestListRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	run := sampleRun()

	first, err := s.SaveRun(ctx, run)
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, run)
	require.NoError(t, err)

	require.NoError(t, s.RecordAssignments(ctx, first, map[int]string{1: "1_study.pdf"}))

	summaries, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, first, summaries[0].ID)
	assert.True(t, summaries[0].CreatedAt.Equal(run.CreatedAt))
	assert.Equal(t, run.ResearchQuestion, summaries[0].ResearchQuestion)
	assert.Equal(t, run.Keywords, summaries[0].Keywords)
	assert.Equal(t, 2, summaries[0].Records)
	assert.Equal(t, 1, summaries[0].Assigned)
	assert.Equal(t, 0, summaries[1].Assigned)
}

func TestSaveRunEmptyCorpus(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := sampleRun()
	run.Corpus = types.Corpus{}

	runID, err := s.SaveRun(ctx, run)
	require.NoError(t, err)

	corpus, err := s.LoadCorpus(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, corpus.Records)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.db")
	ctx := context.Background()

	s, err := New(types.StoreConfig{DBPath: path})
	require.NoError(t, err)
	runID, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(types.StoreConfig{DBPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	corpus, err := reopened.LoadCorpus(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, corpus.Records, 2)
}

// --- assignments ---

func TestRecordAssignmentsUpsert(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	require.NoError(t, s.RecordAssignments(ctx, runID, map[int]string{1: "a.pdf"}))
	require.NoError(t, s.RecordAssignments(ctx, runID, map[int]string{1: "b.pdf", 2: "c.pdf"}))

	got, err := s.Assignments(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "b.pdf", 2: "c.pdf"}, got)
}

func TestAssignmentsEmptyRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)

	require.NoError(t, s.RecordAssignments(ctx, runID, nil))

	got, err := s.Assignments(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// --- missing runs ---

func TestLoadCorpusUnknownRun(t *testing.T) {
	s := testStore(t)

	_, err := s.LoadCorpus(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadStatsUnknownRun(t *testing.T) {
	s := testStore(t)

	_, err := s.LoadStats(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
