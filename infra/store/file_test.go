package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/amirasaad/urbanbank/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(dir, slog.Default()), dir
}

func TestFileStore_EnsureCreatesEmptyCollections(t *testing.T) {
	s, dir := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ensure(ctx, repository.Collections...))
	for _, c := range repository.Collections {
		data, err := os.ReadFile(filepath.Join(dir, c+".json"))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	}

	// Existing data is left alone.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(`[{"username":"jdoe"}]`), 0o600))
	require.NoError(t, s.Ensure(ctx, repository.CollectionUsers))
	records, err := s.Load(ctx, repository.CollectionUsers)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFileStore_LoadToleratesMissingAndCorrupt(t *testing.T) {
	s, dir := newTestFileStore(t)
	ctx := context.Background()

	records, err := s.Load(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, records)

	testCases := []struct {
		desc    string
		content string
		want    int
	}{
		{"corrupt json", `[{"username": "jdoe"`, 0},
		{"empty file", ``, 0},
		{"not an array", `{"username":"jdoe"}`, 0},
		{"non-object items skipped", `[1, "x", {"username":"jdoe"}, null]`, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(tc.content), 0o600))
			records, err := s.Load(ctx, repository.CollectionUsers)
			require.NoError(t, err)
			assert.Len(t, records, tc.want)
		})
	}
}

func TestFileStore_SaveLoadPreservesOrderAndNumbers(t *testing.T) {
	s, dir := newTestFileStore(t)
	ctx := context.Background()

	in := []repository.Record{
		{"username": "jdoe", "account_number": json.Number("483920174"), "balance": json.Number("7421000")},
		{"username": "asimmons", "account_number": "602348291", "note": "<b>&</b>"},
	}
	require.NoError(t, s.Save(ctx, repository.CollectionUsers, in))

	out, err := s.Load(ctx, repository.CollectionUsers)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "jdoe", out[0]["username"])
	assert.Equal(t, json.Number("483920174"), out[0]["account_number"])
	assert.Equal(t, "602348291", out[1]["account_number"])

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"<b>&</b>"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_UpdateAbortsOnError(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "items", []repository.Record{{"n": json.Number("1")}}))

	boom := errors.New("boom")
	err := s.Update(ctx, "items", func(records []repository.Record) ([]repository.Record, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	records, err := s.Load(ctx, "items")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFileStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.Ensure(ctx, "items"))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(ctx, "items", func(records []repository.Record) ([]repository.Record, error) {
				return append(records, repository.Record{"n": json.Number("1")}), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := s.Load(ctx, "items")
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestMemoryStore_BehavesLikeFileStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Ensure(ctx, repository.Collections...))
	records, err := s.Load(ctx, repository.CollectionMessages)
	require.NoError(t, err)
	assert.Empty(t, records)

	s.SetRaw(repository.CollectionUsers, []byte("not json"))
	records, err = s.Load(ctx, repository.CollectionUsers)
	require.NoError(t, err)
	assert.Empty(t, records)

	in := []repository.Record{{"username": "jdoe", "balance": json.Number("10.5")}}
	require.NoError(t, s.Save(ctx, repository.CollectionUsers, in))
	in[0]["username"] = "mutated"

	out, err := s.Load(ctx, repository.CollectionUsers)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", out[0]["username"])
	assert.Equal(t, json.Number("10.5"), out[0]["balance"])
}
