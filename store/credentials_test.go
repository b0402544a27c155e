package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_InitializesMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	creds := NewCredentials(path)

	records, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestCredentials_ResetsCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	creds := NewCredentials(path)

	records, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// second load sees the rewritten default, not the corrupt payload
	records, err = creds.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCredentials_UpsertIdempotentOnKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	creds := NewCredentials(path)

	require.NoError(t, creds.Upsert(ctx, "abc", "secretA"))
	require.NoError(t, creds.Upsert(ctx, "abc", "secretB"))
	require.NoError(t, creds.Upsert(ctx, "xyz", "other"))

	records, err := creds.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Credential{ClientID: "abc", ClientSecret: "secretB"}, records[0])
	assert.Equal(t, Credential{ClientID: "xyz", ClientSecret: "other"}, records[1])
}

func TestCredentials_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	creds := NewCredentials(path)

	var wg sync.WaitGroup
	for _, clientID := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				assert.NoError(t, creds.Upsert(ctx, id, "secret-"+id))
			}
		}(clientID)
	}
	wg.Wait()

	records, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2, "concurrent upserts must not clobber each other")
}
