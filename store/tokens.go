package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/viant/afs"
)

// Record is the opaque token payload as returned by the token endpoint.
type Record map[string]interface{}

// Tokens persists the last-obtained token per client id as a JSON object.
type Tokens struct {
	mu  sync.Mutex
	fs  afs.Service
	URL string
}

// NewTokens makes a token store backed by the file at URL.
func NewTokens(URL string) *Tokens {
	return &Tokens{fs: afs.New(), URL: URL}
}

// Load returns the whole client id to token mapping, initializing the
// backing file when missing or corrupt.
func (t *Tokens) Load(ctx context.Context) (map[string]Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Lookup returns the stored token record for clientID.
func (t *Tokens) Lookup(ctx context.Context, clientID string) (Record, bool, error) {
	tokens, err := t.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	record, ok := tokens[clientID]
	return record, ok, nil
}

// Upsert stores or replaces the token record for clientID as a single
// load-modify-save critical section.
func (t *Tokens) Upsert(ctx context.Context, clientID string, record Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	tokens, err := t.load(ctx)
	if err != nil {
		return err
	}
	tokens[clientID] = record
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return err
	}
	return save(ctx, t.fs, t.URL, data)
}

func (t *Tokens) load(ctx context.Context) (map[string]Record, error) {
	data, err := load(ctx, t.fs, t.URL, []byte("{}"))
	if err != nil {
		return nil, err
	}
	var tokens map[string]Record
	if err = json.Unmarshal(data, &tokens); err != nil {
		if err = save(ctx, t.fs, t.URL, []byte("{}")); err != nil {
			return nil, err
		}
		return map[string]Record{}, nil
	}
	if tokens == nil {
		tokens = map[string]Record{}
	}
	return tokens, nil
}
