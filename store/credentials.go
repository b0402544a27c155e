package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/viant/afs"
)

// Credential is a stored application credential.
type Credential struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Credentials persists application credentials as an ordered JSON list,
// keyed by client id with upsert semantics.
type Credentials struct {
	mu  sync.Mutex
	fs  afs.Service
	URL string
}

// NewCredentials makes a credential store backed by the file at URL.
func NewCredentials(URL string) *Credentials {
	return &Credentials{fs: afs.New(), URL: URL}
}

// Load returns all stored credentials, initializing the backing file when
// missing or corrupt.
func (c *Credentials) Load(ctx context.Context) ([]Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Upsert saves or replaces the secret for clientID as a single
// load-modify-save critical section.
func (c *Credentials) Upsert(ctx context.Context, clientID, clientSecret string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated := false
	for i := range records {
		if records[i].ClientID == clientID {
			records[i].ClientSecret = clientSecret
			updated = true
			break
		}
	}
	if !updated {
		records = append(records, Credential{ClientID: clientID, ClientSecret: clientSecret})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return save(ctx, c.fs, c.URL, data)
}

func (c *Credentials) load(ctx context.Context) ([]Credential, error) {
	data, err := load(ctx, c.fs, c.URL, []byte("[]"))
	if err != nil {
		return nil, err
	}
	var records []Credential
	if err = json.Unmarshal(data, &records); err != nil {
		// unparseable document, rewrite with the empty default and carry on
		if err = save(ctx, c.fs, c.URL, []byte("[]")); err != nil {
			return nil, err
		}
		return []Credential{}, nil
	}
	return records, nil
}
