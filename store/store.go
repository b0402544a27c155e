// Package store provides the durable JSON documents backing credentials and
// tokens. Both stores self-heal: a missing or unparseable document is
// replaced with its empty default instead of failing the caller, a
// reasonable trade for a single-user local tool.
package store

import (
	"bytes"
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// load fetches the raw document at URL, creating it with defaultDoc when missing.
func load(ctx context.Context, fs afs.Service, URL string, defaultDoc []byte) ([]byte, error) {
	ok, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err = save(ctx, fs, URL, defaultDoc); err != nil {
			return nil, err
		}
		return defaultDoc, nil
	}
	return fs.DownloadWithURL(ctx, URL)
}

// save rewrites the whole document, last writer wins.
func save(ctx context.Context, fs afs.Service, URL string, data []byte) error {
	return fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
}
