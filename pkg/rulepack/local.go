package rulepack

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&LocalProvider{})
}

// 📁 LocalProvider serves rule packs from the local filesystem. It is the
// fallback for every source that is not a remote reference.
type LocalProvider struct{}

func (p *LocalProvider) CanHandle(source string) bool {
	return !IsRemote(source) && !IsBuiltin(source)
}

func (p *LocalProvider) Fetch(ctx context.Context, source string) (io.ReadCloser, string, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, "", errors.Errorf("opening rule pack: %w", err)
	}
	return f, filepath.Base(source), nil
}
