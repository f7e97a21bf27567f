package translation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
)

// CredentialSupplier yields one API key per outbound call
type CredentialSupplier interface {
	Credential(ctx context.Context) (string, error)
}

// StaticSupplier always returns the same key
type StaticSupplier string

// Credential returns the key or ErrMissingCredentials when it is empty
func (s StaticSupplier) Credential(context.Context) (string, error) {
	key := strings.TrimSpace(string(s))
	if key == "" {
		return "", ErrMissingCredentials
	}
	return key, nil
}

// PoolSupplier picks a random key from a file holding one key per line.
// The file is read on every call so keys can be rotated without a restart.
type PoolSupplier struct {
	Path string

	// Pick chooses an index in [0, n); rand.IntN when nil
	Pick func(n int) int
}

// NewPoolSupplier creates a PoolSupplier reading keys from path
func NewPoolSupplier(path string) *PoolSupplier {
	return &PoolSupplier{Path: path}
}

// Credential returns a randomly selected key from the pool
func (p *PoolSupplier) Credential(context.Context) (string, error) {
	keys, err := p.keys()
	if err != nil {
		return "", err
	}

	pick := p.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return keys[pick(len(keys))], nil
}

func (p *PoolSupplier) keys() ([]string, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: key file %s not found", ErrMissingCredentials, p.Path)
		}
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer f.Close()

	var keys []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if key := strings.TrimSpace(scanner.Text()); key != "" {
			keys = append(keys, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: key file %s is empty", ErrMissingCredentials, p.Path)
	}
	return keys, nil
}
