// Package wallet manages the agent's ed25519 signing keypair.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
)

// Wallet holds the agent's signing keypair. The keypair file uses the
// standard Solana CLI format: a JSON array of the 64 secret key bytes.
type Wallet struct {
	priv ed25519.PrivateKey
}

// Generate creates a new random keypair.
func Generate() (*Wallet, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Wallet{priv: priv}, nil
}

// Load reads a keypair file.
func Load(path string) (*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair file: %w", err)
	}

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("parse keypair file: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keypair file holds %d bytes, want %d", len(ints), ed25519.PrivateKeySize)
	}

	secret := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("keypair file byte %d out of range: %d", i, v)
		}
		secret[i] = byte(v)
	}

	return &Wallet{priv: ed25519.PrivateKey(secret)}, nil
}

// LoadOrCreate loads the keypair at path, generating and saving a new one
// when the file does not exist.
func LoadOrCreate(path string) (*Wallet, error) {
	w, err := Load(path)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	w, err = Generate()
	if err != nil {
		return nil, err
	}
	if err := w.Save(path); err != nil {
		return nil, err
	}
	return w, nil
}

// Save writes the keypair in Solana CLI format with owner-only permissions.
func (w *Wallet) Save(path string) error {
	ints := make([]int, len(w.priv))
	for i, b := range w.priv {
		ints[i] = int(b)
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("marshal keypair: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create keypair directory: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}
	return nil
}

// Address returns the base58-encoded public key.
func (w *Wallet) Address() string {
	return base58.Encode(w.priv.Public().(ed25519.PublicKey))
}

// Sign signs a message with the keypair.
func (w *Wallet) Sign(message []byte) []byte {
	return ed25519.Sign(w.priv, message)
}

// Verify checks a signature produced by Sign.
func (w *Wallet) Verify(message, signature []byte) bool {
	return ed25519.Verify(w.priv.Public().(ed25519.PublicKey), message, signature)
}
