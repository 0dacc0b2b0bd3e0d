package blob

import (
	"bytes"
	"context"
	"fmt"

	"hub-go/internal/hub"
)

// EncryptedStore wraps another BlobStore, encrypting documents on Put and
// decrypting on Get. Revisions pass through untouched so the optimistic
// concurrency behavior of the underlying backend is preserved.
type EncryptedStore struct {
	inner     hub.BlobStore
	encryptor hub.Encryptor
}

// NewEncryptedStore wraps inner with at-rest encryption.
func NewEncryptedStore(inner hub.BlobStore, encryptor hub.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, encryptor: encryptor}
}

// Get retrieves and decrypts the document at key.
func (s *EncryptedStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	ciphertext, revision, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, 0, err
	}

	var plaintext bytes.Buffer
	if err := s.encryptor.Decrypt(bytes.NewReader(ciphertext), &plaintext); err != nil {
		return nil, 0, fmt.Errorf("decrypting blob: %w", err)
	}
	return plaintext.Bytes(), revision, nil
}

// Put encrypts and stores data at key.
func (s *EncryptedStore) Put(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	var ciphertext bytes.Buffer
	if err := s.encryptor.Encrypt(bytes.NewReader(data), &ciphertext); err != nil {
		return 0, fmt.Errorf("encrypting blob: %w", err)
	}
	return s.inner.Put(ctx, key, ciphertext.Bytes(), expectedRevision)
}

// Ping delegates to the underlying backend.
func (s *EncryptedStore) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close delegates to the underlying backend.
func (s *EncryptedStore) Close() error { return s.inner.Close() }

// Compile-time check that EncryptedStore implements hub.BlobStore
var _ hub.BlobStore = (*EncryptedStore)(nil)
