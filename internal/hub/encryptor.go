package hub

import "io"

// Encryptor encrypts and decrypts stored documents. Implementations stream
// so callers are not tied to any particular framing.
type Encryptor interface {
	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt reads ciphertext from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
