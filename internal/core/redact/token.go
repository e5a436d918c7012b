package redact

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	perr "scrubber/internal/platform/errors"
)

const tokenPrefix = "TOK_"

// Key derivation parameters. The salt is fixed so the same secret always
// derives the same key, which is what makes tokens portable across
// process restarts
const (
	kdfIterations = 100_000
	kdfKeyLen     = 32
)

var kdfSalt = []byte("scrubber.token.v1")

// Tokenizer produces reversible tokens by encrypting the original value
// under a key derived from the configured secret
type Tokenizer struct {
	aead cipher.AEAD
}

// NewTokenizer derives an AES-256-GCM key from secret via PBKDF2-SHA256
func NewTokenizer(secret string) (*Tokenizer, error) {
	if secret == "" {
		return nil, perr.InvalidInputf("tokenization secret is empty")
	}
	key := pbkdf2.Key([]byte(secret), kdfSalt, kdfIterations, kdfKeyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "building cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "building gcm")
	}
	return &Tokenizer{aead: aead}, nil
}

// Tokenize encrypts value into a reversible token. The token carries the
// nonce and ciphertext in full: truncating it would destroy the only
// copy of the data needed to reverse it
func (t *Tokenizer) Tokenize(value string) (string, error) {
	nonce := make([]byte, t.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "reading nonce")
	}
	sealed := t.aead.Seal(nonce, nonce, []byte(value), nil)
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Reverse decrypts a token produced with the same secret. A structurally
// sound token that fails authentication means the wrong key; a token too
// short to ever decrypt (a hash token, typically) is irreversible
func (t *Tokenizer) Reverse(token string) (string, error) {
	raw, ok := strings.CutPrefix(token, tokenPrefix)
	if !ok {
		return "", perr.TokenIrreversiblef("value is not a token")
	}
	blob, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", perr.TokenIrreversiblef("token is not decodable")
	}
	if len(blob) < t.aead.NonceSize()+t.aead.Overhead() {
		return "", perr.TokenIrreversiblef("token was produced without a secret and cannot be reversed")
	}
	nonce, ct := blob[:t.aead.NonceSize()], blob[t.aead.NonceSize():]
	plain, err := t.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", perr.TokenKeyMismatchf("token does not authenticate under the configured secret")
	}
	return string(plain), nil
}

// HashToken is the irreversible fallback used when no secret is
// configured: a truncated digest that still correlates repeated values
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return tokenPrefix + hex.EncodeToString(sum[:])[:15]
}
