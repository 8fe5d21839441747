package delivery

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"autoservice-workflow/internal/pkg/errs"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "autoservice-workflow/delivery"

var ErrMalformedPayload = errs.New("malformed sealed payload")

// Cipher seals payloads with XChaCha20-Poly1305. The wire form is base64(nonce || ciphertext).
type Cipher struct {
	key []byte
}

func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errs.New("delivery secret must not be empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, errs.Wrap(err, "derive delivery key")
	}
	return &Cipher{key: key}, nil
}

func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, errs.Wrap(err, "init cipher")
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errs.Wrap(err, "read nonce")
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)
	return out, nil
}

func (c *Cipher) Open(payload []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, errs.Wrap(err, "init cipher")
	}
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
	n, err := base64.StdEncoding.Decode(raw, payload)
	if err != nil {
		return nil, errs.Mark(err, ErrMalformedPayload)
	}
	raw = raw[:n]
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrMalformedPayload
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errs.Mark(err, ErrMalformedPayload)
	}
	return plain, nil
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// SealedChannel encrypts every payload before handing it to next.
type SealedChannel struct {
	cipher *Cipher
	next   Publisher
}

func NewSealedChannel(cipher *Cipher, next Publisher) *SealedChannel {
	return &SealedChannel{cipher: cipher, next: next}
}

func (s *SealedChannel) Publish(ctx context.Context, topic string, payload []byte) error {
	sealed, err := s.cipher.Seal(payload)
	if err != nil {
		return err
	}
	return s.next.Publish(ctx, topic, sealed)
}
