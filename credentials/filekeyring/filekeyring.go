// Package filekeyring persists session credentials as a JSON document on
// disk, optionally sealed with a passphrase-derived key so tokens are not
// readable at rest.
package filekeyring

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/lmsdesk/go-admin-client/credentials"
)

var _ credentials.Keyring = (*Keyring)(nil)

// hkdfInfo binds derived keys to this application.
const hkdfInfo = "lmsdesk-admin-client credentials v1"

// Keyring stores key-value pairs in a single JSON file. Writes are atomic
// (temp file + rename) so a crash mid-write never leaves a torn document.
type Keyring struct {
	path string
	aead func() (aeadCipher, error)
	lock sync.Mutex
}

type aeadCipher interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
}

// Option configures a Keyring.
type Option func(*Keyring)

// WithPassphrase seals stored values with a key derived from the
// passphrase via HKDF-SHA256 and ChaCha20-Poly1305.
func WithPassphrase(passphrase string) Option {
	return func(k *Keyring) {
		k.aead = func() (aeadCipher, error) {
			key := make([]byte, chacha20poly1305.KeySize)
			kdf := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(hkdfInfo))
			if _, err := io.ReadFull(kdf, key); err != nil {
				return nil, errors.Wrap(err, "derive key")
			}
			return chacha20poly1305.NewX(key)
		}
	}
}

// New creates a file keyring at path. The parent directory is created if
// absent; the file itself is created on first Set.
func New(path string, options ...Option) (*Keyring, error) {
	if path == "" {
		return nil, errors.New("[filekeyring.New] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[filekeyring.New] create directory")
	}
	k := &Keyring{path: path}
	for _, opt := range options {
		opt(k)
	}
	return k, nil
}

func (k *Keyring) Get(key string) (string, bool, error) {
	k.lock.Lock()
	defer k.lock.Unlock()

	values, err := k.read()
	if err != nil {
		return "", false, errors.Wrap(err, "[Keyring.Get]")
	}
	stored, ok := values[key]
	if !ok {
		return "", false, nil
	}
	value, err := k.decode(stored)
	if err != nil {
		return "", false, errors.Wrapf(err, "[Keyring.Get] decode %q", key)
	}
	return value, true, nil
}

func (k *Keyring) Set(key, value string) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	values, err := k.read()
	if err != nil {
		return errors.Wrap(err, "[Keyring.Set]")
	}
	encoded, err := k.encode(value)
	if err != nil {
		return errors.Wrapf(err, "[Keyring.Set] encode %q", key)
	}
	values[key] = encoded
	return errors.Wrap(k.write(values), "[Keyring.Set]")
}

func (k *Keyring) Delete(key string) error {
	k.lock.Lock()
	defer k.lock.Unlock()

	values, err := k.read()
	if err != nil {
		return errors.Wrap(err, "[Keyring.Delete]")
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return errors.Wrap(k.write(values), "[Keyring.Delete]")
}

func (k *Keyring) read() (map[string]string, error) {
	data, err := os.ReadFile(k.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "parse file")
	}
	return values, nil
}

func (k *Keyring) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal values")
	}
	tmp := k.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := os.Rename(tmp, k.path); err != nil {
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}

func (k *Keyring) encode(value string) (string, error) {
	if k.aead == nil {
		return value, nil
	}
	cipher, err := k.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, cipher.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, "generate nonce")
	}
	sealed := cipher.Seal(nonce, nonce, []byte(value), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (k *Keyring) decode(stored string) (string, error) {
	if k.aead == nil {
		return stored, nil
	}
	cipher, err := k.aead()
	if err != nil {
		return "", err
	}
	sealed, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", errors.Wrap(err, "base64 decode")
	}
	if len(sealed) < cipher.NonceSize() {
		return "", errors.New("sealed value too short")
	}
	nonce, ciphertext := sealed[:cipher.NonceSize()], sealed[cipher.NonceSize():]
	plaintext, err := cipher.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Wrap(err, "open sealed value")
	}
	return string(plaintext), nil
}
