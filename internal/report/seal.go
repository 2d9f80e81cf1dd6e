package report

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12 // GCM standard nonce size
	saltSize         = 16
	pbkdf2Iterations = 100000
	sealVersion      = 1
)

// envelope is the JSON wrapper of a sealed backup
type envelope struct {
	Sealed int    `json:"awareeSealed"`
	Salt   string `json:"salt"`
	Data   string `json:"data"`
}

// IsSealed reports whether content is a sealed envelope
func IsSealed(content []byte) bool {
	return gjson.GetBytes(content, "awareeSealed").Exists()
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts data with AES-256-GCM under a key derived from passphrase
func Seal(data []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required to seal a backup")
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// nonce is stored in front of the ciphertext
	sealed := gcm.Seal(nonce, nonce, data, nil)
	return json.MarshalIndent(envelope{
		Sealed: sealVersion,
		Salt:   base64.StdEncoding.EncodeToString(salt),
		Data:   base64.StdEncoding.EncodeToString(sealed),
	}, "", "  ")
}

// Open decrypts a sealed envelope. A wrong passphrase or a damaged envelope
// is reported as ErrCorruptPayload.
func Open(content []byte, passphrase string) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(content, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if env.Sealed != sealVersion {
		return nil, fmt.Errorf("%w: unsupported seal version %d", ErrCorruptPayload, env.Sealed)
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad salt", ErrCorruptPayload)
	}
	data, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil || len(data) < nonceSize {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrCorruptPayload)
	}

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid passphrase or damaged backup", ErrCorruptPayload)
	}
	return plain, nil
}
