package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/1abobik1/SecureMsg/internal/crypto/memzero"
)

var (
	ErrInvalidPadding = errors.New("invalid message padding")
	ErrIntegrity      = errors.New("message integrity check failed")
)

// Envelope — шифрованная единица переписки: IV + шифртекст + метка целостности.
// Бинарные поля закодированы для транспорта, структура неизменяема после создания.
type Envelope struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
	Hash       string `json:"hash"`
}

// Seal шифрует plaintext под key: AES-256-CBC со свежим случайным IV,
// PKCS#7-паддинг. Целостность — HMAC-SHA256 от исходного plaintext под тем же
// ключом, считается до шифрования. Каждый вызов даёт новый IV.
func Seal(plaintext, key []byte) (Envelope, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return Envelope{}, fmt.Errorf("envelope seal: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Envelope{}, fmt.Errorf("envelope seal: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(plaintext)

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)
	memzero.Zero(padded)

	return Envelope{
		IV:         base64.StdEncoding.EncodeToString(iv),
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
		Hash:       hex.EncodeToString(mac.Sum(nil)),
	}, nil
}

// Open расшифровывает конверт и проверяет целостность.
// При несовпадении MAC восстановленный буфер затирается и наружу не отдаётся.
func Open(env Envelope, key []byte) ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fmt.Errorf("envelope open: decode iv: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("envelope open: decode ciphertext: %w", err)
	}
	tag, err := hex.DecodeString(env.Hash)
	if err != nil {
		return nil, fmt.Errorf("envelope open: decode hash: %w", err)
	}

	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, ErrInvalidPadding
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("envelope open: %w", err)
	}

	padded := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ct)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		memzero.Zero(padded)
		return nil, err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(plaintext)
	if !hmac.Equal(mac.Sum(nil), tag) {
		memzero.Zero(padded)
		return nil, ErrIntegrity
	}
	return plaintext, nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
