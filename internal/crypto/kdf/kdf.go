package kdf

import (
	"crypto/sha256"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/1abobik1/SecureMsg/internal/crypto/memzero"
)

// KeySize — длина симметричного ключа сессии.
const KeySize = 32

// DeriveKey разворачивает сырое общее значение DH в 32-байтовый ключ:
// каноничные big-endian байты значения через HKDF-SHA256 без соли,
// info — метка контекста. Шаг обязательный: сырое значение напрямую
// ключом не становится.
func DeriveKey(shared *big.Int, label string) ([]byte, error) {
	ikm := shared.Bytes()
	defer memzero.Zero(ikm)

	r := hkdf.New(sha256.New, ikm, nil, []byte(label))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
