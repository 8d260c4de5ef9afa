package memzero

import (
	"crypto/subtle"
	"math/big"
)

// Zero затирает срез нулями.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}

// Scalar затирает внутренние слова big.Int и обнуляет значение.
// Для приватных скаляров и сырых общих значений DH после деривации ключа.
func Scalar(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	x.SetInt64(0)
}
