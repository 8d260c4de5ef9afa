package dhgroup

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// 2048-битная MODP-группа (RFC 3526, группа 14), генератор 2.
// Параметры фиксированы на весь процесс: все пары ключей и все обмены
// считаются в одной группе.
var (
	P, _ = new(big.Int).SetString(
		"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74"+
			"020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437"+
			"4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED"+
			"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05"+
			"98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB"+
			"9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B"+
			"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718"+
			"3995497CEA956AE515D2261898FA051015728E5A8AACAA68FFFFFFFFFFFFFFFF", 16)
	G = big.NewInt(2)
)

var ErrInvalidPeerKey = errors.New("invalid peer public key")

// KeyPair — DH-пара одного участника.
// Приватная часть не пересекает доверенную границу: не логируется и не
// отдаётся никому, кроме владельца.
type KeyPair struct {
	Private *big.Int
	Public  *big.Int
}

// GenerateKeyPair возвращает свежую пару: приватный скаляр равномерно из
// [2, P-2] от криптографического источника, публичный = G^priv mod P.
func GenerateKeyPair() (*KeyPair, error) {
	// rand.Int даёт [0, n), сдвигаем в [2, P-2]
	n := new(big.Int).Sub(P, big.NewInt(3))
	priv, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, err
	}
	priv.Add(priv, big.NewInt(2))

	pub := new(big.Int).Exp(G, priv, P)
	return &KeyPair{Private: priv, Public: pub}, nil
}

// SharedValue считает сырое общее значение peerPub^priv mod P.
// Вырожденные публичные значения (0, 1, P-1 и всё вне [2, P-2]) отбрасываются.
func SharedValue(priv, peerPub *big.Int) (*big.Int, error) {
	if err := CheckPublic(peerPub); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(peerPub, priv, P), nil
}

// CheckPublic проверяет, что публичное значение не из вырожденной подгруппы.
func CheckPublic(pub *big.Int) error {
	if pub == nil {
		return ErrInvalidPeerKey
	}
	pMinus1 := new(big.Int).Sub(P, big.NewInt(1))
	if pub.Cmp(big.NewInt(2)) < 0 || pub.Cmp(pMinus1) >= 0 {
		return ErrInvalidPeerKey
	}
	return nil
}
