package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

var b64 = base64.RawURLEncoding

// keyring derives separate signing and sealing keys from one secret.
type keyring struct {
	signKey []byte
	aead    cipher.AEAD
}

func newKeyring(secret []byte) *keyring {
	sealKey := derive(secret, "seal")
	block, err := aes.NewCipher(sealKey)
	if err != nil {
		panic(err) // 32-byte key is always valid
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return &keyring{signKey: derive(secret, "sign"), aead: aead}
}

func derive(secret []byte, purpose string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("cookie:" + purpose))
	return mac.Sum(nil)
}

func (k *keyring) mac(value []byte) []byte {
	h := hmac.New(sha256.New, k.signKey)
	h.Write(value)
	return h.Sum(nil)
}

// sign encodes value as base64(value).base64(mac).
func (k *keyring) sign(value string) string {
	return b64.EncodeToString([]byte(value)) + "." + b64.EncodeToString(k.mac([]byte(value)))
}

func (k *keyring) verify(raw string) (string, error) {
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := b64.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := b64.DecodeString(encSig)
	if err != nil || !hmac.Equal(sig, k.mac(value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// seal encrypts data and returns base64(nonce || ciphertext).
func (k *keyring) seal(data []byte) (string, error) {
	nonce := make([]byte, k.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return b64.EncodeToString(k.aead.Seal(nonce, nonce, data, nil)), nil
}

func (k *keyring) open(raw string) ([]byte, error) {
	data, err := b64.DecodeString(raw)
	if err != nil || len(data) < k.aead.NonceSize() {
		return nil, ErrDecrypt
	}
	n := k.aead.NonceSize()
	out, err := k.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return out, nil
}
