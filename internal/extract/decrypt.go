package extract

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/Shalin-Shah-2002/Hianime-API/internal/logger"
)

const (
	aesKeyLen = 32
	aesIVLen  = 16
)

// decryptCryptoJS decrypts a CryptoJS AES-256-CBC encrypted string.
//
// CryptoJS emits the OpenSSL salted format:
//
//	Base64( "Salted__" + 8-byte salt + ciphertext )
//
// with key and IV derived from the passphrase via EVP_BytesToKey (iterated
// MD5). Ciphertext without the "Salted__" prefix is decrypted with an
// empty salt.
func decryptCryptoJS(ciphertextB64, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(ciphertextB64)
		if err != nil {
			return "", fmt.Errorf("decoding ciphertext: %w", err)
		}
	}

	var salt, ct []byte
	if len(raw) >= 16 && string(raw[:8]) == "Salted__" {
		salt = raw[8:16]
		ct = raw[16:]
	} else {
		ct = raw
	}

	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a multiple of the block size", len(ct))
	}

	key, iv := evpBytesToKey([]byte(passphrase), salt, aesKeyLen, aesIVLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	plaintext := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ct)

	plaintext = stripPKCS7(plaintext)

	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("decrypted payload is not valid UTF-8 (wrong passphrase?)")
	}

	return string(plaintext), nil
}

// evpBytesToKey is OpenSSL's EVP_BytesToKey with MD5, the KDF CryptoJS
// uses by default.
func evpBytesToKey(password, salt []byte, keyLen, ivLen int) (key, iv []byte) {
	var d, dI []byte
	for len(d) < keyLen+ivLen {
		h := md5.New()
		h.Write(dI)
		h.Write(password)
		h.Write(salt)
		dI = h.Sum(nil)
		d = append(d, dI...)
	}
	return d[:keyLen], d[keyLen : keyLen+ivLen]
}

// stripPKCS7 removes PKCS#7 padding. A pad byte outside 1..16 is logged
// and the data returned unpadded rather than rejected, since some embed
// responses come back already unpadded.
func stripPKCS7(data []byte) []byte {
	if len(data) == 0 {
		return data
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > aes.BlockSize {
		logger.Log.Warn("unexpected padding byte, returning unpadded", "pad", padLen)
		return data
	}
	return data[:len(data)-padLen]
}
