package utils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

// Credential crypto for per-organization mailbox passwords, stored as
// "ivHex:cipherHex" (AES-256-CBC, PKCS#7 padding). The key is the
// EMAIL_ENCRYPTION_KEY secret padded with '0' or truncated to exactly
// 32 bytes; this derivation is lossy but deterministic, so a key longer than
// 32 bytes loses its tail. Decrypt never panics: malformed input yields "".

const credentialKeyLen = 32

func credentialKey(secret string) []byte {
	key := secret
	for len(key) < credentialKeyLen {
		key += "0"
	}
	return []byte(key[:credentialKeyLen])
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}

// EncryptCredential encrypts a plaintext credential with the given secret.
// An empty plaintext encrypts to "".
func EncryptCredential(plaintext, secret string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	block, err := aes.NewCipher(credentialKey(secret))
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(encrypted), nil
}

// DecryptCredential reverses EncryptCredential. Malformed input (missing
// separator, bad hex, wrong length, bad padding) returns "" rather than an
// error so a corrupt stored value degrades to "no credential".
func DecryptCredential(encrypted, secret string) string {
	if encrypted == "" {
		return ""
	}
	parts := strings.Split(encrypted, ":")
	if len(parts) != 2 {
		return ""
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return ""
	}
	data, err := hex.DecodeString(parts[1])
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return ""
	}
	block, err := aes.NewCipher(credentialKey(secret))
	if err != nil {
		return ""
	}
	decrypted := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(decrypted, data)
	plain, err := pkcs7Unpad(decrypted, aes.BlockSize)
	if err != nil {
		return ""
	}
	return string(plain)
}
