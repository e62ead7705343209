package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// keystoreFormatVersion is the current version of the sealed blob format.
const keystoreFormatVersion = 1

// ErrWrongPassphrase is returned when the passphrase is incorrect or the
// ciphertext has been modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")

// kdfParams are the scrypt cost parameters stored alongside the ciphertext.
type kdfParams struct {
	N int `json:"scrypt_N"`
	R int `json:"scrypt_r"`
	P int `json:"scrypt_p"`
}

func defaultKDF() kdfParams { return kdfParams{N: 1 << 15, R: 8, P: 1} }

// check refuses parameters outside what this package ever writes, so a
// tampered blob cannot make decryption allocate gigabytes.
func (k kdfParams) check() error {
	if k.N < 1<<10 || k.N > 1<<20 || k.N&(k.N-1) != 0 {
		return fmt.Errorf("keystore: scrypt N=%d out of range", k.N)
	}
	if k.R < 1 || k.R > 32 || k.P < 1 || k.P > 16 {
		return fmt.Errorf("keystore: scrypt r=%d p=%d out of range", k.R, k.P)
	}
	return nil
}

// sealed is the JSON structure holding the ciphertext and KDF parameters.
type sealed struct {
	V    int    `json:"v"`
	Salt []byte `json:"salt"`
	kdfParams
	Cipher []byte `json:"cipher"`
}

// seal derives a key from passphrase and encrypts raw into a JSON blob.
func seal(passphrase string, raw []byte, kdf kdfParams) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte // key is unique per salt
	return json.Marshal(sealed{
		V:         keystoreFormatVersion,
		Salt:      salt[:],
		kdfParams: kdf,
		Cipher:    aead.Seal(nil, nonce[:], raw, salt[:]),
	})
}

// open reverses seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var s sealed
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("keystore: %w", err)
	}
	if s.V > keystoreFormatVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", s.V)
	}
	if err := s.kdfParams.check(); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), s.Salt, s.N, s.R, s.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], s.Cipher, s.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
