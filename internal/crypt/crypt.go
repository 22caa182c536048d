// Package crypt provides passphrase-based encryption for archive payloads.
// It wraps filippo.io/age with scrypt recipients so a wrong passphrase
// surfaces as ErrWrongPassword, distinct from a corrupt or truncated
// download.
package crypt

import (
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// ErrWrongPassword reports that decryption failed because the passphrase
// did not match, not because the ciphertext is damaged.
var ErrWrongPassword = errors.New("wrong password")

// Encrypt encrypts src to dst with the given passphrase.
func Encrypt(dst io.Writer, src io.Reader, password string) error {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return fmt.Errorf("scrypt recipient: %w", err)
	}
	w, err := age.Encrypt(dst, recipient)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("encrypt copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encrypt close: %w", err)
	}
	return nil
}

// Decrypt decrypts src to dst with the given passphrase. A passphrase
// mismatch returns ErrWrongPassword (possibly wrapped).
func Decrypt(dst io.Writer, src io.Reader, password string) error {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("scrypt identity: %w", err)
	}
	r, err := age.Decrypt(src, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return ErrWrongPassword
		}
		return fmt.Errorf("decrypt: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("decrypt copy: %w", err)
	}
	return nil
}
