package crypt

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	var ciphertext bytes.Buffer
	if err := Encrypt(&ciphertext, bytes.NewReader(plaintext), "s3cret"); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Contains(ciphertext.Bytes(), plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	var out bytes.Buffer
	if err := Decrypt(&out, bytes.NewReader(ciphertext.Bytes()), "s3cret"); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(out.Bytes(), plaintext) {
		t.Errorf("decrypted = %q, want %q", out.Bytes(), plaintext)
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	var ciphertext bytes.Buffer
	if err := Encrypt(&ciphertext, bytes.NewReader([]byte("payload")), "correct"); err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	var out bytes.Buffer
	err := Decrypt(&out, bytes.NewReader(ciphertext.Bytes()), "incorrect")
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Decrypt with wrong password = %v, want ErrWrongPassword", err)
	}
}

func TestDecrypt_TruncatedIsNotWrongPassword(t *testing.T) {
	var out bytes.Buffer
	err := Decrypt(&out, bytes.NewReader([]byte("not an age file")), "whatever")
	if err == nil {
		t.Fatal("Decrypt of garbage succeeded")
	}
	if errors.Is(err, ErrWrongPassword) {
		t.Error("corrupt input reported as wrong password")
	}
}
