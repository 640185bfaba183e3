package secrets

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// feed drives s with data split by next and returns the joined output.
func feed(s Stream, data []byte, next func() int) ([]byte, error) {
	var out []byte
	for len(data) > 0 {
		n := next()
		if n > len(data) {
			n = len(data)
		}
		chunk, err := s.Update(data[:n])
		if err != nil {
			return out, err
		}
		out = append(out, chunk...)
		data = data[n:]
	}
	last, err := s.Final()
	out = append(out, last...)
	return out, err
}

func chunkers(total int) map[string]func() int {
	rng := rand.New(rand.NewSource(42))
	return map[string]func() int{
		"one byte": func() int { return 1 },
		"random":   func() int { return 1 + rng.Intn(37) },
		"single":   func() int { return total + 1 },
		"tag size": func() int { return 16 },
		"odd":      func() int { return 33 },
	}
}

func TestStreamChunkInvariance(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 1000)
	opts := Options{Keys: [][]byte{randBytes(t, 32)}, AAD: []byte("chunked")}

	for _, alg := range algorithms {
		for encName, encChunk := range chunkers(len(msg)) {
			enc, err := NewEncrypter(alg, secret, opts)
			if err != nil {
				t.Fatalf("NewEncrypter failed: %v", err)
			}
			env, err := feed(enc, msg, encChunk)
			if err != nil {
				t.Fatalf("%s/%s: encrypt failed: %v", alg, encName, err)
			}
			if len(env) != len(msg)+alg.Overhead() {
				t.Fatalf("%s/%s: expected %d bytes, got: %d", alg, encName, len(msg)+alg.Overhead(), len(env))
			}

			for decName, decChunk := range chunkers(len(env)) {
				t.Run(string(alg)+"/"+encName+"/"+decName, func(t *testing.T) {
					dec, err := NewDecrypter(alg, secret, opts)
					if err != nil {
						t.Fatalf("NewDecrypter failed: %v", err)
					}
					got, err := feed(dec, env, decChunk)
					if err != nil {
						t.Fatalf("Decrypt failed: %v", err)
					}
					if !bytes.Equal(got, msg) {
						t.Error("Decrypted stream does not match original message")
					}
				})
			}
		}
	}
}

func TestStreamInteropWithOneShot(t *testing.T) {
	secret := randBytes(t, 32)
	opts := Options{AAD: []byte("interop")}

	for _, alg := range algorithms {
		for _, size := range []int{0, 1, 15, 16, 17, 255, 4096} {
			msg := randBytes(t, size)

			enc, _ := NewEncrypter(alg, secret, opts)
			streamed, err := feed(enc, msg, func() int { return 7 })
			if err != nil {
				t.Fatalf("Stream encrypt failed: %v", err)
			}
			got, err := Decrypt(alg, secret, streamed, opts)
			if err != nil {
				t.Fatalf("%s size %d: one-shot decrypt of streamed envelope failed: %v", alg, size, err)
			}
			if !bytes.Equal(got, msg) {
				t.Errorf("%s size %d: one-shot decrypt mismatch", alg, size)
			}

			oneShot, _ := Encrypt(alg, secret, msg, opts)
			dec, _ := NewDecrypter(alg, secret, opts)
			got, err = feed(dec, oneShot, func() int { return 5 })
			if err != nil {
				t.Fatalf("%s size %d: stream decrypt of one-shot envelope failed: %v", alg, size, err)
			}
			if !bytes.Equal(got, msg) {
				t.Errorf("%s size %d: stream decrypt mismatch", alg, size)
			}
		}
	}
}

func TestStreamMatchesOneShotBytes(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 333)
	opts := Options{AAD: randBytes(t, 21)}

	for _, alg := range algorithms {
		header := randBytes(t, alg.HeaderSize())

		fixedRand(t, header)
		oneShot, err := Encrypt(alg, secret, msg, opts)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		fixedRand(t, header)
		enc, err := NewEncrypter(alg, secret, opts)
		if err != nil {
			t.Fatalf("NewEncrypter failed: %v", err)
		}
		streamed, err := feed(enc, msg, func() int { return 10 })
		if err != nil {
			t.Fatalf("Stream encrypt failed: %v", err)
		}

		if !bytes.Equal(oneShot, streamed) {
			t.Errorf("%s: expected streamed envelope to equal one-shot envelope", alg)
		}
	}
}

func TestStreamEmptyMessage(t *testing.T) {
	secret := randBytes(t, 32)
	for _, alg := range algorithms {
		enc, _ := NewEncrypter(alg, secret, Options{})
		if out, _ := enc.Update(nil); len(out) != 0 {
			t.Errorf("%s: expected no output for empty chunk, got %d bytes", alg, len(out))
		}
		env, err := enc.Final()
		if err != nil {
			t.Fatalf("Final failed: %v", err)
		}
		if len(env) != alg.Overhead() {
			t.Errorf("%s: expected header+tag only, got %d bytes", alg, len(env))
		}

		dec, _ := NewDecrypter(alg, secret, Options{})
		got, err := feed(dec, env, func() int { return 3 })
		if err != nil {
			t.Fatalf("%s: decrypt of empty envelope failed: %v", alg, err)
		}
		if len(got) != 0 {
			t.Errorf("%s: expected empty plaintext, got: %x", alg, got)
		}
	}
}

func TestStreamFirstOutputStartsWithHeader(t *testing.T) {
	secret := randBytes(t, 32)
	for _, alg := range algorithms {
		header := randBytes(t, alg.HeaderSize())
		fixedRand(t, header)

		enc, _ := NewEncrypter(alg, secret, Options{})
		out, err := enc.Update([]byte("a"))
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !bytes.Equal(out[:len(header)], header) || len(out) != len(header)+1 {
			t.Errorf("%s: expected header followed by one ciphertext byte, got: %x", alg, out)
		}
		out, _ = enc.Update([]byte("b"))
		if len(out) != 1 {
			t.Errorf("%s: expected one ciphertext byte, got: %d", alg, len(out))
		}
	}
}

func TestStreamTruncated(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 100)

	for _, alg := range algorithms {
		env, _ := Encrypt(alg, secret, msg, Options{})
		for _, n := range []int{0, 1, alg.HeaderSize() - 1, alg.HeaderSize(), alg.Overhead() - 1} {
			dec, _ := NewDecrypter(alg, secret, Options{})
			_, err := feed(dec, env[:n], func() int { return 4 })
			if !errors.Is(err, kerrors.ErrFormat) {
				t.Errorf("%s truncated to %d: expected ErrFormat, got: %v", alg, n, err)
			}
		}

		// Dropping trailing bytes past the minimum length shifts the tag.
		dec, _ := NewDecrypter(alg, secret, Options{})
		_, err := feed(dec, env[:len(env)-1], func() int { return 4 })
		if !errors.Is(err, kerrors.ErrAuthentication) {
			t.Errorf("%s missing last byte: expected ErrAuthentication, got: %v", alg, err)
		}
	}
}

func TestStreamTamperDetection(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 64)

	for _, alg := range algorithms {
		env, _ := Encrypt(alg, secret, msg, Options{})
		for i := range env {
			tampered := bytes.Clone(env)
			tampered[i] ^= 0x80
			dec, _ := NewDecrypter(alg, secret, Options{})
			got, err := feed(dec, tampered, func() int { return 9 })
			if !errors.Is(err, kerrors.ErrAuthentication) {
				t.Fatalf("%s byte %d: expected ErrAuthentication, got: %v", alg, i, err)
			}
			if len(got) != 0 {
				t.Fatalf("%s byte %d: expected no plaintext released, got %d bytes", alg, i, len(got))
			}
		}
	}
}

func TestStreamReleaseUnverified(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 200)
	opts := Options{ReleaseUnverified: true}

	for _, alg := range algorithms {
		env, _ := Encrypt(alg, secret, msg, opts)

		dec, _ := NewDecrypter(alg, secret, opts)
		first, err := dec.Update(env[:alg.HeaderSize()+100])
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if len(first) != 100-alg.TagSize() {
			t.Errorf("%s: expected %d bytes released early, got: %d", alg, 100-alg.TagSize(), len(first))
		}
		rest, err := dec.Update(env[alg.HeaderSize()+100:])
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		final, err := dec.Final()
		if err != nil {
			t.Fatalf("Final failed: %v", err)
		}
		if len(final) != 0 {
			t.Errorf("%s: expected nothing left for Final, got %d bytes", alg, len(final))
		}
		got := append(append(first, rest...), final...)
		if !bytes.Equal(got, msg) {
			t.Errorf("%s: released plaintext does not match", alg)
		}

		// Forged data is still reported, only later.
		tampered := bytes.Clone(env)
		tampered[alg.HeaderSize()] ^= 1
		dec, _ = NewDecrypter(alg, secret, opts)
		if _, err := feed(dec, tampered, func() int { return 50 }); !errors.Is(err, kerrors.ErrAuthentication) {
			t.Errorf("%s: expected ErrAuthentication, got: %v", alg, err)
		}
	}
}

func TestStreamVerifyBeforeRelease(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 200)

	for _, alg := range algorithms {
		env, _ := Encrypt(alg, secret, msg, Options{})
		dec, _ := NewDecrypter(alg, secret, Options{})
		out, err := dec.Update(env)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if len(out) != 0 {
			t.Errorf("%s: expected plaintext to be held until Final, got %d bytes", alg, len(out))
		}
		final, err := dec.Final()
		if err != nil {
			t.Fatalf("Final failed: %v", err)
		}
		if !bytes.Equal(final, msg) {
			t.Errorf("%s: Final did not return the message", alg)
		}
	}
}

func TestStreamClosed(t *testing.T) {
	secret := randBytes(t, 32)
	enc, _ := NewEncrypter(AES256CTR, secret, Options{})
	if _, err := enc.Final(); err != nil {
		t.Fatalf("Final failed: %v", err)
	}
	if _, err := enc.Update([]byte("x")); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Expected ErrStreamClosed, got: %v", err)
	}
	if _, err := enc.Final(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Expected ErrStreamClosed, got: %v", err)
	}
}

func TestStreamDoesNotRetainInput(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 90)

	for _, alg := range algorithms {
		env, _ := Encrypt(alg, secret, msg, Options{})
		dec, _ := NewDecrypter(alg, secret, Options{})

		buf := make([]byte, 8)
		for i := 0; i < len(env); i += len(buf) {
			n := copy(buf, env[i:])
			if _, err := dec.Update(buf[:n]); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			for j := range buf {
				buf[j] = 0xFF
			}
		}
		got, err := dec.Final()
		if err != nil {
			t.Fatalf("%s: reused input buffer broke decryption: %v", alg, err)
		}
		if !bytes.Equal(got, msg) {
			t.Errorf("%s: plaintext mismatch", alg)
		}
	}
}

func TestPipe(t *testing.T) {
	secret := randBytes(t, 32)
	msg := randBytes(t, 10000)

	for _, alg := range algorithms {
		enc, _ := NewStream(alg, secret, Options{}, true)
		var env bytes.Buffer
		n, err := Pipe(context.Background(), enc, &env, bytes.NewReader(msg), 333)
		if err != nil {
			t.Fatalf("Pipe encrypt failed: %v", err)
		}
		if n != int64(env.Len()) || env.Len() != len(msg)+alg.Overhead() {
			t.Errorf("%s: unexpected envelope size %d (reported %d)", alg, env.Len(), n)
		}

		dec, _ := NewStream(alg, secret, Options{}, false)
		var out bytes.Buffer
		if _, err := Pipe(context.Background(), dec, &out, &env, 0); err != nil {
			t.Fatalf("Pipe decrypt failed: %v", err)
		}
		if !bytes.Equal(out.Bytes(), msg) {
			t.Errorf("%s: piped round trip mismatch", alg)
		}
	}
}

func TestPipeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	enc, _ := NewEncrypter(AES256GCM, randBytes(t, 32), Options{})
	var out bytes.Buffer
	if _, err := Pipe(ctx, enc, &out, bytes.NewReader([]byte("data")), 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %d bytes", out.Len())
	}
}

func TestNewStreamValidation(t *testing.T) {
	if s, err := NewStream(AES256CTR, make([]byte, 8), Options{}, true); err == nil || s != nil {
		t.Errorf("Expected nil stream and error, got: %v, %v", s, err)
	}
}
