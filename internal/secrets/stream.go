package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
	"fmt"
	"hash"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// ErrStreamClosed is returned by Update or Final after Final has been called.
var ErrStreamClosed = errors.New("stream already finalized")

// Stream is a chunked encryption or decryption session. It is driven by a
// single caller: Update for every input chunk in order, then Final once.
// The concatenation of all outputs is the result.
type Stream interface {
	Update(chunk []byte) ([]byte, error)
	Final() ([]byte, error)
}

// authenticator accumulates ciphertext and produces the envelope tag.
type authenticator interface {
	add(ct []byte)
	tag() []byte
}

type hmacAuth struct{ h hash.Hash }

func (a hmacAuth) add(ct []byte) { a.h.Write(ct) }
func (a hmacAuth) tag() []byte   { return a.h.Sum(nil) }

type gcmAuth struct {
	g    *ghash
	mask [16]byte
}

func (a *gcmAuth) add(ct []byte) { a.g.add(ct) }

func (a *gcmAuth) tag() []byte {
	s := a.g.sum()
	subtle.XORBytes(s[:], s[:], a.mask[:])
	return s[:]
}

// keyring holds the per-stream cipher state derived once at construction.
type keyring struct {
	alg    Algorithm
	block  cipher.Block
	macKey []byte
	aad    []byte
}

func newKeyring(alg Algorithm, secret []byte, opts Options) (*keyring, error) {
	if err := alg.valid(); err != nil {
		return nil, err
	}
	k := &keyring{alg: alg, aad: concat(nil, opts.AAD)}

	var encKey []byte
	var err error
	if alg == AES256GCM {
		encKey, err = DeriveGCMKey(secret, opts.Keys...)
	} else {
		encKey, k.macKey, err = DeriveCTRKeys(secret, opts.Keys...)
	}
	if err != nil {
		return nil, err
	}
	defer zero(encKey)

	if k.block, err = aes.NewCipher(encKey); err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return k, nil
}

// open starts the keystream and the authenticator for one envelope header.
func (k *keyring) open(header []byte) (cipher.Stream, authenticator) {
	if k.alg == AES256GCM {
		ctr, mask := newGCMCounter(k.block, header)
		return ctr, &gcmAuth{g: newGHASH(k.block, k.aad), mask: mask}
	}
	return cipher.NewCTR(k.block, header), hmacAuth{h: newCTRMAC(k.macKey, header, k.aad)}
}

// Encrypter produces an envelope incrementally. The first non-empty output
// starts with the header; Final emits the tag.
type Encrypter struct {
	header []byte
	sent   bool
	ks     cipher.Stream
	auth   authenticator
	done   bool
}

// NewEncrypter starts an encryption stream. Secret and key lengths are
// validated here, before any cipher work.
func NewEncrypter(alg Algorithm, secret []byte, opts Options) (*Encrypter, error) {
	keys, err := newKeyring(alg, secret, opts)
	if err != nil {
		return nil, err
	}
	header, err := randomBytes(alg.HeaderSize())
	if err != nil {
		return nil, fmt.Errorf("generating header: %w", err)
	}

	e := &Encrypter{header: header}
	e.ks, e.auth = keys.open(header)
	return e, nil
}

// Update encrypts chunk. An empty chunk produces no output.
func (e *Encrypter) Update(chunk []byte) ([]byte, error) {
	if e.done {
		return nil, ErrStreamClosed
	}
	if len(chunk) == 0 {
		return nil, nil
	}

	out := make([]byte, 0, len(e.header)+len(chunk))
	if !e.sent {
		out = append(out, e.header...)
		e.sent = true
	}
	start := len(out)
	out = out[:start+len(chunk)]
	e.ks.XORKeyStream(out[start:], chunk)
	e.auth.add(out[start:])
	return out, nil
}

// Final returns the tag, preceded by the header if nothing was encrypted.
func (e *Encrypter) Final() ([]byte, error) {
	if e.done {
		return nil, ErrStreamClosed
	}
	e.done = true

	var out []byte
	if !e.sent {
		out = append(out, e.header...)
		e.sent = true
	}
	return append(out, e.auth.tag()...), nil
}

// Decrypter opens an envelope that arrives in chunks of arbitrary size.
//
// By default plaintext is held until Final has verified the tag and is then
// returned by Final. With Options.ReleaseUnverified, Update returns plaintext
// as soon as the bytes can no longer be part of the tag; Final then only
// reports whether that released data was authentic.
type Decrypter struct {
	keys    *keyring
	buf     *boundary
	ks      cipher.Stream
	auth    authenticator
	release bool
	held    []byte
	done    bool
}

// NewDecrypter starts a decryption stream. Secret and key lengths are
// validated here, before any cipher work.
func NewDecrypter(alg Algorithm, secret []byte, opts Options) (*Decrypter, error) {
	keys, err := newKeyring(alg, secret, opts)
	if err != nil {
		return nil, err
	}
	return &Decrypter{
		keys:    keys,
		buf:     newBoundary(alg),
		release: opts.ReleaseUnverified,
	}, nil
}

// Update consumes the next chunk of the envelope.
func (d *Decrypter) Update(chunk []byte) ([]byte, error) {
	if d.done {
		return nil, ErrStreamClosed
	}

	header, body := d.buf.push(chunk)
	if header != nil {
		d.ks, d.auth = d.keys.open(header)
	}
	if len(body) == 0 {
		return nil, nil
	}

	// body is owned by the boundary buffer, so it is decrypted in place.
	d.auth.add(body)
	d.ks.XORKeyStream(body, body)
	if d.release {
		return body, nil
	}
	d.held = append(d.held, body...)
	return nil, nil
}

// Final verifies the tag in constant time. It fails with ErrFormat when the
// stream ended inside the header or tag and with ErrAuthentication when the
// tag does not match.
func (d *Decrypter) Final() ([]byte, error) {
	if d.done {
		return nil, ErrStreamClosed
	}
	d.done = true

	tag, err := d.buf.finish()
	if err != nil {
		d.discard()
		return nil, err
	}
	if subtle.ConstantTimeCompare(d.auth.tag(), tag) != 1 {
		d.discard()
		return nil, kerrors.ErrAuthentication
	}

	out := d.held
	d.held = nil
	return out, nil
}

func (d *Decrypter) discard() {
	zero(d.held)
	d.held = nil
}

// NewStream returns an encrypter or a decrypter for alg.
func NewStream(alg Algorithm, secret []byte, opts Options, encrypt bool) (Stream, error) {
	if encrypt {
		e, err := NewEncrypter(alg, secret, opts)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	d, err := NewDecrypter(alg, secret, opts)
	if err != nil {
		return nil, err
	}
	return d, nil
}
