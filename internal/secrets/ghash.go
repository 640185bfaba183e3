package secrets

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
)

// crypto/cipher only offers GCM as a one-shot AEAD, so streaming GCM is
// assembled here from AES, a 32-bit counter and GHASH. The output is
// byte-identical to cipher.NewGCM with a 12-byte nonce and 16-byte tag.

// fieldElement is an element of GF(2^128) in GCM bit order:
// hi holds bytes 0-7 and lo bytes 8-15 of the block, big-endian.
type fieldElement struct {
	hi, lo uint64
}

func loadElement(b []byte) fieldElement {
	return fieldElement{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:16]),
	}
}

func (e fieldElement) store(b []byte) {
	binary.BigEndian.PutUint64(b[:8], e.hi)
	binary.BigEndian.PutUint64(b[8:16], e.lo)
}

// gfMul multiplies x and y in GF(2^128) with the GCM polynomial.
// It runs in constant time: every iteration does the same work.
func gfMul(x, y fieldElement) fieldElement {
	var z fieldElement
	v := y
	for i := 0; i < 128; i++ {
		var bit uint64
		if i < 64 {
			bit = (x.hi >> (63 - i)) & 1
		} else {
			bit = (x.lo >> (127 - i)) & 1
		}
		mask := -bit
		z.hi ^= v.hi & mask
		z.lo ^= v.lo & mask

		lsb := v.lo & 1
		v.lo = v.lo>>1 | v.hi<<63
		v.hi >>= 1
		v.hi ^= 0xe100000000000000 & -lsb
	}
	return z
}

// ghash is an incremental GHASH over AAD then ciphertext.
type ghash struct {
	key    fieldElement
	y      fieldElement
	buf    [16]byte
	n      int
	aadLen uint64
	ctLen  uint64
}

func newGHASH(block cipher.Block, aad []byte) *ghash {
	var h [16]byte
	block.Encrypt(h[:], h[:])
	g := &ghash{key: loadElement(h[:])}
	g.update(aad)
	g.pad()
	g.aadLen = uint64(len(aad))
	return g
}

// add absorbs ciphertext.
func (g *ghash) add(p []byte) {
	g.ctLen += uint64(len(p))
	g.update(p)
}

func (g *ghash) update(p []byte) {
	for len(p) > 0 {
		c := copy(g.buf[g.n:], p)
		g.n += c
		p = p[c:]
		if g.n == len(g.buf) {
			g.block(g.buf[:])
			g.n = 0
		}
	}
}

func (g *ghash) pad() {
	if g.n == 0 {
		return
	}
	clear(g.buf[g.n:])
	g.block(g.buf[:])
	g.n = 0
}

func (g *ghash) block(b []byte) {
	x := loadElement(b)
	g.y.hi ^= x.hi
	g.y.lo ^= x.lo
	g.y = gfMul(g.y, g.key)
}

// sum finishes the hash with the length block. The ghash must not be used afterwards.
func (g *ghash) sum() [16]byte {
	g.pad()
	var lens [16]byte
	binary.BigEndian.PutUint64(lens[:8], g.aadLen*8)
	binary.BigEndian.PutUint64(lens[8:], g.ctLen*8)
	g.block(lens[:])

	var out [16]byte
	g.y.store(out[:])
	return out
}

// gcmCounter is the GCM keystream: AES in counter mode where only the
// last 32 bits of the counter block are incremented.
type gcmCounter struct {
	block cipher.Block
	ctr   [16]byte
	ks    [16]byte
	used  int
}

// newGCMCounter returns the keystream for nonce and the tag mask E_K(J0).
func newGCMCounter(block cipher.Block, nonce []byte) (*gcmCounter, [16]byte) {
	c := &gcmCounter{block: block, used: 16}
	copy(c.ctr[:], nonce)
	c.ctr[15] = 1

	var mask [16]byte
	block.Encrypt(mask[:], c.ctr[:])
	c.inc()
	return c, mask
}

func (c *gcmCounter) inc() {
	n := binary.BigEndian.Uint32(c.ctr[12:])
	binary.BigEndian.PutUint32(c.ctr[12:], n+1)
}

// XORKeyStream implements cipher.Stream.
func (c *gcmCounter) XORKeyStream(dst, src []byte) {
	for len(src) > 0 {
		if c.used == len(c.ks) {
			c.block.Encrypt(c.ks[:], c.ctr[:])
			c.inc()
			c.used = 0
		}
		n := subtle.XORBytes(dst, src, c.ks[c.used:])
		c.used += n
		dst = dst[n:]
		src = src[n:]
	}
}
