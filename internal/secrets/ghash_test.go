package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"testing"
)

func TestGFMulIdentity(t *testing.T) {
	one := fieldElement{hi: 1 << 63}
	x := loadElement(randBytes(t, 16))

	if got := gfMul(x, one); got != x {
		t.Errorf("x * 1 = %x, want %x", got, x)
	}
	if got := gfMul(one, x); got != x {
		t.Errorf("1 * x = %x, want %x", got, x)
	}
	if got := gfMul(x, fieldElement{}); got != (fieldElement{}) {
		t.Errorf("x * 0 = %x, want 0", got)
	}
}

func TestGFMulCommutes(t *testing.T) {
	for i := 0; i < 20; i++ {
		a := loadElement(randBytes(t, 16))
		b := loadElement(randBytes(t, 16))
		if gfMul(a, b) != gfMul(b, a) {
			t.Fatalf("Expected a*b == b*a for a=%x b=%x", a, b)
		}
	}
}

func TestStreamingGCMMatchesStdlib(t *testing.T) {
	key := randBytes(t, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes.NewCipher failed: %v", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatalf("cipher.NewGCM failed: %v", err)
	}

	for _, aadLen := range []int{0, 1, 15, 16, 17, 40} {
		for _, msgLen := range []int{0, 1, 16, 31, 64, 100} {
			nonce := randBytes(t, GCMNonceSize)
			aad := randBytes(t, aadLen)
			msg := randBytes(t, msgLen)

			want := aead.Seal(nil, nonce, msg, aad)

			ctr, mask := newGCMCounter(block, nonce)
			auth := &gcmAuth{g: newGHASH(block, aad), mask: mask}
			ct := make([]byte, len(msg))
			// Uneven pieces exercise partial keystream blocks.
			for off := 0; off < len(msg); {
				n := min(7, len(msg)-off)
				ctr.XORKeyStream(ct[off:off+n], msg[off:off+n])
				auth.add(ct[off : off+n])
				off += n
			}
			got := append(ct, auth.tag()...)

			if !bytes.Equal(got, want) {
				t.Errorf("aad=%d msg=%d: streaming GCM differs from crypto/cipher", aadLen, msgLen)
			}
		}
	}
}
