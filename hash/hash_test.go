package hash

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	stdhash "hash"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xripemd160 "golang.org/x/crypto/ripemd160"
)

func digests() []*Digest {
	return []*Digest{NewSHA160(), NewRIPEMD128(), NewRIPEMD160(), NewWhirlpool()}
}

func hexDigest(d *Digest, msg string) string {
	_, _ = io.WriteString(d, msg)
	return hex.EncodeToString(d.Digest())
}

func TestKnownAnswers(t *testing.T) {
	tests := []struct {
		name string
		new  func() *Digest
		msg  string
		want string
	}{
		{"sha-160 abc", NewSHA160, "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha-160 empty", NewSHA160, "", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"sha-160 two blocks", NewSHA160, "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq",
			"84983e441c3bd26ebaae4aa1f95129e5e54670f1"},
		{"ripemd128 empty", NewRIPEMD128, "", "cdf26213a150dc3ecb610f18f6b38b46"},
		{"ripemd128 a", NewRIPEMD128, "a", "86be7afa339d0fc7cfc785e72f578d33"},
		{"ripemd160 empty", NewRIPEMD160, "", "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
		{"ripemd160 abc", NewRIPEMD160, "abc", "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"},
		{"whirlpool empty", NewWhirlpool, "",
			"470f0409abaa446e49667d4ebe12a14387cedbd10dd17b8243cad550a089dc0f" +
				"eea7aa40f6c2aaab71c6ebd076e43c7cfca0ad32567897dcb5969861049a0f5a"},
		{"whirlpool abc", NewWhirlpool, "abc",
			"8afc0527dcc0a19623860ef2369d0e25de8ebe2abaa40f598afaf6b07c002ed7" +
				"3e4fc0fc220fd4f54f74b5d6b07aa57764c3dbdcc2cdd919d89fa8155a34b841"},
		{"whirlpool 130 bytes", NewWhirlpool, strings.Repeat("a", 130),
			"78053475c533b31b6ca7cefee00243d7c786c24a2ed2f3f1c86cbfad8beeae37" +
				"221ed32213e204ebab452a8e73d6b6dac87b54d26e9e24ab37f46205a9144f82"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hexDigest(tt.new(), tt.msg))
		})
	}
}

func TestSizes(t *testing.T) {
	want := map[string]int{SHA160Name: 20, RIPEMD128Name: 16, RIPEMD160Name: 20, WhirlpoolName: 64}
	for _, d := range digests() {
		assert.Equal(t, want[d.Name()], d.HashSize(), d.Name())
		assert.Equal(t, d.HashSize(), d.Size())
		assert.Equal(t, 64, d.BlockSize())
		assert.Len(t, d.Digest(), d.HashSize())
	}
}

func TestMatchesReferenceImplementations(t *testing.T) {
	for _, n := range []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 1000} {
		msg := bytes.Repeat([]byte{0x61, 0x9c}, n)[:n]

		s := NewSHA160()
		s.Write(msg)
		ref := sha1.Sum(msg)
		assert.Equal(t, ref[:], s.Digest(), "sha-160 length %d", n)

		r := NewRIPEMD160()
		r.Write(msg)
		rr := xripemd160.New()
		rr.Write(msg)
		assert.Equal(t, rr.Sum(nil), r.Digest(), "ripemd160 length %d", n)
	}
}

func TestStreamingEquivalence(t *testing.T) {
	msg := make([]byte, 300)
	for i := range msg {
		msg[i] = byte(i * 7)
	}
	for _, d := range digests() {
		d.Write(msg)
		oneShot := d.Digest()

		for _, chunk := range []int{1, 3, 63, 64, 65} {
			for off := 0; off < len(msg); off += chunk {
				end := min(off+chunk, len(msg))
				require.NoError(t, d.Update(msg, off, end-off))
			}
			assert.Equal(t, oneShot, d.Digest(), "%s chunk %d", d.Name(), chunk)
		}

		for _, b := range msg {
			d.UpdateByte(b)
		}
		assert.Equal(t, oneShot, d.Digest(), "%s byte at a time", d.Name())
	}
}

func TestDigestResets(t *testing.T) {
	for _, d := range digests() {
		first := hexDigest(d, "message")
		second := hexDigest(d, "message")
		assert.Equal(t, first, second, d.Name())

		d.Write([]byte("discarded"))
		d.Reset()
		assert.Equal(t, first, hexDigest(d, "message"), "%s after Reset", d.Name())
	}
}

func TestSumDoesNotDisturbState(t *testing.T) {
	for _, d := range digests() {
		d.Write([]byte("hello "))
		prefix := d.Sum([]byte("x"))
		assert.Equal(t, byte('x'), prefix[0])
		assert.Len(t, prefix, 1+d.HashSize())

		d.Write([]byte("world"))
		full := d.Digest()

		ref := digestOf(d.Name(), "hello world")
		assert.Equal(t, ref, full, d.Name())
		assert.Equal(t, digestOf(d.Name(), "hello "), prefix[1:], d.Name())
	}
}

func digestOf(name, msg string) []byte {
	for _, d := range digests() {
		if d.Name() == name {
			d.Write([]byte(msg))
			return d.Digest()
		}
	}
	return nil
}

func TestClone(t *testing.T) {
	for _, d := range digests() {
		d.Write([]byte("partial block of input"))
		c := d.Clone()

		d.Write([]byte(" original"))
		c.Write([]byte(" original"))
		assert.Equal(t, d.Digest(), c.Digest(), d.Name())

		c.Write([]byte("diverge"))
		assert.NotEqual(t, d.Sum(nil), c.Sum(nil), "%s clones must be independent", d.Name())
	}
}

func TestUpdateRange(t *testing.T) {
	d := NewSHA160()
	buf := []byte("abcdef")
	assert.ErrorIs(t, d.Update(buf, 4, 3), ErrShortBuffer)
	assert.ErrorIs(t, d.Update(buf, -1, 1), ErrShortBuffer)
	require.NoError(t, d.Update(buf, 0, 3))
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(d.Digest()))
}

func TestSelfTest(t *testing.T) {
	for _, d := range digests() {
		assert.True(t, d.SelfTest(), d.Name())
		assert.True(t, d.SelfTest(), d.Name())
	}
	for name, st := range map[string]int{
		SHA160Name:    sha160SelfTT.Runs(),
		RIPEMD128Name: ripemd128SelfTT.Runs(),
		RIPEMD160Name: ripemd160SelfTT.Runs(),
		WhirlpoolName: whirlpoolSelfTT.Runs(),
	} {
		assert.Equal(t, 1, st, name)
	}
}

func TestWhirlpoolTablesDeterministic(t *testing.T) {
	assert.Equal(t, buildWhirlpoolTables(), whirlpoolTables())
}

func TestMDPadding(t *testing.T) {
	for _, count := range []uint64{0, 1, 55, 56, 63, 64, 119} {
		p := mdPadding(count, true)
		assert.Zero(t, (count+uint64(len(p)))%64, "count %d", count)
		assert.Equal(t, byte(0x80), p[0])
	}
	le := mdPadding(3, false)
	assert.Equal(t, byte(24), le[len(le)-8])
	be := mdPadding(3, true)
	assert.Equal(t, byte(24), be[len(be)-1])
}

func TestWhirlpoolPadding(t *testing.T) {
	w := &whirlpool{}
	for _, count := range []uint64{0, 1, 30, 31, 32, 63, 64} {
		p := w.padding(count)
		assert.Zero(t, (count+uint64(len(p)))%64, "count %d", count)
		assert.GreaterOrEqual(t, len(p), 33)
	}
}

func TestHMAC(t *testing.T) {
	// RFC 2202 test case 2.
	mac := hmac.New(func() stdhash.Hash { return NewSHA160() }, []byte("Jefe"))
	mac.Write([]byte("what do ya want for nothing?"))
	assert.Equal(t, "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79", hex.EncodeToString(mac.Sum(nil)))
}

func TestConcurrentClones(t *testing.T) {
	base := NewWhirlpool()
	base.Write([]byte("shared prefix"))
	want := base.Sum(nil)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = base.Clone().Digest()
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		assert.Equal(t, want, r, fmt.Sprintf("goroutine %d", i))
	}
}

func TestParallelFirstUse(t *testing.T) {
	whirlpoolOnce, whirlpoolTbl = sync.Once{}, nil

	results := make([][]byte, 16)
	t.Run("group", func(t *testing.T) {
		for i := range results {
			i := i
			t.Run(fmt.Sprintf("whirlpool/%d", i), func(t *testing.T) {
				t.Parallel()
				d := NewWhirlpool()
				results[i] = d.Digest()
				assert.True(t, d.SelfTest())
			})
		}
	})

	for i, r := range results {
		assert.Equal(t, whirlpoolKAT, r, "subtest %d", i)
	}
	assert.Equal(t, buildWhirlpoolTables(), whirlpoolTables())
}

func TestDigestsInParallel(t *testing.T) {
	msg := strings.Repeat("parallel input ", 100)
	for _, d := range digests() {
		d := d
		want := hexDigest(d.clone(), msg)
		t.Run(d.Name(), func(t *testing.T) {
			t.Parallel()
			for i := 0; i < 20; i++ {
				assert.Equal(t, want, hexDigest(d.clone(), msg))
			}
		})
	}
}
