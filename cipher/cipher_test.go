package cipher

import (
	"bytes"
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/opd-ai/gnucrypto/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engines() []interfaces.IBlockCipher {
	return []interfaces.IBlockCipher{NewRijndael(), NewKhazad(), NewSquare()}
}

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func encryptHex(t *testing.T, c interfaces.IBlockCipher, keyHex, ptHex string, bs int) string {
	t.Helper()
	key, err := c.MakeKey(mustHex(keyHex), bs)
	require.NoError(t, err)
	pt := mustHex(ptHex)
	ct := make([]byte, bs)
	require.NoError(t, c.EncryptBlock(pt, 0, ct, 0, key, bs))

	back := make([]byte, bs)
	require.NoError(t, c.DecryptBlock(ct, 0, back, 0, key, bs))
	assert.Equal(t, pt, back, "decrypt must invert encrypt")
	return hex.EncodeToString(ct)
}

func TestKnownAnswerVectors(t *testing.T) {
	tests := []struct {
		name   string
		cipher interfaces.IBlockCipher
		key    string
		pt     string
		ct     string
	}{
		{"khazad zero block", NewKhazad(), "00000000000000000000000000000100", "0000000000000000", "a0c86a1bbe2cbf4c"},
		{"khazad sequence", NewKhazad(), hex.EncodeToString(sequence(16)), hex.EncodeToString(sequence(8)), "9c4c292a989175fc"},
		{"square zero block", NewSquare(), "00000000000000000000020000000000", "00000000000000000000000000000000", "a9df031b4e25e89f527efff89cb0beba"},
		{"square sequence", NewSquare(), hex.EncodeToString(sequence(16)), hex.EncodeToString(sequence(16)), "7c3491d94994e70f0ec2e7a5ccb5a14f"},
		{"rijndael zero block", NewRijndael(), "0000000000000000000000010000000000000000000000000000000000000000", "00000000000000000000000000000000", "e44429474d6fc3084eb2a6b8b46af754"},
		{"aes-128 fips-197", NewRijndael(), "000102030405060708090a0b0c0d0e0f", "00112233445566778899aabbccddeeff", "69c4e0d86a7b0430d8cdb78070b4c55a"},
		{"rijndael 256-bit block", NewRijndael(), "2b7e151628aed2a6abf7158809cf4f3c",
			"3243f6a8885a308d313198a2e03707344a4093822299f31d0082efa98ec4e6c8",
			"7d15479076b69a46ffb3b3beae97ad8313f622f67fedb487de9f06b9ed9c8f19"},
		{"rijndael 192-bit block", NewRijndael(), "2b7e151628aed2a6abf7158809cf4f3c",
			"3243f6a8885a308d313198a2e03707344a4093822299f31d",
			"b24d275489e82bb8f7375e0d5fcdb1f481757c538b65148a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := encryptHex(t, tt.cipher, tt.key, tt.pt, len(tt.ct)/2)
			assert.Equal(t, tt.ct, got)
		})
	}
}

func TestRijndaelAllSizes(t *testing.T) {
	want := map[[2]int]string{
		{16, 16}: "0a940bb5416ef045f1c39458c653ea5a",
		{16, 24}: "54030626e366bba5827f46be060b53c75668fc25fb1a6074",
		{16, 32}: "21c89c4a7ae37f185597362e5d20485f6144afed71bd4a798688662e6cde7dc4",
		{24, 16}: "0060bffe46834bb8da5cf9a61ff220ae",
		{24, 24}: "7a5a73c8fbdbb2aa6866cc951b3e059a631cfefc09c424cf",
		{24, 32}: "d4cc0b070ebebd98ffa1c28e40bffa5db8bdb8fb5bfb6ccf23af2c1608967acc",
		{32, 16}: "5a6e045708fb7196f02e553d02c3a692",
		{32, 24}: "b5e5bb698a33a80e4daed256760f1a5f08cc6f181e67b5bc",
		{32, 32}: "623d2bd4ca3796dc3d02ecf2f37fb637fd3da58509cebb67ab9265b04db51e7d",
	}
	c := NewRijndael()
	for sizes, ct := range want {
		ks, bs := sizes[0], sizes[1]
		t.Run(fmt.Sprintf("key%d_block%d", ks*8, bs*8), func(t *testing.T) {
			got := encryptHex(t, c, hex.EncodeToString(sequence(ks)), hex.EncodeToString(sequence(bs)), bs)
			assert.Equal(t, ct, got)
		})
	}
}

func TestRijndaelRounds(t *testing.T) {
	c := NewRijndael()
	for _, ks := range c.KeySizes() {
		for _, bs := range c.BlockSizes() {
			key, err := c.MakeKey(sequence(ks), bs)
			require.NoError(t, err)
			assert.Equal(t, max(ks, bs)/4+6, key.Rounds(), "key %d block %d", ks, bs)
		}
	}
}

func TestRijndaelMatchesAES(t *testing.T) {
	c := NewRijndael()
	for _, ks := range []int{16, 24, 32} {
		keyBytes := bytes.Repeat([]byte{0xa5, 0x3c, byte(ks)}, 11)[:ks]
		ref, err := aes.NewCipher(keyBytes)
		require.NoError(t, err)
		key, err := c.MakeKey(keyBytes, 16)
		require.NoError(t, err)

		pt := sequence(16)
		for i := 0; i < 64; i++ {
			want := make([]byte, 16)
			got := make([]byte, 16)
			ref.Encrypt(want, pt)
			require.NoError(t, c.EncryptBlock(pt, 0, got, 0, key, 16))
			require.Equal(t, want, got, "key size %d iteration %d", ks, i)
			pt = got
		}
	}
}

func TestRoundTripWithOffsets(t *testing.T) {
	for _, c := range engines() {
		for _, ks := range c.KeySizes() {
			for _, bs := range c.BlockSizes() {
				t.Run(fmt.Sprintf("%s/%d/%d", c.Name(), ks, bs), func(t *testing.T) {
					key, err := c.MakeKey(bytes.Repeat([]byte{0x5a}, ks), bs)
					require.NoError(t, err)
					defer key.Wipe()

					in := make([]byte, bs+7)
					for i := range in {
						in[i] = byte(i * 31)
					}
					ct := make([]byte, bs+3)
					out := make([]byte, bs+5)
					require.NoError(t, c.EncryptBlock(in, 7, ct, 3, key, bs))
					require.NoError(t, c.DecryptBlock(ct, 3, out, 5, key, bs))
					assert.Equal(t, in[7:], out[5:])
					assert.Equal(t, make([]byte, 3), ct[:3], "bytes before the offset must be untouched")
				})
			}
		}
	}
}

func TestInPlace(t *testing.T) {
	for _, c := range engines() {
		bs := c.DefaultBlockSize()
		key, err := c.MakeKey(sequence(c.DefaultKeySize()), bs)
		require.NoError(t, err)

		buf := sequence(bs)
		require.NoError(t, c.EncryptBlock(buf, 0, buf, 0, key, bs))
		assert.NotEqual(t, sequence(bs), buf, c.Name())
		require.NoError(t, c.DecryptBlock(buf, 0, buf, 0, key, bs))
		assert.Equal(t, sequence(bs), buf, c.Name())
	}
}

func TestMakeKeyErrors(t *testing.T) {
	for _, c := range engines() {
		t.Run(c.Name(), func(t *testing.T) {
			bs := c.DefaultBlockSize()
			_, err := c.MakeKey(nil, bs)
			assert.ErrorIs(t, err, ErrInvalidKey)

			for _, ks := range c.KeySizes() {
				_, err = c.MakeKey(sequence(ks-1), bs)
				assert.ErrorIs(t, err, ErrInvalidKey, "key length %d", ks-1)
			}

			_, err = c.MakeKey(sequence(c.DefaultKeySize()), 20)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestBlockOperationErrors(t *testing.T) {
	r := NewRijndael()
	k := NewKhazad()
	rk, err := r.MakeKey(sequence(16), 16)
	require.NoError(t, err)
	kk, err := k.MakeKey(sequence(16), 8)
	require.NoError(t, err)

	buf := make([]byte, 32)

	err = r.EncryptBlock(buf, 0, buf, 0, kk, 16)
	assert.ErrorIs(t, err, ErrInvalidKey, "foreign schedule")

	err = r.EncryptBlock(buf, 0, buf, 0, nil, 16)
	assert.ErrorIs(t, err, ErrInvalidKey, "nil schedule")

	err = r.EncryptBlock(buf, 0, buf, 0, rk, 24)
	assert.ErrorIs(t, err, ErrInvalidArgument, "block size mismatch")

	err = r.EncryptBlock(buf, 20, buf, 0, rk, 16)
	assert.ErrorIs(t, err, ErrShortBuffer, "short input")

	err = k.DecryptBlock(buf, 0, buf, 30, kk, 8)
	assert.ErrorIs(t, err, ErrShortBuffer, "short output")

	err = r.EncryptBlock(buf, -1, buf, 0, rk, 16)
	assert.Error(t, err, "negative offset")
}

func TestWipe(t *testing.T) {
	key, err := NewSquare().MakeKey(sequence(16), 16)
	require.NoError(t, err)
	sk := key.(*SessionKey)
	key.Wipe()
	for r := range sk.ke {
		for _, w := range sk.ke[r] {
			require.Zero(t, w)
		}
		for _, w := range sk.kd[r] {
			require.Zero(t, w)
		}
	}
}

func TestSessionKeyDescribesSchedule(t *testing.T) {
	key, err := NewKhazad().MakeKey(sequence(16), 8)
	require.NoError(t, err)
	assert.Equal(t, KhazadName, key.Algorithm())
	assert.Equal(t, 8, key.BlockSize())
	assert.Equal(t, 8, key.Rounds())
}

func TestSelfTest(t *testing.T) {
	for _, c := range engines() {
		assert.True(t, c.SelfTest(), c.Name())
		assert.True(t, c.SelfTest(), "%s cached", c.Name())
	}
	assert.Equal(t, 1, rijndaelSelfTT.Runs())
	assert.Equal(t, 1, khazadSelfTT.Runs())
	assert.Equal(t, 1, squareSelfTT.Runs())
}

func TestTablesDeterministic(t *testing.T) {
	assert.Equal(t, buildRijndaelTables(), rijndaelTables())
	assert.Equal(t, buildKhazadTables(), khazadTables())
	assert.Equal(t, buildSquareTables(), squareTables())
}

func TestKhazadSBoxIsInvolution(t *testing.T) {
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i), khazadSBox[khazadSBox[i]])
	}
}

func TestRijndaelInverseSBox(t *testing.T) {
	tbl := rijndaelTables()
	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i), tbl.si[tbl.s[i]])
	}
	assert.Equal(t, byte(0x63), tbl.s[0])
}

func TestClone(t *testing.T) {
	for _, c := range engines() {
		clone := c.Clone()
		assert.Equal(t, c.Name(), clone.Name())
		assert.Equal(t, c.BlockSizes(), clone.BlockSizes())
		assert.NotSame(t, c, clone)

		sizes := c.KeySizes()
		sizes[0] = 99
		assert.NotEqual(t, 99, c.KeySizes()[0], "KeySizes must return a copy")
	}
}

func TestConcurrentUse(t *testing.T) {
	c := NewRijndael()
	key, err := c.MakeKey(sequence(32), 32)
	require.NoError(t, err)

	want := make([]byte, 32)
	require.NoError(t, c.EncryptBlock(sequence(32), 0, want, 0, key, 32))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := make([]byte, 32)
			for i := 0; i < 200; i++ {
				if err := c.EncryptBlock(sequence(32), 0, got, 0, key, 32); err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(got, want) {
					errs <- errors.New("concurrent encryption diverged")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// resetTables forgets the built tables so the next access rebuilds them.
// Callers must not run in parallel with other tests that use the engines.
func resetTables() {
	rijndaelOnce, rijndaelTbl = sync.Once{}, nil
	khazadOnce, khazadTbl = sync.Once{}, nil
	squareOnce, squareTbl = sync.Once{}, nil
}

func TestParallelFirstUse(t *testing.T) {
	resetTables()

	t.Run("group", func(t *testing.T) {
		for _, c := range engines() {
			c := c
			for g := 0; g < 8; g++ {
				t.Run(fmt.Sprintf("%s/%d", c.Name(), g), func(t *testing.T) {
					t.Parallel()
					e := c.Clone()
					bs, ks := e.DefaultBlockSize(), e.DefaultKeySize()
					key, err := e.MakeKey(sequence(ks), bs)
					require.NoError(t, err)
					defer key.Wipe()

					ct := make([]byte, bs)
					back := make([]byte, bs)
					require.NoError(t, e.EncryptBlock(sequence(bs), 0, ct, 0, key, bs))
					require.NoError(t, e.DecryptBlock(ct, 0, back, 0, key, bs))
					assert.Equal(t, sequence(bs), back)
					assert.True(t, e.SelfTest())
				})
			}
		}
	})

	assert.Equal(t, buildRijndaelTables(), rijndaelTables())
	assert.Equal(t, buildKhazadTables(), khazadTables())
	assert.Equal(t, buildSquareTables(), squareTables())
}

func TestBuildRacesAccessor(t *testing.T) {
	resetTables()

	var wg sync.WaitGroup
	built := make([]*rijndaelLUT, 8)
	for i := range built {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			built[i] = buildRijndaelTables()
		}()
		go func() {
			defer wg.Done()
			_ = khazadTables()
			_ = squareTables()
			_ = rijndaelTables()
		}()
	}
	wg.Wait()
	for _, b := range built {
		assert.Equal(t, rijndaelTables(), b)
	}
}

func TestBlockWithStandardModes(t *testing.T) {
	keyBytes := sequence(16)
	ours, err := NewBlock(NewRijndael(), keyBytes, 0)
	require.NoError(t, err)
	ref, err := aes.NewCipher(keyBytes)
	require.NoError(t, err)
	assert.Equal(t, 16, ours.BlockSize())

	iv := bytes.Repeat([]byte{0x42}, 16)
	pt := bytes.Repeat([]byte("sixteen byte blk"), 4)

	got := make([]byte, len(pt))
	want := make([]byte, len(pt))
	stdcipher.NewCBCEncrypter(ours, iv).CryptBlocks(got, pt)
	stdcipher.NewCBCEncrypter(ref, iv).CryptBlocks(want, pt)
	assert.Equal(t, want, got)

	back := make([]byte, len(pt))
	stdcipher.NewCBCDecrypter(ours, iv).CryptBlocks(back, got)
	assert.Equal(t, pt, back)

	gcmOurs, err := stdcipher.NewGCM(ours)
	require.NoError(t, err)
	gcmRef, err := stdcipher.NewGCM(ref)
	require.NoError(t, err)
	nonce := make([]byte, 12)
	assert.Equal(t, gcmRef.Seal(nil, nonce, pt, []byte("ad")), gcmOurs.Seal(nil, nonce, pt, []byte("ad")))
}

func TestBlockKhazadCTR(t *testing.T) {
	blk, err := NewBlock(NewKhazad(), sequence(16), 0)
	require.NoError(t, err)
	defer blk.Wipe()

	iv := make([]byte, 8)
	msg := []byte("counter mode works with any block size")
	ct := make([]byte, len(msg))
	stdcipher.NewCTR(blk, iv).XORKeyStream(ct, msg)
	pt := make([]byte, len(msg))
	stdcipher.NewCTR(blk, iv).XORKeyStream(pt, ct)
	assert.Equal(t, msg, pt)
}

func TestNewBlockErrors(t *testing.T) {
	_, err := NewBlock(nil, sequence(16), 16)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBlock(NewSquare(), sequence(15), 0)
	assert.ErrorIs(t, err, ErrInvalidKey)

	blk, err := NewBlock(NewSquare(), sequence(16), 0)
	require.NoError(t, err)
	assert.Panics(t, func() { blk.Encrypt(make([]byte, 4), make([]byte, 16)) })
}
