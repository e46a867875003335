package cipher

import "testing"

func BenchmarkEncryptBlock(b *testing.B) {
	for _, c := range engines() {
		bs := c.DefaultBlockSize()
		key, err := c.MakeKey(sequence(c.DefaultKeySize()), bs)
		if err != nil {
			b.Fatal(err)
		}
		buf := make([]byte, bs)
		b.Run(c.Name(), func(b *testing.B) {
			b.SetBytes(int64(bs))
			for i := 0; i < b.N; i++ {
				_ = c.EncryptBlock(buf, 0, buf, 0, key, bs)
			}
		})
	}
}

func BenchmarkMakeKey(b *testing.B) {
	c := NewRijndael()
	key := sequence(32)
	for i := 0; i < b.N; i++ {
		_, _ = c.MakeKey(key, 32)
	}
}
