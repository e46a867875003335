package hash

import "testing"

func BenchmarkDigest(b *testing.B) {
	buf := make([]byte, 8192)
	for _, d := range digests() {
		b.Run(d.Name(), func(b *testing.B) {
			b.SetBytes(int64(len(buf)))
			for i := 0; i < b.N; i++ {
				d.Write(buf)
				d.Digest()
			}
		})
	}
}
