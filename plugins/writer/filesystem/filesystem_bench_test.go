package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

// BenchmarkWrite 基准测试 Writer.Write。不同输入尺寸、覆盖写与原子写下测量写入性能。
func BenchmarkWrite(b *testing.B) {
	sizes := []int{1024, 1024 * 1024}
	for _, atomic := range []bool{false, true} {
		for _, sz := range sizes {
			b.Run(fmt.Sprintf("atomic=%v/size=%d", atomic, sz), func(b *testing.B) {
				data := bytes.Repeat([]byte("a"), sz)
				w, err := New(&Options{Atomic: atomic}, nil)
				if err != nil {
					b.Fatalf("创建 Writer 失败: %v", err)
				}
				dest := filepath.Join(b.TempDir(), "out.txt")
				ctx := context.Background()
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if err := w.Write(ctx, dest, bytes.NewReader(data)); err != nil {
						b.Fatalf("写入失败: %v", err)
					}
				}
			})
		}
	}
}
