package contract

import (
	"context"
	"io"
)

// Splitter: 将完整字节流拆分为有序 Line 序列，并分配 Index（0..n-1）。
// 约束：
// 1) 读取到 EOF 后才返回（整体物化，非流式）；
// 2) 去除行终止符，不改变其余文本；
// 3) 失败时不返回部分结果；
// 4) 无内部并发、幂等。
type Splitter interface {
	Split(ctx context.Context, r io.Reader) ([]Line, error)
}
