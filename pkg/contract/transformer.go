package contract

import "context"

// Transformer: 逐行纯映射。
// 约束：
// 1) len(out) == len(in)，且 out[i].Index == in[i].Index；
// 2) 不做 I/O；
// 3) 行与行之间无状态。
type Transformer interface {
	Transform(ctx context.Context, lines []Line) ([]Line, error)
}
