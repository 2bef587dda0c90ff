package contract

import (
	"context"
	"io"
)

// Assembler: 将有序 Line 线性装配为输出字节流。
// 约束：
//  1. 每行之后追加一个行终止符；
//  2. 按 Index 严格升序拼接，违规返回 ErrSeqInvalid；
//  3. 空序列得到空流。
type Assembler interface {
	Assemble(ctx context.Context, lines []Line) (io.Reader, error)
}
