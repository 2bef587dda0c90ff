package contract

import (
	"context"
	"io"
)

// Reader: 输入源抽象（文件或 STDIN）。
// 约束：
// 1) src 为空或 "-" 表示标准输入，其余视为文件路径；
// 2) 不做解码/业务解析，仅提供字节流；
// 3) 调用方负责 Close，且应在读取完成后立即释放；
// 4) 不在内部起并发。
type Reader interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}
