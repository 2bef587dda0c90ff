package contract

import (
	"context"
	"io"
)

// Writer: 将装配结果写入目标介质（文件或 STDOUT）。
// 约束：
//  1. target 为空或 "-" 表示标准输出，其余视为文件路径；
//  2. 文件目标先创建/截断再写入，旧内容不保留；
//  3. 按字节透传，不读取/修改业务内容；
//  4. 错误直接上抛（不做重试/回退），句柄在所有路径上关闭。
type Writer interface {
	Write(ctx context.Context, target string, r io.Reader) error
}
