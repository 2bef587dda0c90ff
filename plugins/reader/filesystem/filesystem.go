package filesystem

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"smat/pkg/contract"
)

// Options 为 FileSystem Reader 的可选配置（最小必要）。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `json:"buf_size" yaml:"buf_size" validate:"gte=0"`
}

// FileSystem 实现基于文件系统与 STDIN 的 Reader。
type FileSystem struct {
	bufSize int
	stdin   io.Reader
}

// errIsDir: 输入路径指向目录。
var errIsDir = errors.New("is a directory")

// New 创建 FileSystem Reader；stdin 为 "-"/未指定输入时的数据源（nil 时使用 os.Stdin）。
func New(opts *Options, stdin io.Reader) *FileSystem {
	const defaultBuf = 64 * 1024
	b := defaultBuf
	if opts != nil && opts.BufSize > 0 {
		b = opts.BufSize
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	return &FileSystem{bufSize: b, stdin: stdin}
}

var _ contract.Reader = (*FileSystem)(nil)

// Open 打开输入源。src 为空或 "-" 时返回 STDIN（Close 不关闭底层 STDIN）。
// 目录被拒绝；FIFO、字符设备等非常规文件允许读取（如 /dev/stdin、进程替换）。
func (r *FileSystem) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if contract.IsStdio(src) {
		// 统一缓冲策略：STDIN 也使用 bufio.Reader 封装
		return newBufferedCloser(io.NopCloser(r.stdin), r.bufSize), nil
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &fs.PathError{Op: "open", Path: src, Err: errIsDir}
	}
	return newBufferedCloser(f, r.bufSize), nil
}

// bufferedCloser 将 bufio.Reader 与底层 Closer 组合为 ReadCloser。
type bufferedCloser struct {
	*bufio.Reader
	c io.Closer
}

func newBufferedCloser(c io.ReadCloser, bufSize int) *bufferedCloser {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	return &bufferedCloser{Reader: bufio.NewReaderSize(c, bufSize), c: c}
}

func (b *bufferedCloser) Close() error { return b.c.Close() }
