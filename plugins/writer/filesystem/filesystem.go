package filesystem

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"smat/pkg/contract"
)

// Options: 最小必要选项。
type Options struct {
	// Atomic: 是否使用原子替换（同目录临时文件 + rename）。
	// 默认 false：直接以 O_TRUNC 覆盖写。
	Atomic bool `json:"atomic" yaml:"atomic"`
	// MakeDirs: 目标父目录不存在时是否创建。默认 false（父目录缺失即失败）。
	MakeDirs bool `json:"make_dirs" yaml:"make_dirs"`
	// PermFile/PermDir: 可选权限；为 0 表示使用默认 0644/0755。
	PermFile os.FileMode `json:"perm_file,omitempty" yaml:"perm_file" validate:"lte=511"`
	PermDir  os.FileMode `json:"perm_dir,omitempty" yaml:"perm_dir" validate:"lte=511"`
	// BufSize: 写缓冲区大小；<=0 使用实现默认。
	BufSize int `json:"buf_size,omitempty" yaml:"buf_size" validate:"gte=0"`
}

// FS 实现基于文件系统与 STDOUT 的 Writer。
type FS struct {
	atomic   bool
	makeDirs bool
	permF    os.FileMode
	permD    os.FileMode
	bufSize  int
	stdout   io.Writer
}

// New 创建文件系统 Writer；stdout 为 "-"/未指定输出时的目标（nil 时使用 os.Stdout）。
func New(opts *Options, stdout io.Writer) (*FS, error) {
	if opts == nil {
		opts = &Options{}
	}
	bsz := opts.BufSize
	if bsz <= 0 {
		bsz = 64 * 1024
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &FS{atomic: opts.Atomic, makeDirs: opts.MakeDirs, permF: pf, permD: pd, bufSize: bsz, stdout: stdout}, nil
}

var _ contract.Writer = (*FS)(nil)

// Write 将 r 的全部字节写入 target（空或 "-" 为 STDOUT）。
func (w *FS) Write(ctx context.Context, target string, r io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if contract.IsStdio(target) {
		return w.writeStdout(ctx, r)
	}
	if w.makeDirs {
		if err := os.MkdirAll(filepath.Dir(target), w.permD); err != nil {
			return err
		}
	}
	if w.atomic {
		return w.writeAtomic(ctx, target, r)
	}
	return w.writeOverwrite(ctx, target, r)
}

func (w *FS) writeStdout(ctx context.Context, r io.Reader) error {
	bw := bufio.NewWriterSize(w.stdout, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return err
	}
	return bw.Flush()
}

func (w *FS) writeOverwrite(ctx context.Context, dest string, r io.Reader) (err error) {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.permF)
	if err != nil {
		return err
	}
	// 确保及时关闭；关闭错误在写入成功时上抛
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriterSize(f, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return err
	}
	return bw.Flush()
}

func (w *FS) writeAtomic(ctx context.Context, dest string, r io.Reader) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	// 目标权限：尽量与期望一致
	_ = os.Chmod(tmpPath, w.permF)

	bw := bufio.NewWriterSize(tmp, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		_ = bw.Flush()
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// 平台特定的原子替换（或最佳努力）：
	if err := osReplace(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// 最佳努力：在部分平台同步父目录
	_ = syncDir(dir)
	return nil
}

// readerWithCtx: 在每次 Read 前检查 ctx 是否已取消。
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}
	return cr.r.Read(p)
}
