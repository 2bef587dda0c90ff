package lines

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"smat/pkg/contract"
)

// Options 为行拆分器的可选配置（最小必要）。
type Options struct {
	// KeepCR: 保留 CRLF 输入中行尾的 '\r'。默认 false（CRLF→LF 归一）。
	KeepCR bool `json:"keep_cr" yaml:"keep_cr"`
	// RequireUTF8: 遇到非法 UTF-8 时失败。默认 false（按字节透传）。
	RequireUTF8 bool `json:"require_utf8" yaml:"require_utf8"`
}

// Splitter 按 '\n' 拆分整个输入。
type Splitter struct {
	keepCR      bool
	requireUTF8 bool
}

// New 创建行拆分器。
func New(opts *Options) *Splitter {
	s := &Splitter{}
	if opts != nil {
		s.keepCR = opts.KeepCR
		s.requireUTF8 = opts.RequireUTF8
	}
	return s
}

var _ contract.Splitter = (*Splitter)(nil)

// Split 读取到 EOF 并拆分为 []Line。
// - 末行无终止符时照常保留；空输入得到零行；
// - 不使用 bufio.Scanner，单行长度不设上限；
// - 任何读取错误都不返回部分结果。
func (s *Splitter) Split(ctx context.Context, r io.Reader) ([]contract.Line, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	var out []contract.Line
	var idx contract.Index
	for {
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}
		text, eof, err := s.readLine(br)
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}
		if s.requireUTF8 && !utf8.ValidString(text) {
			return nil, fmt.Errorf("%w: invalid UTF-8 at line %d", contract.ErrInvalidInput, idx+1)
		}
		out = append(out, contract.Line{Index: idx, Text: text})
		idx++
	}
	return out, nil
}

// readLine 读取一行并去除结尾换行；仅当没有任何剩余字节时返回 eof=true。
func (s *Splitter) readLine(br *bufio.Reader) (line string, eof bool, err error) {
	str, err := br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, err
		}
		if str == "" {
			return "", true, nil
		}
	}
	str = strings.TrimSuffix(str, "\n")
	if !s.keepCR {
		str = strings.TrimSuffix(str, "\r")
	}
	return str, false, nil
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
