package linear

import (
	"context"
	"fmt"
	"io"
	"strings"

	"smat/pkg/contract"
)

// Options: 行终止符，"lf"（默认，"\n"）或 "crlf"（"\r\n"）。
type Options struct {
	LineEnding string `json:"line_ending" yaml:"line_ending" validate:"omitempty,oneof=lf crlf"`
}

type assembler struct {
	eol string
}

// New 创建线性装配器。
func New(opts *Options) (contract.Assembler, error) {
	eol := "\n"
	if opts != nil {
		switch opts.LineEnding {
		case "", "lf":
		case "crlf":
			eol = "\r\n"
		default:
			return nil, fmt.Errorf("%w: line_ending %q", contract.ErrInvalidInput, opts.LineEnding)
		}
	}
	return &assembler{eol: eol}, nil
}

// Assemble 按 Index 严格升序线性拼接，每行之后追加行终止符；
// 发现逆序或重复即返回 ErrSeqInvalid。
func (a *assembler) Assemble(ctx context.Context, lines []contract.Line) (io.Reader, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if len(lines) == 0 {
		return strings.NewReader(""), nil
	}
	if err := contract.ValidateOrder(lines); err != nil {
		return nil, err
	}

	// 零拷贝倾向：拼接多个只读字符串 reader
	rs := make([]io.Reader, 0, 2*len(lines))
	for _, l := range lines {
		rs = append(rs, strings.NewReader(l.Text), strings.NewReader(a.eol))
	}
	return io.MultiReader(rs...), nil
}

var _ contract.Assembler = (*assembler)(nil)
