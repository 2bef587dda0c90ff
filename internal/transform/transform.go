// Package transform 实现逐行变换：drop-prefix → drop-suffix → add-prefix → add-suffix。
//
// drop 值按正则解释（Go RE2 语法，不自动转义元字符），并分别锚定到行首/行尾；
// add 值按字面文本原样拼接。每一步每行至多移除一次匹配。
package transform

import (
	"context"
	"fmt"
	"regexp"

	"smat/pkg/contract"
)

// Config: 四个彼此独立的可选值；至少一个非空。
type Config struct {
	DropPrefix string `json:"drop_prefix" yaml:"drop_prefix" toml:"drop_prefix"`
	DropSuffix string `json:"drop_suffix" yaml:"drop_suffix" toml:"drop_suffix"`
	AddPrefix  string `json:"add_prefix" yaml:"add_prefix" toml:"add_prefix"`
	AddSuffix  string `json:"add_suffix" yaml:"add_suffix" toml:"add_suffix"`
}

// Empty 报告四个值是否全部为空。
func (c Config) Empty() bool {
	return c.DropPrefix == "" && c.DropSuffix == "" && c.AddPrefix == "" && c.AddSuffix == ""
}

// Transformer 为编译后的变换；只读，可重复使用。
type Transformer struct {
	cfg    Config
	prefix *regexp.Regexp // nil 表示该步骤为 no-op
	suffix *regexp.Regexp
}

var _ contract.Transformer = (*Transformer)(nil)

// AnchorPrefix 返回锚定到行首的有效表达式。
// 分组保证交替分支同样被锚定："a|b" → "^(?:a|b)"。
func AnchorPrefix(p string) string { return `^(?:` + p + `)` }

// AnchorSuffix 返回锚定到行尾的有效表达式。
func AnchorSuffix(p string) string { return `(?:` + p + `)$` }

// Compile 校验并编译配置。所有错误都在处理任何行之前返回。
func Compile(cfg Config) (*Transformer, error) {
	if cfg.Empty() {
		return nil, contract.ErrNoAction
	}
	t := &Transformer{cfg: cfg}
	if cfg.DropPrefix != "" {
		re, err := regexp.Compile(AnchorPrefix(cfg.DropPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: drop-prefix %q: %v", contract.ErrInvalidPattern, cfg.DropPrefix, err)
		}
		t.prefix = re
	}
	if cfg.DropSuffix != "" {
		re, err := regexp.Compile(AnchorSuffix(cfg.DropSuffix))
		if err != nil {
			return nil, fmt.Errorf("%w: drop-suffix %q: %v", contract.ErrInvalidPattern, cfg.DropSuffix, err)
		}
		t.suffix = re
	}
	return t, nil
}

// Config 返回编译所用的配置副本。
func (t *Transformer) Config() Config { return t.cfg }

// Line 按固定顺序变换单行。
func (t *Transformer) Line(s string) string {
	if t.prefix != nil {
		// 锚定后匹配只可能从 0 开始
		if loc := t.prefix.FindStringIndex(s); loc != nil {
			s = s[loc[1]:]
		}
	}
	if t.suffix != nil {
		// 最左匹配且必须延伸到行尾
		if loc := t.suffix.FindStringIndex(s); loc != nil {
			s = s[:loc[0]]
		}
	}
	if t.cfg.AddPrefix != "" || t.cfg.AddSuffix != "" {
		s = t.cfg.AddPrefix + s + t.cfg.AddSuffix
	}
	return s
}

// Transform 实现 contract.Transformer：逐行映射，保持行数与 Index。
func (t *Transformer) Transform(ctx context.Context, lines []contract.Line) ([]contract.Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	out := make([]contract.Line, len(lines))
	for i, l := range lines {
		out[i] = contract.Line{Index: l.Index, Text: t.Line(l.Text)}
	}
	return out, nil
}

// Kind 标识步骤的取值解释方式。
type Kind string

const (
	KindRegex   Kind = "regex"
	KindLiteral Kind = "literal"
)

// Step 描述一个变换步骤（用于 --explain 展示）。
type Step struct {
	Name    string
	Kind    Kind
	Value   string
	Pattern string // 实际生效的锚定表达式；literal 步骤为空
	Enabled bool
}

// Steps 按执行顺序返回四个步骤。
func (t *Transformer) Steps() []Step {
	c := t.cfg
	steps := []Step{
		{Name: "drop-prefix", Kind: KindRegex, Value: c.DropPrefix, Enabled: c.DropPrefix != ""},
		{Name: "drop-suffix", Kind: KindRegex, Value: c.DropSuffix, Enabled: c.DropSuffix != ""},
		{Name: "add-prefix", Kind: KindLiteral, Value: c.AddPrefix, Enabled: c.AddPrefix != ""},
		{Name: "add-suffix", Kind: KindLiteral, Value: c.AddSuffix, Enabled: c.AddSuffix != ""},
	}
	if t.prefix != nil {
		steps[0].Pattern = t.prefix.String()
	}
	if t.suffix != nil {
		steps[1].Pattern = t.suffix.String()
	}
	return steps
}
