package contract

// Index: 单个输入内稳定递增的行号（0..n-1）。
type Index int64

// Line: 原子文本记录。
// 约束：
// - Text 不含行终止符（\n，以及 CRLF 输入中的 \r）；
// - Index 自 0 严格递增；
// - 流水线任何阶段均不重排、合并或拆分 Line。
type Line struct {
	Index Index
	Text  string
}

// Texts 返回按顺序排列的文本切片（便于测试与展示）。
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// FromTexts 按顺序为文本分配 Index，构造 []Line。
func FromTexts(texts []string) []Line {
	out := make([]Line, len(texts))
	for i, s := range texts {
		out[i] = Line{Index: Index(i), Text: s}
	}
	return out
}
