package contract

import "strings"

// Stdio 为标准输入/输出的占位名。
const Stdio = "-"

// IsStdio 判断 src/target 是否指向标准流：空串（未指定）或 "-"。
func IsStdio(name string) bool {
	s := strings.TrimSpace(name)
	return s == "" || s == Stdio
}
