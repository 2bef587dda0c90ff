package contract

import "errors"

// 最小错误分类（用于上层退出码与日志分类）。
var (
	// ErrNoAction: 四个变换选项均为空（用法错误，不执行任何 I/O）。
	ErrNoAction = errors.New("no action given, add at least one of -dp, -ap, -ds or -as")
	// ErrInvalidPattern: drop-prefix/drop-suffix 不是合法正则。
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrInvalidInput: 组件收到不合法的参数或选项。
	ErrInvalidInput = errors.New("invalid input")
	// ErrSeqInvalid: Line 序列违反 Index 严格升序。
	ErrSeqInvalid = errors.New("sequence invalid")
	// ErrInvariantViolation: 领域不变量违例（例如变换前后行数不一致）。
	ErrInvariantViolation = errors.New("invariant violation")
)
