package diag

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"smat/pkg/contract"
)

// Code 是最小错误分类代码。
// 用于日志汇总与退出码映射。
type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeUsage      Code = "usage"
	CodePattern    Code = "pattern"
	CodeConfig     Code = "config"
	CodeNotFound   Code = "not_found"
	CodePermission Code = "permission"
	CodeIO         Code = "io"
	CodeInvariant  Code = "invariant"
	CodeCancel     Code = "cancel"
)

// ErrConfig 标记配置装配阶段的错误（文件解析、校验、组件构造）。
var ErrConfig = errors.New("config error")

// Classify 将错误归为最小分类。
// 说明：仅依赖哨兵错误与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	// 取消/超时优先
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancel
	}
	if errors.Is(err, contract.ErrNoAction) {
		return CodeUsage
	}
	if errors.Is(err, contract.ErrInvalidPattern) {
		return CodePattern
	}
	if errors.Is(err, ErrConfig) {
		return CodeConfig
	}
	// 不变量
	if errors.Is(err, contract.ErrInvariantViolation) ||
		errors.Is(err, contract.ErrInvalidInput) ||
		errors.Is(err, contract.ErrSeqInvalid) {
		return CodeInvariant
	}
	// I/O：先细分不存在/无权限
	if errors.Is(err, fs.ErrNotExist) {
		return CodeNotFound
	}
	if errors.Is(err, fs.ErrPermission) {
		return CodePermission
	}
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}

// NowUTC 返回 RFC3339 UTC 时间字符串（用于结构化日志字段 ts）。
func NowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
