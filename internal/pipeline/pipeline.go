package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smat/internal/diag"
	"smat/pkg/contract"
)

// - 单次同步执行：无后台 goroutine，阶段之间检查 ctx。
// - 全量物化：输入读取完毕并关闭句柄后才进入变换。
// - 首错即止：任一阶段失败立即返回，不重试、不输出部分结果。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader      contract.Reader
	Splitter    contract.Splitter
	Transformer contract.Transformer
	Assembler   contract.Assembler
	Writer      contract.Writer
}

// Settings 运行期配置（最小必要）。
type Settings struct {
	// Input/Output: 文件路径；"" 或 "-" 表示标准输入/输出。
	Input  string
	Output string
}

// Run 执行完整流水线：Reader → Splitter → Transformer → Assembler → Writer。
// 约束：
// - 输出行数与输入行数相等，且逐行 Index 一致；
// - 输入句柄在拆分后立即释放，先于任何写出。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) error {
	if err := sanity(comp); err != nil {
		return fmt.Errorf("sanity: %w", err)
	}
	start := time.Now()

	lines, err := readAll(ctx, comp, set, logger)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	ttimer := logger.StartWithKV("transformer", "transform", map[string]string{"lines": fmt.Sprintf("%d", len(lines))})
	out, err := comp.Transformer.Transform(ctx, lines)
	if err != nil {
		logError(logger, "transformer", "transform failed", err)
		return fmt.Errorf("transformer transform: %w", err)
	}
	if err := contract.ValidateMapped(lines, out); err != nil {
		logError(logger, "transformer", "invariant check failed", err)
		return fmt.Errorf("transformer check: %w", err)
	}
	ttimer.Finish("transform", int64(len(out)))

	if err := ctx.Err(); err != nil {
		return err
	}
	atimer := logger.Start("assembler", "assemble")
	body, err := comp.Assembler.Assemble(ctx, out)
	if err != nil {
		logError(logger, "assembler", "assemble failed", err)
		return fmt.Errorf("assembler assemble: %w", err)
	}
	atimer.Finish("assemble", int64(len(out)))

	wtimer := logger.StartWithKV("writer", "write", map[string]string{"target": target(set.Output)})
	if err := comp.Writer.Write(ctx, set.Output, body); err != nil {
		logError(logger, "writer", "write failed", err)
		return fmt.Errorf("writer write: %w", err)
	}
	wtimer.Finish("write", int64(len(out)))

	logger.InfoFinish("pipeline", "run", start, int64(len(out)))
	return nil
}

// readAll 打开输入、拆分为行并关闭句柄；关闭失败同样视为读取失败。
func readAll(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (lines []contract.Line, err error) {
	rtimer := logger.StartWithKV("reader", "open", map[string]string{"source": target(set.Input)})
	rc, err := comp.Reader.Open(ctx, set.Input)
	if err != nil {
		logError(logger, "reader", "open failed", err)
		return nil, fmt.Errorf("reader open: %w", err)
	}
	rtimer.Finish("open", 0)
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			logError(logger, "reader", "close failed", cerr)
			lines, err = nil, fmt.Errorf("reader close: %w", cerr)
		}
	}()

	stimer := logger.Start("splitter", "split")
	lines, err = comp.Splitter.Split(ctx, rc)
	if err != nil {
		logError(logger, "splitter", "split failed", err)
		return nil, fmt.Errorf("splitter split: %w", err)
	}
	stimer.Finish("split", int64(len(lines)))
	return lines, nil
}

func logError(logger *diag.Logger, comp, msg string, err error) {
	logger.ErrorWithKV(comp, string(diag.Classify(err)), msg, nil, map[string]string{"err": err.Error()})
}

func target(name string) string {
	if contract.IsStdio(name) {
		return contract.Stdio
	}
	return name
}

func sanity(comp Components) error {
	switch {
	case comp.Reader == nil:
		return errors.New("reader is nil")
	case comp.Splitter == nil:
		return errors.New("splitter is nil")
	case comp.Transformer == nil:
		return errors.New("transformer is nil")
	case comp.Assembler == nil:
		return errors.New("assembler is nil")
	case comp.Writer == nil:
		return errors.New("writer is nil")
	}
	return nil
}
