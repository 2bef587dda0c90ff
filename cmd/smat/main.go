package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cfgpkg "smat/internal/config"
	"smat/internal/diag"
	"smat/internal/pipeline"
	"smat/internal/transform"
	"smat/pkg/contract"
	"smat/pkg/registry"
)

var (
	pipelineRun = pipeline.Run
	version     = "dev"
)

// 退出码：0 成功；1 运行期失败（输入/输出 I/O）；2 用法错误；3 配置错误（配置文件、正则、组件）。
const (
	exitOK      = 0
	exitRuntime = 1
	exitUsage   = 2
	exitConfig  = 3
)

const longHelp = `smat 对输入的每一行依次执行：
  1. --drop-prefix/-dp  删除行首匹配（正则 regex，自动锚定到行首）
  2. --drop-suffix/-ds  删除行尾匹配（正则 regex，自动锚定到行尾）
  3. --add-prefix/-ap   在行首添加文本（字面量 literal，原样添加）
  4. --add-suffix/-as   在行尾添加文本（字面量 literal，原样添加）

注意：drop 的取值是正则表达式（RE2 语法，"." "*" "(" 等为元字符，需要时自行转义）；
add 的取值是普通文本，从不按正则解释。至少需要提供其中一项。

默认从标准输入读取、写到标准输出；"-" 同样表示标准输入/输出。`

// usageError: 旗标/参数层面的错误，退出码 2，并打印用法。
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitError: 已分类的失败，携带退出码与 stderr 提示前缀。
type exitError struct {
	code   int
	prefix string
	err    error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// cli 汇总旗标取值。
type cli struct {
	tf       transform.Config
	input    string
	output   string
	config   string
	logLevel string
	logDir   string
	explain  bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run 解析参数并执行一次变换，返回进程退出码。
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(c)
	root.SetArgs(normalizeArgs(args))
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.code == exitUsage {
			fmt.Fprintf(stderr, "用法错误: %v\n\n%s", ee.err, root.UsageString())
			return exitUsage
		}
		fmt.Fprintf(stderr, "%s: %v\n", ee.prefix, ee.err)
		return ee.code
	}
	// 其余均来自旗标/参数解析
	fmt.Fprintf(stderr, "用法错误: %v\n\n%s", err, root.UsageString())
	return exitUsage
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "smat [flags]",
		Short:         "按行删除正则前缀/后缀并添加字面量前缀/后缀",
		Long:          longHelp,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.execute(cmd.Context())
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetVersionTemplate("smat {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	f := root.Flags()
	f.SortFlags = false
	f.StringVar(&c.tf.DropPrefix, "drop-prefix", "", "正则（regex）：删除行首的匹配，可写作 -dp")
	f.StringVar(&c.tf.DropSuffix, "drop-suffix", "", "正则（regex）：删除行尾的匹配，可写作 -ds")
	f.StringVar(&c.tf.AddPrefix, "add-prefix", "", "字面量（literal）：添加到行首的文本，可写作 -ap")
	f.StringVar(&c.tf.AddSuffix, "add-suffix", "", "字面量（literal）：添加到行尾的文本，可写作 -as")
	f.StringVarP(&c.input, "input", "i", "", "输入文件（缺省或 \"-\" 为标准输入）")
	f.StringVarP(&c.output, "output", "o", "", "输出文件（缺省或 \"-\" 为标准输出；已存在则覆盖）")
	f.StringVarP(&c.config, "config", "c", "", "配置文件（.yaml/.yml/.toml/.json）；命令行旗标优先")
	f.StringVar(&c.logLevel, "log-level", "", "结构化日志级别 debug|info|warn|error（写 stderr）")
	f.StringVar(&c.logDir, "log-dir", "", "日志目录（轮转文件，需同时设置日志级别）")
	f.BoolVar(&c.explain, "explain", false, "仅列出四个变换步骤及实际生效的正则，不读写任何数据")
	f.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	return root
}

// execute: 配置合并（默认 < 配置文件 < CLI）→ 装配 → 运行流水线。
func (c *cli) execute(ctx context.Context) error {
	start := time.Now()
	corrID := uuid.NewString()

	cfg := cfgpkg.Defaults()
	if strings.TrimSpace(c.config) != "" {
		base, err := cfgpkg.Load(c.config)
		if err != nil {
			return &exitError{code: exitConfig, prefix: "配置解析失败", err: err}
		}
		cfg = cfgpkg.Merge(cfg, base)
	}
	cfg = cfgpkg.Merge(cfg, cfgpkg.Config{
		Transform: c.tf,
		Input:     c.input,
		Output:    c.output,
		Logging:   cfgpkg.Logging{Level: c.logLevel, Dir: c.logDir},
	})

	// 无动作属于用法错误，先于配置校验报告
	if cfg.Transform.Empty() {
		return &exitError{code: exitUsage, err: contract.ErrNoAction}
	}
	if err := cfgpkg.Validate(cfg); err != nil {
		return &exitError{code: exitConfig, prefix: "配置校验失败", err: err}
	}

	logger, closeLog := newLogger(corrID, cfg.Logging, c.stderr)
	defer closeLog()

	if c.explain {
		tr, err := transform.Compile(cfg.Transform)
		if err != nil {
			logger.Error("config", string(diag.Classify(err)), "first error", &start)
			return classify(err, "配置错误")
		}
		renderExplain(c.stdout, tr)
		return nil
	}

	comp, set, err := cfgpkg.Assemble(cfg, registry.Streams{In: c.stdin, Out: c.stdout})
	if err != nil {
		logger.Error("config", string(diag.Classify(err)), "first error", &start)
		return classify(err, "装配失败")
	}
	logger.DebugStart("config", "effective", cfgpkg.Effective(cfg))

	if err := pipelineRun(ctx, comp, set, logger); err != nil {
		logger.Error("pipeline", string(diag.Classify(err)), "first error", &start)
		return &exitError{code: exitRuntime, prefix: "运行失败", err: err}
	}
	return nil
}

// classify 将装配期错误映射到退出码：无动作→2，其余→3。
func classify(err error, prefix string) error {
	if diag.Classify(err) == diag.CodeUsage {
		return &exitError{code: exitUsage, err: err}
	}
	return &exitError{code: exitConfig, prefix: prefix, err: err}
}

// newLogger: 设置目录→轮转文件；仅设置级别→stderr；都未设置→不记录（nil Logger）。
func newLogger(corrID string, lg cfgpkg.Logging, stderr io.Writer) (*diag.Logger, func()) {
	switch {
	case strings.TrimSpace(lg.Dir) != "":
		rf := diag.NewRotatingFile(lg.Dir, 0)
		return diag.NewLogger(corrID, lg.Level, rf), func() { _ = rf.Close() }
	case strings.TrimSpace(lg.Level) != "":
		return diag.NewLogger(corrID, lg.Level, diag.WriterSink(stderr)), func() {}
	default:
		return nil, func() {}
	}
}
