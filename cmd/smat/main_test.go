package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smat/internal/diag"
	"smat/internal/pipeline"
)

// failReader: 任何读取都视为测试失败（验证未发生 I/O）。
type failReader struct{ t *testing.T }

func (r failReader) Read([]byte) (int, error) {
	r.t.Errorf("stdin must not be read")
	return 0, errors.New("unexpected read")
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runWith(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errb)
	return result{code: code, stdout: out.String(), stderr: errb.String()}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		in   string
		args []string
		want string
	}{
		{"drop prefix", "foo_1\nfoo_2\n", []string{"-dp", "foo_"}, "1\n2\n"},
		{"drop suffix", "a.txt\nb.txt\n", []string{"-ds", `\.txt`}, "a\nb\n"},
		{"add both", "x\n", []string{"-ap", ">> ", "-as", " <<"}, ">> x <<\n"},
		{"combined", "foo_1.txt\n", []string{"-dp", "foo_", "-ds", `\.txt`, "-ap", "item-"}, "item-1\n"},
		{"no match", "hello\n", []string{"-dp", "xyz"}, "hello\n"},
		{"long flags", "foo_1\n", []string{"--drop-prefix=foo_", "--add-suffix", "!"}, "1!\n"},
		{"regex metachar", "a1b\nab\n", []string{"-dp", `a\d`}, "b\nab\n"},
		{"dot is regex", "xyz\n", []string{"-dp", "."}, "yz\n"},
		{"literal add", "x\n", []string{"-ap", ".*"}, ".*x\n"},
		{"crlf input", "a;\r\nb;\r\n", []string{"-ds", ";"}, "a\nb\n"},
		{"no trailing newline", "a\nb", []string{"-as", "."}, "a.\nb.\n"},
		{"empty input", "", []string{"-ap", "x"}, ""},
		{"empty line kept", "a\n\nb\n", []string{"-ap", "-"}, "-a\n-\n-b\n"},
		{"alternation anchored", "ab\nba\n", []string{"-dp", "a|b"}, "b\na\n"},
		{"dash value literal", "x\n", []string{"-ap", "-dp"}, "-dpx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runWith(t, tt.in, tt.args...)
			require.Equal(t, exitOK, res.code, res.stderr)
			assert.Equal(t, tt.want, res.stdout)
			assert.Empty(t, res.stderr)
		})
	}
}

// 无任何变换选项：用法错误，退出码 2，不读取输入
func TestNoActionUsage(t *testing.T) {
	called := false
	orig := pipelineRun
	pipelineRun = func(ctx context.Context, comp pipeline.Components, set pipeline.Settings, logger *diag.Logger) error {
		called = true
		return nil
	}
	defer func() { pipelineRun = orig }()

	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", out}, failReader{t}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.False(t, called)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "no action")
	assert.Contains(t, stderr.String(), "--drop-prefix")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "不得创建输出文件")
}

func TestUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":    {"--bogus", "-dp", "x"},
		"unknown short":   {"-z"},
		"positional":      {"-dp", "x", "file.txt"},
		"missing value":   {"-dp"},
		"explain no step": {"--explain"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(args, failReader{t}, &stdout, &stderr)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), "用法错误")
			assert.Empty(t, stdout.String())
		})
	}
}

func TestInvalidPattern(t *testing.T) {
	for _, args := range [][]string{{"-dp", "("}, {"-ds", "[a-"}, {"-ds", "x", "--explain", "-dp", "*"}} {
		var stdout, stderr bytes.Buffer
		code := run(args, failReader{t}, &stdout, &stderr)
		assert.Equal(t, exitConfig, code, args)
		assert.Contains(t, stderr.String(), "invalid pattern")
		assert.Empty(t, stdout.String())
	}
}

func TestFileIO(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "foo_1\nfoo_2\n")
	out := writeFile(t, dir, "out.txt", "previous content that is much longer\nand has more lines\n")

	res := runWith(t, "", "-i", in, "-o", out, "-dp", "foo_", "-ap", "#")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "#1\n#2\n", string(b), "输出文件应被截断覆盖")
}

func TestStdioDash(t *testing.T) {
	res := runWith(t, "a\n", "-i", "-", "-o", "-", "-as", "!")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "a!\n", res.stdout)
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	res := runWith(t, "", "-i", filepath.Join(dir, "nope.txt"), "-o", out, "-ap", "x")
	assert.Equal(t, exitRuntime, res.code)
	assert.Contains(t, res.stderr, "运行失败")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "读取失败时不写出")
}

func TestOutputDirMissing(t *testing.T) {
	dir := t.TempDir()
	res := runWith(t, "a\n", "-o", filepath.Join(dir, "no", "such", "out.txt"), "-ap", "x")
	assert.Equal(t, exitRuntime, res.code)
	assert.Contains(t, res.stderr, "运行失败")
}

func TestExplain(t *testing.T) {
	res := runWith(t, "", "--explain", "-dp", `foo|bar`, "-as", ";")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "drop-prefix")
	assert.Contains(t, res.stdout, "^(?:foo|bar)")
	assert.Contains(t, res.stdout, "literal")
	assert.Contains(t, res.stdout, "(off)")
}

func TestHelpAndVersion(t *testing.T) {
	res := runWith(t, "", "--help")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "regex")
	assert.Contains(t, res.stdout, "literal")
	assert.Contains(t, res.stdout, "--drop-prefix")

	res = runWith(t, "", "--version")
	assert.Equal(t, exitOK, res.code)
	assert.Equal(t, "smat dev\n", res.stdout)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "foo_1.txt\n")
	cases := map[string]string{
		"c.yaml": "transform:\n  drop_prefix: foo_\n  drop_suffix: '\\.txt'\ninput: " + in + "\n",
		"c.toml": "input = '" + in + "'\n[transform]\ndrop_prefix = 'foo_'\ndrop_suffix = '\\.txt'\n",
		"c.json": `{"transform": {"drop_prefix": "foo_", "drop_suffix": "\\.txt"}, "input": "` + filepath.ToSlash(in) + `"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := writeFile(t, dir, name, body)
			res := runWith(t, "", "-c", cfg)
			require.Equal(t, exitOK, res.code, res.stderr)
			assert.Equal(t, "1\n", res.stdout)

			// CLI 覆盖配置文件
			res = runWith(t, "", "--config", cfg, "-ap", "item-", "-ds", `\.txt$|x`)
			require.Equal(t, exitOK, res.code, res.stderr)
			assert.Equal(t, "item-1\n", res.stdout)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string][]string{
		"missing file":   {"-c", filepath.Join(dir, "none.yaml"), "-ap", "x"},
		"unknown key":    {"-c", writeFile(t, dir, "u.yaml", "bogus: 1\n"), "-ap", "x"},
		"bad component":  {"-c", writeFile(t, dir, "b.yaml", "components:\n  writer: s3\n"), "-ap", "x"},
		"bad option":     {"-c", writeFile(t, dir, "o.yaml", "options:\n  assembler:\n    line_ending: cr\n"), "-ap", "x"},
		"bad log level":  {"--log-level", "trace", "-ap", "x"},
		"unknown format": {"-c", writeFile(t, dir, "c.ini", "x=1"), "-ap", "x"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(args, failReader{t}, &stdout, &stderr)
			assert.Equal(t, exitConfig, code, stderr.String())
			assert.NotEmpty(t, stderr.String())
		})
	}
}

// 配置文件中的组件选项生效
func TestConfigOptions(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "c.yaml", "options:\n  assembler:\n    line_ending: crlf\n  splitter:\n    keep_cr: true\n")
	res := runWith(t, "a\r\nb\n", "-c", cfg, "-as", ";")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "a\r;\r\nb;\r\n", res.stdout)
}

// 日志写 stderr，stdout 只包含数据
func TestLogging(t *testing.T) {
	res := runWith(t, "a\n", "--log-level", "debug", "-ap", "x")
	require.Equal(t, exitOK, res.code)
	assert.Equal(t, "xa\n", res.stdout)
	assert.Contains(t, res.stderr, `"comp":"pipeline"`)
	assert.Contains(t, res.stderr, `"msg":"effective"`)
	assert.Contains(t, res.stderr, `"corr_id":"`)

	dir := t.TempDir()
	res = runWith(t, "a\n", "--log-level", "info", "--log-dir", dir, "-ap", "x")
	require.Equal(t, exitOK, res.code)
	assert.Empty(t, res.stderr)
	b, err := os.ReadFile(filepath.Join(dir, "smat-current.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"comp":"writer"`)
}

// 运行期失败经 pipelineRun 返回：退出码 1
func TestPipelineFailure(t *testing.T) {
	orig := pipelineRun
	pipelineRun = func(ctx context.Context, comp pipeline.Components, set pipeline.Settings, logger *diag.Logger) error {
		return errors.New("disk on fire")
	}
	defer func() { pipelineRun = orig }()

	res := runWith(t, "", "-ap", "x")
	assert.Equal(t, exitRuntime, res.code)
	assert.Contains(t, res.stderr, "disk on fire")
}
