package registry

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"smat/pkg/contract"
	linear "smat/plugins/assembler/linear"
	rfs "smat/plugins/reader/filesystem"
	slines "smat/plugins/splitter/lines"
	wfs "smat/plugins/writer/filesystem"
)

// Streams 为 "-" 输入/输出注入的标准流；nil 表示使用进程的 os.Stdin/os.Stdout。
type Streams struct {
	In  io.Reader
	Out io.Writer
}

var validate = validator.New()

// strictDecode: 将配置文件解出的通用值重新编码为 YAML，再严格解码到 v，拒绝未知字段；
// 随后按 validate 标签校验。raw 为 nil 时保持零值（默认选项）。
func strictDecode(raw any, v any) error {
	if raw == nil {
		return nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(b, v, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("decode options: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validate options: %w", err)
	}
	return nil
}

// NewReader 工厂签名：接收原样 Options 子树与注入的标准流。
type NewReader func(raw any, st Streams) (contract.Reader, error)

// NewSplitter 工厂签名。
type NewSplitter func(raw any, st Streams) (contract.Splitter, error)

// NewAssembler 工厂签名。
type NewAssembler func(raw any, st Streams) (contract.Assembler, error)

// NewWriter 工厂签名。
type NewWriter func(raw any, st Streams) (contract.Writer, error)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 文件系统/STDIN Reader
	"fs": func(raw any, st Streams) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictDecode(raw, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts, st.In), nil
	},
}

// Splitter 工厂注册表。
var Splitter = map[string]NewSplitter{
	// lines: 按 '\n' 拆分，去除行尾 '\r'
	"lines": func(raw any, _ Streams) (contract.Splitter, error) {
		var opts slines.Options
		if err := strictDecode(raw, &opts); err != nil {
			return nil, err
		}
		return slines.New(&opts), nil
	},
}

// Assembler 工厂注册表。
var Assembler = map[string]NewAssembler{
	// linear: 每行后接行终止符，按 Index 顺序拼接
	"linear": func(raw any, _ Streams) (contract.Assembler, error) {
		var opts linear.Options
		if err := strictDecode(raw, &opts); err != nil {
			return nil, err
		}
		return linear.New(&opts)
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 文件系统 Writer（覆盖写/原子替换可配置）
	"fs": func(raw any, st Streams) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictDecode(raw, &opts); err != nil {
			return nil, err
		}
		return wfs.New(&opts, st.Out)
	},
}
