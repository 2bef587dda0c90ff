package config

import "smat/internal/transform"

// Config: 运行期只读配置（一次解析，运行期不变）。
// 文件键使用 snake_case；未知键在解析期失败。
type Config struct {
	// Transform: 四个变换值（drop_* 为正则，add_* 为字面量）。
	Transform transform.Config `json:"transform" yaml:"transform" toml:"transform"`

	// Input/Output: 文件路径；空或 "-" 表示标准输入/输出。
	Input  string `json:"input" yaml:"input" toml:"input"`
	Output string `json:"output" yaml:"output" toml:"output"`

	Logging Logging `json:"logging" yaml:"logging" toml:"logging"`

	// 组件名选择（空则使用默认名）。
	Components Components `json:"components" yaml:"components" toml:"components"`

	// 各组件 Options 子树，原样传入工厂（工厂内严格解码）。
	Options Options `json:"options" yaml:"options" toml:"options"`
}

// Logging: 日志等级与可选落盘目录。
// Level 为空时不输出日志；Dir 非空时写入轮转文件而非 stderr。
type Logging struct {
	Level string `json:"level" yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `json:"dir" yaml:"dir" toml:"dir"`
}

// Components: 组件名选择（注册表中的实现名）。
type Components struct {
	Reader    string `json:"reader" yaml:"reader" toml:"reader"`
	Splitter  string `json:"splitter" yaml:"splitter" toml:"splitter"`
	Assembler string `json:"assembler" yaml:"assembler" toml:"assembler"`
	Writer    string `json:"writer" yaml:"writer" toml:"writer"`
}

// Options: 各组件的原样 Options（配置文件解出的通用值）。
type Options struct {
	Reader    any `json:"reader" yaml:"reader" toml:"reader"`
	Splitter  any `json:"splitter" yaml:"splitter" toml:"splitter"`
	Assembler any `json:"assembler" yaml:"assembler" toml:"assembler"`
	Writer    any `json:"writer" yaml:"writer" toml:"writer"`
}
