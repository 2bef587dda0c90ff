package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"smat/internal/diag"
)

// Defaults 返回带有安全默认值的 Config 雏形。
// 注意：Transform 不设默认（必须由配置文件或 CLI 提供）。
func Defaults() Config {
	return Config{
		Components: Components{
			Reader:    "fs",
			Splitter:  "lines",
			Assembler: "linear",
			Writer:    "fs",
		},
	}
}

// Load 从文件解析 Config，格式按扩展名选择：
// .yaml/.yml/.json 使用 YAML 解码（JSON 为其子集），.toml 使用 TOML 解码。
// 未知键一律报错；错误均包裹 diag.ErrConfig。
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", diag.ErrConfig, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		err = decodeYAML(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		err = fmt.Errorf("unsupported config format %q (want .yaml, .yml, .toml or .json)", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", diag.ErrConfig, path, err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
	return dec.Decode(cfg)
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	// options.* 子树由工厂严格解码，此处只拒绝其余未知键。
	var unknown []string
	for _, k := range md.Undecoded() {
		if len(k) > 0 && k[0] == "options" {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 字符串空值不覆盖；Options 非 nil 即整体替换，不做深度合并。
func Merge(base, over Config) Config {
	out := base

	// 变换值（空不覆盖）
	if over.Transform.DropPrefix != "" {
		out.Transform.DropPrefix = over.Transform.DropPrefix
	}
	if over.Transform.DropSuffix != "" {
		out.Transform.DropSuffix = over.Transform.DropSuffix
	}
	if over.Transform.AddPrefix != "" {
		out.Transform.AddPrefix = over.Transform.AddPrefix
	}
	if over.Transform.AddSuffix != "" {
		out.Transform.AddSuffix = over.Transform.AddSuffix
	}

	if strings.TrimSpace(over.Input) != "" {
		out.Input = strings.TrimSpace(over.Input)
	}
	if strings.TrimSpace(over.Output) != "" {
		out.Output = strings.TrimSpace(over.Output)
	}

	// Logging
	if strings.TrimSpace(over.Logging.Level) != "" {
		out.Logging.Level = strings.ToLower(strings.TrimSpace(over.Logging.Level))
	}
	if strings.TrimSpace(over.Logging.Dir) != "" {
		out.Logging.Dir = strings.TrimSpace(over.Logging.Dir)
	}

	// 组件名（空不覆盖）
	if over.Components.Reader != "" {
		out.Components.Reader = over.Components.Reader
	}
	if over.Components.Splitter != "" {
		out.Components.Splitter = over.Components.Splitter
	}
	if over.Components.Assembler != "" {
		out.Components.Assembler = over.Components.Assembler
	}
	if over.Components.Writer != "" {
		out.Components.Writer = over.Components.Writer
	}

	// Options（完整替换对应键）
	if over.Options.Reader != nil {
		out.Options.Reader = over.Options.Reader
	}
	if over.Options.Splitter != nil {
		out.Options.Splitter = over.Options.Splitter
	}
	if over.Options.Assembler != nil {
		out.Options.Assembler = over.Options.Assembler
	}
	if over.Options.Writer != nil {
		out.Options.Writer = over.Options.Writer
	}
	return out
}
