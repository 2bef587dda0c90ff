package config

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"

	"smat/pkg/contract"
)

// Effective 将合并后的配置摊平为日志用的键值（debug 级别输出）。
// Options 子树以单行 YAML 表示；未设置的值不出现。
func Effective(cfg Config) map[string]string {
	d := Defaults()
	kv := map[string]string{
		"components.reader":    effName(cfg.Components.Reader, d.Components.Reader),
		"components.splitter":  effName(cfg.Components.Splitter, d.Components.Splitter),
		"components.assembler": effName(cfg.Components.Assembler, d.Components.Assembler),
		"components.writer":    effName(cfg.Components.Writer, d.Components.Writer),
		"input":                stdioName(cfg.Input),
		"output":               stdioName(cfg.Output),
	}
	put := func(k, v string) {
		if v != "" {
			kv[k] = v
		}
	}
	put("transform.drop_prefix", cfg.Transform.DropPrefix)
	put("transform.drop_suffix", cfg.Transform.DropSuffix)
	if cfg.Transform.AddPrefix != "" {
		kv["transform.add_prefix"] = fmt.Sprintf("%q", cfg.Transform.AddPrefix)
	}
	if cfg.Transform.AddSuffix != "" {
		kv["transform.add_suffix"] = fmt.Sprintf("%q", cfg.Transform.AddSuffix)
	}
	put("logging.level", cfg.Logging.Level)
	put("logging.dir", cfg.Logging.Dir)
	put("options.reader", flowYAML(cfg.Options.Reader))
	put("options.splitter", flowYAML(cfg.Options.Splitter))
	put("options.assembler", flowYAML(cfg.Options.Assembler))
	put("options.writer", flowYAML(cfg.Options.Writer))
	return kv
}

func flowYAML(v any) string {
	if v == nil {
		return ""
	}
	b, err := yaml.MarshalWithOptions(v, yaml.Flow(true))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes.TrimSpace(b))
}

func stdioName(s string) string {
	if contract.IsStdio(s) {
		return contract.Stdio
	}
	return s
}
