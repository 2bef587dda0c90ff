package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"smat/internal/diag"
	"smat/internal/pipeline"
	"smat/internal/transform"
	"smat/pkg/registry"
)

var validate = validator.New()

// Validate 对最小必要边界做静态校验（结构标签 + 注册表名称）。
// 变换值的校验（至少一项、正则可编译）由 transform.Compile 负责。
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", diag.ErrConfig, err)
	}
	if strings.TrimSpace(cfg.Logging.Dir) != "" && cfg.Logging.Level == "" {
		return fmt.Errorf("%w: logging.dir requires logging.level", diag.ErrConfig)
	}
	d := Defaults()
	if name := effName(cfg.Components.Reader, d.Components.Reader); registry.Reader[name] == nil {
		return fmt.Errorf("%w: reader %q not registered", diag.ErrConfig, name)
	}
	if name := effName(cfg.Components.Splitter, d.Components.Splitter); registry.Splitter[name] == nil {
		return fmt.Errorf("%w: splitter %q not registered", diag.ErrConfig, name)
	}
	if name := effName(cfg.Components.Assembler, d.Components.Assembler); registry.Assembler[name] == nil {
		return fmt.Errorf("%w: assembler %q not registered", diag.ErrConfig, name)
	}
	if name := effName(cfg.Components.Writer, d.Components.Writer); registry.Writer[name] == nil {
		return fmt.Errorf("%w: writer %q not registered", diag.ErrConfig, name)
	}
	return nil
}

// Assemble 构造 Components 与 Settings。
// 先编译变换（无动作/非法正则在任何 I/O 之前失败），再按名称构造各组件；
// 严格 Options 解析在 registry（工厂）层进行，此处只传原样子树。
func Assemble(cfg Config, st registry.Streams) (pipeline.Components, pipeline.Settings, error) {
	tr, err := transform.Compile(cfg.Transform)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}

	// 有效名称
	d := Defaults()
	rn := effName(cfg.Components.Reader, d.Components.Reader)
	sn := effName(cfg.Components.Splitter, d.Components.Splitter)
	an := effName(cfg.Components.Assembler, d.Components.Assembler)
	wn := effName(cfg.Components.Writer, d.Components.Writer)

	// 构造实例
	r, err := registry.Reader[rn](cfg.Options.Reader, st)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("%w: reader %q: %w", diag.ErrConfig, rn, err)
	}
	s, err := registry.Splitter[sn](cfg.Options.Splitter, st)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("%w: splitter %q: %w", diag.ErrConfig, sn, err)
	}
	asm, err := registry.Assembler[an](cfg.Options.Assembler, st)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("%w: assembler %q: %w", diag.ErrConfig, an, err)
	}
	w, err := registry.Writer[wn](cfg.Options.Writer, st)
	if err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("%w: writer %q: %w", diag.ErrConfig, wn, err)
	}

	comp := pipeline.Components{
		Reader:      r,
		Splitter:    s,
		Transformer: tr,
		Assembler:   asm,
		Writer:      w,
	}
	set := pipeline.Settings{
		Input:  cfg.Input,
		Output: cfg.Output,
	}
	return comp, set, nil
}

func effName(got, def string) string {
	if got == "" {
		return def
	}
	return got
}
