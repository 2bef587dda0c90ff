package contract

import "fmt"

// 校验库函数（纯函数，无 I/O）：
// - ValidateOrder:  Index 严格升序
// - ValidateMapped: 逐行映射前后等长且 Index 一一对应
func ValidateOrder(lines []Line) error {
	for i := 1; i < len(lines); i++ {
		if lines[i].Index <= lines[i-1].Index {
			return fmt.Errorf("%w: index %d after %d", ErrSeqInvalid, lines[i].Index, lines[i-1].Index)
		}
	}
	return nil
}

func ValidateMapped(in, out []Line) error {
	if len(in) != len(out) {
		return fmt.Errorf("%w: line count %d -> %d", ErrInvariantViolation, len(in), len(out))
	}
	for i := range in {
		if in[i].Index != out[i].Index {
			return fmt.Errorf("%w: line %d mapped to index %d", ErrInvariantViolation, in[i].Index, out[i].Index)
		}
	}
	return nil
}
