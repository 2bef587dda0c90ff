package linear

import (
	"context"
	"errors"
	"io"
	"testing"

	"smat/pkg/contract"
)

// TestAssembleSuccess 测试正常线性拼接：每行之后一个换行
func TestAssembleSuccess(t *testing.T) {
	a, err := New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r, err := a.Assemble(context.Background(), contract.FromTexts([]string{"hello", "", "world"}))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	b, _ := io.ReadAll(r)
	if string(b) != "hello\n\nworld\n" {
		t.Fatalf("unexpected output %q", string(b))
	}
}

// TestAssembleCRLF 测试 crlf 终止符
func TestAssembleCRLF(t *testing.T) {
	a, err := New(&Options{LineEnding: "crlf"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r, _ := a.Assemble(context.Background(), contract.FromTexts([]string{"a", "b"}))
	b, _ := io.ReadAll(r)
	if string(b) != "a\r\nb\r\n" {
		t.Fatalf("unexpected output %q", string(b))
	}
}

// TestNewBadLineEnding 非法终止符
func TestNewBadLineEnding(t *testing.T) {
	if _, err := New(&Options{LineEnding: "cr"}); !errors.Is(err, contract.ErrInvalidInput) {
		t.Fatalf("expect ErrInvalidInput, got %v", err)
	}
}

// TestAssembleSeqInvalid 测试索引逆序或重复
func TestAssembleSeqInvalid(t *testing.T) {
	a, _ := New(nil)
	lines := []contract.Line{{Index: 1, Text: "a"}, {Index: 1, Text: "b"}}
	if _, err := a.Assemble(context.Background(), lines); !errors.Is(err, contract.ErrSeqInvalid) {
		t.Fatalf("expect ErrSeqInvalid, got %v", err)
	}
}

// TestAssembleEmpty 测试空输入
func TestAssembleEmpty(t *testing.T) {
	a, _ := New(nil)
	r, err := a.Assemble(context.Background(), nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	data, _ := io.ReadAll(r)
	if len(data) != 0 {
		t.Fatalf("expect empty, got %q", string(data))
	}
}

// TestAssembleCanceled 已取消的 ctx
func TestAssembleCanceled(t *testing.T) {
	a, _ := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Assemble(ctx, contract.FromTexts([]string{"a"})); !errors.Is(err, context.Canceled) {
		t.Fatalf("expect canceled, got %v", err)
	}
}
