package errors

import (
	"errors"
	"fmt"
	"testing"
)

var errSample = New(KindConflict, 40001, "示例冲突")

func TestWithMessage_KeepsSentinel(t *testing.T) {
	err := errSample.WithMessage("更具体的冲突描述")

	if !errors.Is(err, errSample) {
		t.Error("派生错误应能通过 errors.Is 匹配哨兵")
	}
	if err.Error() != "更具体的冲突描述" {
		t.Errorf("期望派生消息，实际=%s", err.Error())
	}
	if err.Code != 40001 {
		t.Errorf("期望业务码沿用 40001，实际=%d", err.Code)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("外层: %w", errSample)
	if KindOf(wrapped) != KindConflict {
		t.Errorf("期望 KindConflict，实际=%d", KindOf(wrapped))
	}
	if KindOf(errors.New("db down")) != KindInternal {
		t.Error("普通错误应归为 KindInternal")
	}
}

func TestUnwrap_NilParent(t *testing.T) {
	if errSample.Unwrap() != nil {
		t.Error("哨兵错误的 Unwrap 应返回 nil")
	}
}
