package errors

import (
	"fmt"
	"testing"
)

func TestIsCodeThroughWrapping(t *testing.T) {
	base := New(CodeNotFound, "Listing not found")
	wrapped := fmt.Errorf("handler: %w", base)

	if !IsCode(wrapped, CodeNotFound) {
		t.Fatal("expected not_found code through wrapping")
	}
	if IsCode(wrapped, CodeForbidden) {
		t.Fatal("unexpected forbidden code")
	}
	if IsCode(nil, CodeNotFound) {
		t.Fatal("nil error should have no code")
	}
}

func TestErrorFormat(t *testing.T) {
	e := Wrap(fmt.Errorf("boom"), CodeInternal, "insert listing failed")
	want := "internal: insert listing failed: boom"
	if e.Error() != want {
		t.Fatalf("expected %q, got %q", want, e.Error())
	}
}
