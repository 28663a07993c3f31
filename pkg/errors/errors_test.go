package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidCategory, "tool %s: bad category", "wrk")

	if err.Code != ErrCodeInvalidCategory {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidCategory)
	}
	if err.Message != "tool wrk: bad category" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "INVALID_CATEGORY: tool wrk: bad category"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetching %s", "user/repo")

	if !errors.Is(err, cause) {
		t.Error("Wrap() should preserve the cause in the chain")
	}
	if GetCode(err) != ErrCodeNetwork {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), ErrCodeNetwork)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeRepoNotFound, "no such repo")
	wrapped := fmt.Errorf("enrich: %w", err)

	if !Is(wrapped, ErrCodeRepoNotFound) {
		t.Error("Is() should match through wrapping")
	}
	if Is(wrapped, ErrCodeNetwork) {
		t.Error("Is() matched the wrong code")
	}
	if Is(errors.New("plain"), ErrCodeNetwork) {
		t.Error("Is() should not match plain errors")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeFileNotFound, "catalog not found at data.json")
	if got := UserMessage(err); got != "catalog not found at data.json" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := errors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	rl := &RateLimitedError{RetryAfter: 60}
	if rl.Error() != "rate limited: retry after 60 seconds" {
		t.Errorf("Error() = %q", rl.Error())
	}
	if rl.Code() != ErrCodeRateLimited {
		t.Errorf("Code() = %q", rl.Code())
	}

	wrapped := fmt.Errorf("github: %w", rl)
	got, ok := AsRateLimited(wrapped)
	if !ok {
		t.Fatal("AsRateLimited() should detect wrapped rate-limit errors")
	}
	if got.RetryAfter != 60 {
		t.Errorf("RetryAfter = %d, want 60", got.RetryAfter)
	}

	if _, ok := AsRateLimited(errors.New("plain")); ok {
		t.Error("AsRateLimited() matched a plain error")
	}
}
