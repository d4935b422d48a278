package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTaskPatch_Empty(t *testing.T) {
	if !(TaskPatch{}).Empty() {
		t.Fatalf("zero patch must be empty")
	}
	done := true
	if (TaskPatch{Completed: &done}).Empty() {
		t.Fatalf("patch with completed must not be empty")
	}
}

func TestValidationError_IsErrValidation(t *testing.T) {
	err := fmt.Errorf("create task: %w", Required("title"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Msg != "title is required" {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
