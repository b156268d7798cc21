package results

import (
	"errors"
	"testing"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[int, error](42)
	if !ok.IsSuccess() || ok.IsFailure() {
		t.Errorf("success result: IsSuccess=%v IsFailure=%v", ok.IsSuccess(), ok.IsFailure())
	}
	if *ok.Success != 42 {
		t.Errorf("Success = %d, want 42", *ok.Success)
	}

	errBoom := errors.New("boom")
	failed := FailureResult[int, error](errBoom)
	if failed.IsSuccess() || !failed.IsFailure() {
		t.Errorf("failure result: IsSuccess=%v IsFailure=%v", failed.IsSuccess(), failed.IsFailure())
	}
	if !errors.Is(*failed.Failure, errBoom) {
		t.Errorf("Failure = %v, want %v", *failed.Failure, errBoom)
	}

	var empty OperationResult[int, error]
	if empty.IsSuccess() || empty.IsFailure() {
		t.Error("zero result should be neither success nor failure")
	}
}
