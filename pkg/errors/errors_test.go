package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidDiscount, http.StatusBadRequest},
		{CodeInvalidPayment, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeIdempotency, http.StatusConflict},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	t.Parallel()

	root := errors.New("boom")
	err := Wrap(CodeDependency, root, "submit order")

	if !errors.Is(err, root) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through the chain, got %v", typed)
	}
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	err := New(CodeInvalidDiscount, "percentage above 100")
	if !HasCode(err, CodeInvalidDiscount) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeInvalidPayment) {
		t.Fatal("unexpected code match")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Fatal("plain errors carry no code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeInternal, errors.New("root"), "top")
	dump := Dump(err)

	if dump.TopMessage == "" || dump.Code != CodeInternal {
		t.Fatalf("unexpected dump %+v", dump)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
