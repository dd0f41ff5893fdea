package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCauseAndCode(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "db: upsert score")

	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", err.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if got := err.Error(); got != "DEPENDENCY_ERROR: db: upsert score: connection refused" {
		t.Fatalf("unexpected error string: %s", got)
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	typed := New(CodeConfiguration, "unknown channel")
	wrapped := fmt.Errorf("run diagnostic: %w", typed)

	found := As(wrapped)
	if found == nil {
		t.Fatal("expected typed error through fmt wrapping")
	}
	if found.Code() != CodeConfiguration {
		t.Fatalf("expected configuration code, got %s", found.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestMetadataForKnownAndUnknownCodes(t *testing.T) {
	if meta := MetadataFor(CodeConfiguration); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for configuration errors, got %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("BOGUS")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestDumpBuildsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("root"), "outer")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected code in dump, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(dump.Chain))
	}
}
