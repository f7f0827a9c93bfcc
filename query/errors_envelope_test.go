package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-databinding/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestProviderForMessage_ValidateReturnsRichError(t *testing.T) {
	err := (ProviderForMessage{}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.ErrorBadInput {
		t.Fatalf("expected %q text code, got %q", core.ErrorBadInput, rich.TextCode)
	}
}

func TestListProvidersQuery_NilReaderReturnsRichError(t *testing.T) {
	var qry *ListProvidersQuery
	_, err := qry.Query(context.Background(), ListProvidersMessage{})
	if err == nil {
		t.Fatalf("expected query dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
