package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput           = "DATABINDING_BAD_INPUT"
	ErrorUnknownMode        = "DATABINDING_UNKNOWN_MODE"
	ErrorUnknownNamespace   = "DATABINDING_UNKNOWN_NAMESPACE"
	ErrorNoProviders        = "DATABINDING_NO_PROVIDERS"
	ErrorConstructionFailed = "DATABINDING_CONSTRUCTION_FAILED"
	ErrorInternal           = "DATABINDING_INTERNAL_ERROR"
)

func IsUnknownMode(err error) bool {
	return hasTextCode(err, ErrorUnknownMode)
}

func IsUnknownNamespace(err error) bool {
	return hasTextCode(err, ErrorUnknownNamespace)
}

func IsNoProviders(err error) bool {
	return hasTextCode(err, ErrorNoProviders)
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == textCode
}

func (f *Factory) newError(
	message string,
	category goerrors.Category,
	textCode string,
	metadata map[string]any,
) error {
	factory := f.errorFactory
	if factory == nil {
		factory = goerrors.New
	}
	err := factory(message, category)
	if err == nil {
		err = goerrors.New(message, category)
	}
	err = err.WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return ensureErrorEnvelope(err)
}

func (f *Factory) unknownModeError(mode string) error {
	return f.newError(
		"Unknown databinding mode: "+mode,
		goerrors.CategoryBadInput,
		ErrorUnknownMode,
		map[string]any{"mode": mode},
	)
}

func (f *Factory) unknownNamespaceError(namespace string, typeName string) error {
	return f.newError(
		"Unknown binding implementation namespace: "+namespace+" ("+typeName+")",
		goerrors.CategoryNotFound,
		ErrorUnknownNamespace,
		map[string]any{"namespace": namespace, "type": typeName},
	)
}

func (f *Factory) noProvidersError() error {
	return f.newError(
		"No binding context providers found.",
		goerrors.CategoryInternal,
		ErrorNoProviders,
		nil,
	)
}

func (f *Factory) nilContextError(provider string, mode string) error {
	return f.newError(
		"Provider "+provider+" returned no binding context",
		goerrors.CategoryInternal,
		ErrorConstructionFailed,
		map[string]any{"provider": provider, "mode": mode},
	)
}

func (f *Factory) badInputError(message string) error {
	return f.newError(message, goerrors.CategoryBadInput, ErrorBadInput, nil)
}

func bindingErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return ensureErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
				WithTextCode(ErrorBadInput),
		)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = bindingHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryNotFound:
		return ErrorUnknownNamespace
	default:
		return ErrorInternal
	}
}

func bindingHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
