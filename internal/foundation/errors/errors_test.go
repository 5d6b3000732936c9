package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "site.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "site.yaml" {
			t.Errorf("expected context file=site.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Error string includes cause", func(t *testing.T) {
		err := WrapError(errors.New("disk full"), CategoryFileSystem, "write failed").Build()
		want := "[filesystem:error] write failed: disk full"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryNetwork, "clone failed").
			Warning().
			Retryable().
			WithContext("url", "https://example.org/site.git").
			WithContext("depth", 1).
			Build()

		if err.Category() != CategoryNetwork {
			t.Errorf("expected category %s, got %s", CategoryNetwork, err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected severity %s, got %s", SeverityWarning, err.Severity())
		}
		if err.RetryStrategy() != RetryBackoff {
			t.Errorf("expected retry strategy %s, got %s", RetryBackoff, err.RetryStrategy())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}

		url, _ := err.Context().GetString("url")
		if url != "https://example.org/site.git" {
			t.Errorf("unexpected url context %q", url)
		}
		if depth, _ := err.Context().Get("depth"); depth != 1 {
			t.Errorf("expected depth context 1, got %v", depth)
		}
	})

	t.Run("Taxonomy constructors", func(t *testing.T) {
		cases := []struct {
			err      *ClassifiedError
			category ErrorCategory
			retry    RetryStrategy
		}{
			{SourceNotFound("x").Build(), CategorySourceNotFound, RetryUserAction},
			{TemplateNotFound("x").Build(), CategoryTemplateNotFound, RetryUserAction},
			{TemplateNotSpecified("x").Build(), CategoryTemplateNotSpecified, RetryUserAction},
			{MalformedDocument("x").Build(), CategoryMalformedDocument, RetryUserAction},
			{AssertionViolation("x").Build(), CategoryAssertion, RetryNever},
			{InternalError("x").Build(), CategoryInternal, RetryNever},
		}
		for _, c := range cases {
			if c.err.Category() != c.category {
				t.Errorf("expected category %s, got %s", c.category, c.err.Category())
			}
			if c.err.RetryStrategy() != c.retry {
				t.Errorf("%s: expected retry %s, got %s", c.category, c.retry, c.err.RetryStrategy())
			}
			if !c.err.IsFatal() {
				t.Errorf("%s: expected fatal severity", c.category)
			}
		}
	})
}

func TestKindSentinels(t *testing.T) {
	err := TemplateNotFound("template not found").
		WithContext("template", "layout.liquid").
		Build()
	wrapped := fmt.Errorf("render about.md: %w", err)

	if !errors.Is(wrapped, ErrTemplateNotFound) {
		t.Error("expected wrapped error to match ErrTemplateNotFound")
	}
	if errors.Is(wrapped, ErrSourceNotFound) {
		t.Error("did not expect match against ErrSourceNotFound")
	}
	if GetCategory(wrapped) != CategoryTemplateNotFound {
		t.Errorf("unexpected category %s", GetCategory(wrapped))
	}

	other := TemplateNotFound("another message").Build()
	if errors.Is(err, other) {
		t.Error("errors with different messages should not match")
	}
}

func TestWithContextCopies(t *testing.T) {
	base := MalformedDocument("bad front matter").WithContext("path", "a.md").Build()
	derived := base.WithContext("line", 3)

	if _, ok := base.Context().Get("line"); ok {
		t.Error("WithContext must not mutate the original error")
	}
	if p, _ := derived.Context().GetString("path"); p != "a.md" {
		t.Errorf("expected derived error to keep path, got %q", p)
	}
}

func TestErrorContext(t *testing.T) {
	var ctx ErrorContext
	ctx = ctx.Set("key", "value")
	if v, ok := ctx.GetString("key"); !ok || v != "value" {
		t.Errorf("expected key=value, got %v", v)
	}
	if _, ok := ctx.GetString("missing"); ok {
		t.Error("expected missing key lookup to fail")
	}

	merged := ctx.Merge(ErrorContext{"other": 1})
	if _, ok := merged.Get("other"); !ok {
		t.Error("expected merged context to contain other")
	}
}

func TestUnclassifiedHelpers(t *testing.T) {
	plain := errors.New("plain")
	if IsClassified(plain) {
		t.Error("plain error should not be classified")
	}
	if HasCategory(plain, CategoryConfig) {
		t.Error("plain error should not carry a category")
	}
	if GetCategory(plain) != CategoryInternal {
		t.Errorf("expected internal category, got %s", GetCategory(plain))
	}
}
