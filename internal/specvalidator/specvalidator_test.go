package specvalidator

import "testing"

func TestValidateEmpty(t *testing.T) {
	v := New(0)
	got := v.Validate(nil)
	if got.OK {
		t.Fatal("expected empty content to fail")
	}
	if got.Message != "Specification is empty" {
		t.Errorf("unexpected message: %s", got.Message)
	}
}

func TestValidateTooLarge(t *testing.T) {
	v := New(10)
	got := v.Validate([]byte("0123456789ABCDEF"))
	if got.OK {
		t.Fatal("expected oversized content to fail")
	}
	if got.Message != "Specification exceeds maximum allowed size" {
		t.Errorf("unexpected message: %s", got.Message)
	}
}

func TestValidateNotOpenAPI(t *testing.T) {
	v := New(0)
	got := v.Validate([]byte("just some random text"))
	if got.OK {
		t.Fatal("expected non-openapi content to fail")
	}
	if got.Message != "Document does not appear to be an OpenAPI specification" {
		t.Errorf("unexpected message: %s", got.Message)
	}
}

func TestValidateSwagger2Rejected(t *testing.T) {
	v := New(0)
	got := v.Validate([]byte("swagger: 2.0\nopenapi: yes"))
	if got.OK {
		t.Fatal("expected swagger 2.0 content to fail")
	}
	if got.Message != "Swagger 2.0 documents are not supported" {
		t.Errorf("unexpected message: %s", got.Message)
	}
}

func TestValidateOnlyOpenAPI3Accepted(t *testing.T) {
	v := New(0)
	got := v.Validate([]byte("openapi: 2.5\nsomething"))
	if got.OK {
		t.Fatal("expected non-3.x openapi content to fail")
	}
	if got.Message != "Only OpenAPI 3.x documents are supported" {
		t.Errorf("unexpected message: %s", got.Message)
	}
}

func TestValidateAccepts(t *testing.T) {
	v := New(0)
	got := v.Validate([]byte("openapi: 3.0.0\ninfo:\n  title: Example\npaths: {}"))
	if !got.OK {
		t.Fatalf("expected valid spec to pass, got message: %s", got.Message)
	}
	if got.Message != "Valid specification" {
		t.Errorf("unexpected message: %s", got.Message)
	}
}

func TestValidateCaseFolded(t *testing.T) {
	v := New(0)
	got := v.Validate([]byte("OpenAPI: 3.0.1\ninfo: {}"))
	if !got.OK {
		t.Fatalf("expected case-insensitive match to pass, got message: %s", got.Message)
	}
}

func TestDefaultMaxBytesAppliedForNonPositive(t *testing.T) {
	v := New(-5)
	if v.MaxBytes != DefaultMaxBytes {
		t.Errorf("expected default max bytes, got %d", v.MaxBytes)
	}
}
