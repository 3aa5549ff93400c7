package validation

import (
	"errors"
	"testing"

	domainerrors "github.com/campuslib/campuslib-server/internal/errors"
)

type sampleRequest struct {
	Action  string  `json:"action" validate:"required,oneof=borrow return"`
	TUPID   string  `json:"tup_id" validate:"required"`
	BookIDs []int64 `json:"book_ids" validate:"required,min=1"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	req := sampleRequest{Action: "borrow", TUPID: "TUPM-25-0001", BookIDs: []int64{1}}
	if err := v.Validate(req); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	v := New()
	err := v.Validate(sampleRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T", err)
	}
	if domainErr.Code != domainerrors.CodeValidation {
		t.Errorf("code: got %s, want %s", domainErr.Code, domainerrors.CodeValidation)
	}

	// Field names come from JSON tags.
	details, ok := domainErr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details: got %T, want map[string]string", domainErr.Details)
	}
	if _, ok := details["tup_id"]; !ok {
		t.Error("expected tup_id in details")
	}
	if _, ok := details["book_ids"]; !ok {
		t.Error("expected book_ids in details")
	}
}

func TestValidate_OneOf(t *testing.T) {
	v := New()
	req := sampleRequest{Action: "renew", TUPID: "TUPM-25-0001", BookIDs: []int64{1}}
	err := v.Validate(req)
	if err == nil {
		t.Fatal("expected validation error for bad action")
	}
}
