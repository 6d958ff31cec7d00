package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccessWrapsData(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", envelope)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeRateLimit, http.StatusTooManyRequests},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.status {
			t.Fatalf("code %s → status %d, want %d", tc.code, rec.Code, tc.status)
		}
		envelope := decodeError(t, rec)
		if envelope.Error.Code != string(tc.code) {
			t.Fatalf("envelope code = %q, want %q", envelope.Error.Code, tc.code)
		}
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "connection string leaked"))

	envelope := decodeError(t, rec)
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", envelope.Error.Message)
	}
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("plain failure"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("envelope code = %q", envelope.Error.Code)
	}
}

func TestWriteErrorIncludesAllowedDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"email": "must be a valid email"})
	WriteError(context.Background(), nil, rec, err)

	envelope := decodeError(t, rec)
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok || details["email"] != "must be a valid email" {
		t.Fatalf("details missing: %+v", envelope.Error.Details)
	}
}
