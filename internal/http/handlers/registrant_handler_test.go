package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nameforge/go-domains-backend/internal/reseller"
)

func postRegistrant(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestEngine(h)
	req := httptest.NewRequest(http.MethodPost, "/registrant", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRegistrant_Success(t *testing.T) {
	svc := &fakeCheckout{ownerResult: reseller.Result[reseller.Customer]{
		Data: reseller.Customer{ID: "81234", Username: "jane81234"},
	}}

	w := postRegistrant(t, New(svc, &fakeAvailability{}, nil, ""), `{"first_name":"Jane","email":"jane@example.com"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"81234"`) || !strings.Contains(body, `"jane81234"`) {
		t.Fatalf("expected id and username in body: %s", body)
	}
}

func TestCreateRegistrant_EmptyBody(t *testing.T) {
	w := postRegistrant(t, New(&fakeCheckout{}, &fakeAvailability{}, nil, ""), `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateRegistrant_RejectionIs422WithVerbatimDetail(t *testing.T) {
	svc := &fakeCheckout{ownerResult: reseller.Result[reseller.Customer]{
		Rejection: &reseller.Rejection{
			Message:          "The given data was invalid.",
			ValidationErrors: json.RawMessage(`{"email":["has already been taken"]}`),
		},
	}}

	w := postRegistrant(t, New(svc, &fakeAvailability{}, nil, ""), `{"email":"dup@example.com"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Code != "customer_rejected" {
		t.Fatalf("code = %q", resp.Error.Code)
	}
	if string(resp.Error.ValidationErrors) != `{"email":["has already been taken"]}` {
		t.Fatalf("validation errors not verbatim: %s", resp.Error.ValidationErrors)
	}
}

func TestCreateRegistrant_TransportIs502(t *testing.T) {
	svc := &fakeCheckout{ownerErr: errors.New("dial tcp: i/o timeout")}

	w := postRegistrant(t, New(svc, &fakeAvailability{}, nil, ""), `{"first_name":"Jane"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}
