package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/forum-matchmaker/internal/application"
	"github.com/example/forum-matchmaker/internal/persistence"
)

func TestRequireSessionAttachesPrincipal(t *testing.T) {
	t.Parallel()

	validator := stubValidator{principal: application.Principal{ParticipantID: "inv-1", Role: persistence.RoleRequester}}

	var captured application.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := RequireSession(validator, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if captured.ParticipantID != "inv-1" || captured.Role != persistence.RoleRequester {
		t.Errorf("principal not attached to context: %+v", captured)
	}
}

func TestRequireSessionAcceptsCookieToken(t *testing.T) {
	t.Parallel()

	validator := stubValidator{principal: application.Principal{ParticipantID: "inv-1", Role: persistence.RoleRequester}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireSession(validator, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "token-1"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 with cookie token, got %d", recorder.Code)
	}
}

func TestRequireSessionRejectsMissingToken(t *testing.T) {
	t.Parallel()

	validator := stubValidator{principal: application.Principal{ParticipantID: "inv-1"}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run without a token")
	})
	handler := RequireSession(validator, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestRequireSessionRejectsInvalidSessions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "expired", err: application.ErrSessionExpired},
		{name: "revoked", err: application.ErrSessionRevoked},
		{name: "unknown token", err: application.ErrUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := stubValidator{err: tt.err}
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("next handler should not run for an invalid session")
			})
			handler := RequireSession(validator, nil)(next)

			req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
			req.Header.Set("Authorization", "Bearer stale-token")
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", recorder.Code)
			}
		})
	}
}

func TestRequestLoggerRecordsLifecycle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestLogger(logger)(next)

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	logs := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte("request started")) {
		t.Errorf("expected start event in logs, got %s", logs)
	}
	if !bytes.Contains(buf.Bytes(), []byte("request completed")) {
		t.Errorf("expected completion event in logs, got %s", logs)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"path":"/meetings"`)) {
		t.Errorf("expected request path in logs, got %s", logs)
	}
}
