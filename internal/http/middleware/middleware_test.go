package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/errs"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type stubAuth struct {
	bypass bool
	users  map[string]uuid.UUID
	fail   error
	seen   []string
}

func (s *stubAuth) DevBypass() bool { return s.bypass }

func (s *stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	s.seen = append(s.seen, token)
	if s.fail != nil {
		return ctx, s.fail
	}
	if s.bypass {
		return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: uuid.New(), ExternalID: "local-test-user"}), nil
	}
	id, ok := s.users[token]
	if !ok {
		return ctx, fmt.Errorf("%w: unknown", errs.ErrUnauthorized)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: id, ExternalID: token}), nil
}

func protectedEngine(auth *stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.Use(RequestLogger(logger.Nop()))
	mw := NewAuthMiddleware(logger.Nop(), auth)
	r.GET("/api/me", mw.RequireAuth(), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": rd.UserID, "external_id": rd.ExternalID})
	})
	return r
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestRequireAuthTokenSources(t *testing.T) {
	uid := uuid.New()
	auth := &stubAuth{users: map[string]uuid.UUID{"tok": uid}}
	r := protectedEngine(auth)

	reqs := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/me", nil),
		httptest.NewRequest(http.MethodGet, "/api/me", nil),
		httptest.NewRequest(http.MethodGet, "/api/me?token=tok", nil),
	}
	reqs[0].Header.Set("Authorization", "Bearer tok")
	reqs[1].AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})

	for i, req := range reqs {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d body=%s", i, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), uid.String()) {
			t.Fatalf("request %d: unexpected body %s", i, rec.Body.String())
		}
		if rec.Header().Get(headerRequestID) == "" {
			t.Fatalf("request %d: missing request id header", i)
		}
	}
}

func TestRequireAuthRejects(t *testing.T) {
	auth := &stubAuth{users: map[string]uuid.UUID{}}
	r := protectedEngine(auth)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "unauthorized" {
		t.Fatalf("missing token: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if len(auth.seen) != 0 {
		t.Fatalf("auth service must not be called without a token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: status=%d", rec.Code)
	}

	auth.fail = errors.New("database is down")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "auth_failed" {
		t.Fatalf("internal failure: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireAuthDevBypassAllowsMissingToken(t *testing.T) {
	r := protectedEngine(&stubAuth{bypass: true})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "local-test-user") {
		t.Fatalf("dev bypass: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uid := uuid.New()
	auth := &stubAuth{users: map[string]uuid.UUID{"tok": uid}}
	r := gin.New()
	r.GET("/api/roadmaps/:id", NewAuthMiddleware(logger.Nop(), auth).OptionalAuth(), func(c *gin.Context) {
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			c.String(http.StatusOK, rd.UserID.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/roadmaps/x", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Fatalf("anonymous: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if len(auth.seen) != 0 {
		t.Fatalf("auth service must not be called without a token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/roadmaps/x", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != uid.String() {
		t.Fatalf("with token: status=%d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/roadmaps/x", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "unauthorized" {
		t.Fatalf("forged token: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAttachTraceContextKeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, td.RequestID)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "req-123" || rec.Header().Get(headerRequestID) != "req-123" {
		t.Fatalf("request id not propagated: body=%q header=%q", rec.Body.String(), rec.Header().Get(headerRequestID))
	}
	if rec.Header().Get(headerTraceID) == "" {
		t.Fatalf("trace id header missing")
	}
}
