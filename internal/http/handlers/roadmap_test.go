package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type fakeRoadmapService struct {
	gotOwner  uuid.UUID
	gotID     uuid.UUID
	gotGoal   string
	gotStages []types.Stage
	gotIdx    [2]int
	err       error
	view      *services.RoadmapView
}

func (f *fakeRoadmapService) Generate(ctx context.Context, ownerID uuid.UUID, goal string) (*services.RoadmapView, error) {
	f.gotOwner, f.gotGoal = ownerID, goal
	return f.view, f.err
}

func (f *fakeRoadmapService) List(ctx context.Context, ownerID uuid.UUID) ([]*services.RoadmapView, error) {
	f.gotOwner = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return []*services.RoadmapView{f.view}, nil
}

func (f *fakeRoadmapService) Get(ctx context.Context, viewerID, id uuid.UUID) (*services.RoadmapView, error) {
	f.gotOwner, f.gotID = viewerID, id
	return f.view, f.err
}

func (f *fakeRoadmapService) UpdateProgress(ctx context.Context, ownerID, id uuid.UUID, stages []types.Stage) (*services.RoadmapView, error) {
	f.gotOwner, f.gotID, f.gotStages = ownerID, id, stages
	return f.view, f.err
}

func (f *fakeRoadmapService) ToggleStep(ctx context.Context, ownerID, id uuid.UUID, stageIdx, stepIdx int) (*services.RoadmapView, error) {
	f.gotOwner, f.gotID, f.gotIdx = ownerID, id, [2]int{stageIdx, stepIdx}
	return f.view, f.err
}

func sampleView() *services.RoadmapView {
	return services.NewRoadmapView(&types.Roadmap{
		ID:    uuid.New(),
		Title: "Learn Go",
		Goal:  "Ship Go",
		Stages: []types.Stage{{Title: "s", Steps: []types.Step{
			{Task: "a", Completed: true},
			{Task: "b"},
			{Task: "c", Completed: true},
			{Task: "d", Completed: true},
		}}},
	})
}

func newRoadmapEngine(svc services.RoadmapService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	})
	h := NewRoadmapHandler(logger.Nop(), svc)
	r.POST("/api/roadmaps", h.Generate)
	r.GET("/api/roadmaps", h.List)
	r.GET("/api/roadmaps/:id", h.Get)
	r.PUT("/api/roadmaps/:id/progress", h.UpdateProgress)
	r.POST("/api/roadmaps/:id/stages/:stage/steps/:step/toggle", h.ToggleStep)
	r.POST("/api/roadmap/progress", h.UpdateProgressByBody)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestRoadmapHandlerGenerate(t *testing.T) {
	userID := uuid.New()
	svc := &fakeRoadmapService{view: sampleView()}
	r := newRoadmapEngine(svc, userID)

	rec := do(r, http.MethodPost, "/api/roadmaps", map[string]string{"goal": "learn go"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.gotOwner != userID || svc.gotGoal != "learn go" {
		t.Fatalf("service not called with caller and goal: %+v", svc)
	}
	var body struct {
		Roadmap struct {
			ID            uuid.UUID `json:"id"`
			Title         string    `json:"title"`
			Progress      int       `json:"progress"`
			StageProgress []int     `json:"stage_progress"`
		} `json:"roadmap"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Roadmap.Title != "Learn Go" || body.Roadmap.Progress != 75 || len(body.Roadmap.StageProgress) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRoadmapHandlerErrorMapping(t *testing.T) {
	userID := uuid.New()
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apierr.BadRequest("invalid_goal", errors.New("goal required")), http.StatusBadRequest, "invalid_goal"},
		{apierr.New(http.StatusBadGateway, "generation_failed", errors.New("upstream")), http.StatusBadGateway, "generation_failed"},
		{apierr.New(http.StatusUnprocessableEntity, "invalid_roadmap_format", errors.New("bad")), http.StatusUnprocessableEntity, "invalid_roadmap_format"},
		{apierr.Internal("persist_failed", errors.New("db")), http.StatusInternalServerError, "persist_failed"},
	}
	for _, tc := range cases {
		r := newRoadmapEngine(&fakeRoadmapService{err: tc.err}, userID)
		rec := do(r, http.MethodPost, "/api/roadmaps", map[string]string{"goal": "x"})
		if rec.Code != tc.status || errCode(t, rec) != tc.code {
			t.Fatalf("want %d/%s, got %d body=%s", tc.status, tc.code, rec.Code, rec.Body.String())
		}
	}
}

func TestRoadmapHandlerRequiresCaller(t *testing.T) {
	r := newRoadmapEngine(&fakeRoadmapService{view: sampleView()}, uuid.Nil)
	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/roadmaps"},
		{http.MethodPost, "/api/roadmaps/" + uuid.NewString() + "/stages/0/steps/0/toggle"},
	}
	for _, tc := range cases {
		rec := do(r, tc.method, tc.path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status=%d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRoadmapHandlerGetAllowsAnonymousViewer(t *testing.T) {
	svc := &fakeRoadmapService{view: sampleView(), gotOwner: uuid.New()}
	r := newRoadmapEngine(svc, uuid.Nil)

	id := uuid.New()
	rec := do(r, http.MethodGet, "/api/roadmaps/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.gotOwner != uuid.Nil || svc.gotID != id {
		t.Fatalf("expected anonymous viewer for %s, got viewer=%s id=%s", id, svc.gotOwner, svc.gotID)
	}

	// the service decides whether anonymous reads are allowed
	svc.err = apierr.New(http.StatusUnauthorized, "unauthenticated", errors.New("sign in"))
	rec = do(r, http.MethodGet, "/api/roadmaps/"+id.String(), nil)
	if rec.Code != http.StatusUnauthorized || errCode(t, rec) != "unauthenticated" {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRoadmapHandlerGetValidatesID(t *testing.T) {
	svc := &fakeRoadmapService{view: sampleView()}
	r := newRoadmapEngine(svc, uuid.New())

	rec := do(r, http.MethodGet, "/api/roadmaps/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest || errCode(t, rec) != "invalid_roadmap_id" {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	svc.err = apierr.NotFound("roadmap_not_found")
	rec = do(r, http.MethodGet, "/api/roadmaps/"+uuid.NewString(), nil)
	if rec.Code != http.StatusNotFound || errCode(t, rec) != "roadmap_not_found" {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRoadmapHandlerUpdateProgressRoutes(t *testing.T) {
	userID := uuid.New()
	svc := &fakeRoadmapService{view: sampleView()}
	r := newRoadmapEngine(svc, userID)
	id := uuid.New()
	stages := []types.Stage{{Title: "s", Steps: []types.Step{{Task: "a", Completed: true}}}}

	rec := do(r, http.MethodPut, "/api/roadmaps/"+id.String()+"/progress", map[string]any{"stages": stages})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.gotID != id || len(svc.gotStages) != 1 || !svc.gotStages[0].Steps[0].Completed {
		t.Fatalf("PUT: unexpected call %+v", svc)
	}

	other := uuid.New()
	rec = do(r, http.MethodPost, "/api/roadmap/progress", map[string]any{"id": other.String(), "stages": stages})
	if rec.Code != http.StatusOK || svc.gotID != other {
		t.Fatalf("POST body route: status=%d id=%s", rec.Code, svc.gotID)
	}

	rec = do(r, http.MethodPost, "/api/roadmap/progress", map[string]any{"stages": stages})
	if rec.Code != http.StatusBadRequest || errCode(t, rec) != "invalid_roadmap_id" {
		t.Fatalf("missing id: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPut, "/api/roadmaps/"+id.String()+"/progress", map[string]any{"stages": "nope"})
	if rec.Code != http.StatusBadRequest || errCode(t, rec) != "invalid_stages" {
		t.Fatalf("bad stages: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRoadmapHandlerToggleStep(t *testing.T) {
	svc := &fakeRoadmapService{view: sampleView()}
	r := newRoadmapEngine(svc, uuid.New())
	id := uuid.New()

	rec := do(r, http.MethodPost, "/api/roadmaps/"+id.String()+"/stages/1/steps/2/toggle", nil)
	if rec.Code != http.StatusOK || svc.gotIdx != [2]int{1, 2} {
		t.Fatalf("status=%d idx=%v", rec.Code, svc.gotIdx)
	}

	rec = do(r, http.MethodPost, "/api/roadmaps/"+id.String()+"/stages/x/steps/2/toggle", nil)
	if rec.Code != http.StatusBadRequest || errCode(t, rec) != "invalid_step" {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
