package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type RoadmapHandler struct {
	log      *logger.Logger
	roadmaps services.RoadmapService
}

func NewRoadmapHandler(log *logger.Logger, roadmaps services.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{log: log.With("handler", "RoadmapHandler"), roadmaps: roadmaps}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func roadmapIDParam(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_roadmap_id", errors.New("invalid roadmap id"))
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/roadmaps
// body: { "goal": "..." }
func (h *RoadmapHandler) Generate(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Goal string `json:"goal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.roadmaps.Generate(c.Request.Context(), userID, req.Goal)
	if err != nil {
		response.RespondAPIError(c, err, "generation_failed")
		return
	}
	response.RespondCreated(c, gin.H{"roadmap": view})
}

// GET /api/roadmaps
func (h *RoadmapHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	views, err := h.roadmaps.List(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err, "list_failed")
		return
	}
	response.RespondOK(c, gin.H{"roadmaps": views})
}

// GET /api/roadmaps/:id
// The caller is optional; the service decides whether anonymous reads are allowed.
func (h *RoadmapHandler) Get(c *gin.Context) {
	viewerID := uuid.Nil
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		viewerID = rd.UserID
	}
	id, ok := roadmapIDParam(c, c.Param("id"))
	if !ok {
		return
	}
	view, err := h.roadmaps.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		response.RespondAPIError(c, err, "fetch_failed")
		return
	}
	response.RespondOK(c, gin.H{"roadmap": view})
}

type progressRequest struct {
	ID     string        `json:"id"`
	Stages []types.Stage `json:"stages"`
}

// PUT /api/roadmaps/:id/progress
// body: { "stages": [...] }
func (h *RoadmapHandler) UpdateProgress(c *gin.Context) {
	h.updateProgress(c, c.Param("id"))
}

// POST /api/roadmap/progress
// body: { "id": "...", "stages": [...] }
func (h *RoadmapHandler) UpdateProgressByBody(c *gin.Context) {
	h.updateProgress(c, "")
}

func (h *RoadmapHandler) updateProgress(c *gin.Context, rawID string) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_stages", err)
		return
	}
	if rawID == "" {
		rawID = req.ID
	}
	id, ok := roadmapIDParam(c, rawID)
	if !ok {
		return
	}
	view, err := h.roadmaps.UpdateProgress(c.Request.Context(), userID, id, req.Stages)
	if err != nil {
		response.RespondAPIError(c, err, "persist_failed")
		return
	}
	response.RespondOK(c, gin.H{"roadmap": view})
}

// POST /api/roadmaps/:id/stages/:stage/steps/:step/toggle
func (h *RoadmapHandler) ToggleStep(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := roadmapIDParam(c, c.Param("id"))
	if !ok {
		return
	}
	stageIdx, err1 := strconv.Atoi(c.Param("stage"))
	stepIdx, err2 := strconv.Atoi(c.Param("step"))
	if err1 != nil || err2 != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_step", errors.New("stage and step must be integers"))
		return
	}
	view, err := h.roadmaps.ToggleStep(c.Request.Context(), userID, id, stageIdx, stepIdx)
	if err != nil {
		response.RespondAPIError(c, err, "persist_failed")
		return
	}
	response.RespondOK(c, gin.H{"roadmap": view})
}
