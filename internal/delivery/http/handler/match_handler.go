package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/usecase/match"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
}

func NewMatchHandler(matchUseCase *match.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

// TargetRequest names the other profile of a like or reject
type TargetRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

// Like handles POST /matches/like
// @Summary Like a profile
// @Description Record a like; reports whether it completed a match
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body TargetRequest true "Profile to like"
// @Success 200 {object} match.LikeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/like [post]
func (h *MatchHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, ok := bindTarget(c)
	if !ok {
		return
	}

	result, err := h.matchUseCase.Like(c.Request.Context(), userID, targetID)
	if err != nil {
		writeInteractionError(c, err, "failed to record like")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reject handles POST /matches/reject
// @Summary Reject a profile
// @Description Decline a profile; the pair is removed from both feeds
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body TargetRequest true "Profile to reject"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/reject [post]
func (h *MatchHandler) Reject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, ok := bindTarget(c)
	if !ok {
		return
	}

	if err := h.matchUseCase.Reject(c.Request.Context(), userID, targetID); err != nil {
		writeInteractionError(c, err, "failed to record reject")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "rejected",
	})
}

// GetMatches handles GET /matches
// @Summary List matches
// @Description All mutual matches with the other side's profile
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} match.MatchSummary
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchUseCase.GetMatches(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list matches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetPendingLikes handles GET /matches/likes
// @Summary Likes received
// @Description Likes awaiting the user's answer
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} match.LikeSummary
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/likes [get]
func (h *MatchHandler) GetPendingLikes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	likes, err := h.matchUseCase.GetPendingLikes(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list likes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes": likes,
		"count": len(likes),
	})
}

// GetSentLikes handles GET /matches/sent
// @Summary Likes sent
// @Description Likes the user sent that await reciprocation
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} match.LikeSummary
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/sent [get]
func (h *MatchHandler) GetSentLikes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	likes, err := h.matchUseCase.GetSentLikes(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list sent likes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes": likes,
		"count": len(likes),
	})
}

func bindTarget(c *gin.Context) (uuid.UUID, bool) {
	var req TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return uuid.Nil, false
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user_id",
		})
		return uuid.Nil, false
	}
	return targetID, true
}

func writeInteractionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrSelfInteraction):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "cannot interact with your own profile",
		})
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "profile not found",
		})
	case errors.Is(err, domain.ErrAlreadyInteracted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "already interacted with this profile",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: fallback,
		})
	}
}
