package controller

import (
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type StartAttemptRequest struct {
	ExamInstanceID string `json:"examInstanceId" binding:"required"`
}

// Start godoc
// @Summary Start an attempt on an exam instance
// @Description Freezes the question selection at creation; at most one live attempt per user per instance
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartAttemptRequest true "target instance"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.CreateAttempt(claims.UserID, claims.Role, req.ExamInstanceID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, attempt)
}

// Get godoc
// @Summary Fetch an attempt with its question views
// @Description Expired attempts are scored and closed on first read past the deadline
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	detail, err := c.AttemptService.GetAttempt(claims.UserID, claims.Role, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// SubmitResponse godoc
// @Summary Save an answer for one question
// @Description Resubmitting the same question overwrites the previous answer
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Param body body service.ResponseRequest true "answer payload"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/attempts/{id}/responses [put]
func (c *AttemptController) SubmitResponse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.ResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AttemptService.SubmitResponse(claims.UserID, claims.Role, ctx.Param("id"), req); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type FlagRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Flagged    *bool  `json:"flagged" binding:"required"`
}

// Flag godoc
// @Summary Flag or unflag a question for review
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Param body body FlagRequest true "flag toggle"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/attempts/{id}/flags [put]
func (c *AttemptController) Flag(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req FlagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AttemptService.FlagQuestion(claims.UserID, claims.Role, ctx.Param("id"), req.QuestionID, *req.Flagged); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Submit godoc
// @Summary Submit the attempt for scoring
// @Description Idempotent; resubmitting a finished attempt returns the stored result
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	attempt, err := c.AttemptService.SubmitAttempt(claims.UserID, claims.Role, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// List godoc
// @Summary List own attempts
// @Tags attempts
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, limit := pageParams(ctx)

	attempts, total, err := c.AttemptService.ListAttempts(claims.UserID, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}
