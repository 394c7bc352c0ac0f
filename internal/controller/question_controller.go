package controller

import (
	"strconv"

	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	StorageService  *service.StorageService
}

func NewQuestionController(questionService *service.QuestionService, storageService *service.StorageService) *QuestionController {
	return &QuestionController{QuestionService: questionService, StorageService: storageService}
}

// Create godoc
// @Summary Add a question to the bank
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "question payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Create(claims.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, question)
}

// Update godoc
// @Summary Update a question
// @Description Fails with 409 once any attempt references the question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Param body body service.QuestionRequest true "question payload"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.Update(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, question)
}

// Delete godoc
// @Summary Retire a question
// @Description Marks the question deleted; frozen attempts keep rendering it
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.QuestionService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Get godoc
// @Summary Fetch one question with its answer key
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "question id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	question, err := c.QuestionService.Get(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// List godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param subjectId query string false "filter by subject"
// @Param topicId query string false "filter by topic"
// @Param type query string false "filter by question type"
// @Param difficulty query int false "filter by difficulty 1-5"
// @Param status query string false "filter by status"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	difficulty, _ := strconv.Atoi(ctx.Query("difficulty"))

	filter := repository.QuestionFilter{
		SubjectID:  ctx.Query("subjectId"),
		TopicID:    ctx.Query("topicId"),
		Type:       model.QuestionType(ctx.Query("type")),
		Difficulty: difficulty,
		Status:     model.QuestionStatus(ctx.Query("status")),
	}

	questions, total, err := c.QuestionService.List(filter, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: questions, Total: total, Page: page, Limit: limit})
}

// UploadMedia godoc
// @Summary Upload media referenced by question stems
// @Tags questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "image or audio file"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/questions/media [post]
func (c *QuestionController) UploadMedia(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.StorageService.UploadMedia(ctx.Request.Context(), "questions", fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
