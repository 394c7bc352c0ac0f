package controller

import (
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// Create godoc
// @Summary Add a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubjectRequest true "subject payload"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Create(req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, subject)
}

// Get godoc
// @Summary Fetch one subject
// @Tags subjects
// @Produce json
// @Param id path string true "subject id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	subject, err := c.SubjectService.Get(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// List godoc
// @Summary List all subjects
// @Tags subjects
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.SubjectService.ListAll()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// CreateTopic godoc
// @Summary Add a topic under a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TopicRequest true "topic payload"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/topics [post]
func (c *SubjectController) CreateTopic(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.SubjectService.CreateTopic(req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, topic)
}

// ListTopics godoc
// @Summary List a subject's topics
// @Tags subjects
// @Produce json
// @Param id path string true "subject id"
// @Success 200 {object} util.Response
// @Router /api/v1/subjects/{id}/topics [get]
func (c *SubjectController) ListTopics(ctx *gin.Context) {
	topics, err := c.SubjectService.ListTopics(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}
