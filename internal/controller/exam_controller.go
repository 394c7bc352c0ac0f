package controller

import (
	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// CreateTemplate godoc
// @Summary Create an exam template
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TemplateRequest true "template with sections"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/exam-templates [post]
func (c *ExamController) CreateTemplate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	template, err := c.ExamService.CreateTemplate(claims.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, template)
}

// UpdateTemplate godoc
// @Summary Replace a template's fields and sections
// @Description Fails with 409 once any instance is scheduled against the template
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "template id"
// @Param body body service.TemplateRequest true "template with sections"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/exam-templates/{id} [put]
func (c *ExamController) UpdateTemplate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.TemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	template, err := c.ExamService.UpdateTemplate(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, template)
}

// DeleteTemplate godoc
// @Summary Delete an exam template
// @Description Fails with 409 while any instance is scheduled against the template
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "template id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/exam-templates/{id} [delete]
func (c *ExamController) DeleteTemplate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ExamService.DeleteTemplate(claims.UserID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetTemplate godoc
// @Summary Fetch a template with its sections
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "template id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam-templates/{id} [get]
func (c *ExamController) GetTemplate(ctx *gin.Context) {
	template, err := c.ExamService.GetTemplate(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, template)
}

// ListTemplates godoc
// @Summary List exam templates
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/exam-templates [get]
func (c *ExamController) ListTemplates(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	templates, total, err := c.ExamService.ListTemplates(page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: templates, Total: total, Page: page, Limit: limit})
}

// CreateInstance godoc
// @Summary Schedule an exam instance from a template
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.InstanceRequest true "instance payload"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam-instances [post]
func (c *ExamController) CreateInstance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.InstanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	instance, err := c.ExamService.CreateInstance(claims.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, instance)
}

// GetInstance godoc
// @Summary Fetch one exam instance
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "instance id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam-instances/{id} [get]
func (c *ExamController) GetInstance(ctx *gin.Context) {
	instance, err := c.ExamService.GetInstance(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, instance)
}

// DeleteInstance godoc
// @Summary Cancel an exam instance
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "instance id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam-instances/{id} [delete]
func (c *ExamController) DeleteInstance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ExamService.DeleteInstance(claims.UserID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListInstances godoc
// @Summary List exam instances
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param status query string false "filter by status"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/exam-instances [get]
func (c *ExamController) ListInstances(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	status := model.ExamInstanceStatus(ctx.Query("status"))

	instances, total, err := c.ExamService.ListInstances(page, limit, status)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: instances, Total: total, Page: page, Limit: limit})
}
