package controller

import (
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PassageController struct {
	PassageService *service.PassageService
}

func NewPassageController(passageService *service.PassageService) *PassageController {
	return &PassageController{PassageService: passageService}
}

// Create godoc
// @Summary Add a reading-comprehension passage
// @Tags passages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.PassageRequest true "passage payload"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/passages [post]
func (c *PassageController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.PassageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	passage, err := c.PassageService.Create(claims.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, passage)
}

// Update godoc
// @Summary Update a passage
// @Tags passages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "passage id"
// @Param body body service.PassageRequest true "passage payload"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/passages/{id} [put]
func (c *PassageController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.PassageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	passage, err := c.PassageService.Update(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, passage)
}

// Delete godoc
// @Summary Delete a passage
// @Description Referencing questions are detached, not deleted
// @Tags passages
// @Produce json
// @Security BearerAuth
// @Param id path string true "passage id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/passages/{id} [delete]
func (c *PassageController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.PassageService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Get godoc
// @Summary Fetch one passage
// @Tags passages
// @Produce json
// @Security BearerAuth
// @Param id path string true "passage id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/passages/{id} [get]
func (c *PassageController) Get(ctx *gin.Context) {
	passage, err := c.PassageService.Get(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, passage)
}

// List godoc
// @Summary List passages
// @Tags passages
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param subjectId query string false "filter by subject"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/passages [get]
func (c *PassageController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	passages, total, err := c.PassageService.List(ctx.Query("subjectId"), page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: passages, Total: total, Page: page, Limit: limit})
}
