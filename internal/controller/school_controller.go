package controller

import (
	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SchoolController struct {
	SchoolService *service.SchoolService
}

func NewSchoolController(schoolService *service.SchoolService) *SchoolController {
	return &SchoolController{SchoolService: schoolService}
}

// Create godoc
// @Summary Register a school
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SchoolRequest true "school payload"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/schools [post]
func (c *SchoolController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	school, err := c.SchoolService.Create(claims.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, school)
}

// Update godoc
// @Summary Update a school
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "school id"
// @Param body body service.SchoolRequest true "school payload"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/schools/{id} [put]
func (c *SchoolController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.SchoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	school, err := c.SchoolService.Update(claims.UserID, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, school)
}

// Delete godoc
// @Summary Delete a school
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Param id path string true "school id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/schools/{id} [delete]
func (c *SchoolController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.SchoolService.Delete(claims.UserID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Get godoc
// @Summary Fetch one school
// @Tags schools
// @Produce json
// @Param id path string true "school id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/schools/{id} [get]
func (c *SchoolController) Get(ctx *gin.Context) {
	school, err := c.SchoolService.Get(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, school)
}

// List godoc
// @Summary List schools
// @Tags schools
// @Produce json
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param state query string false "filter by state"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/schools [get]
func (c *SchoolController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	schools, total, err := c.SchoolService.List(page, limit, ctx.Query("state"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: schools, Total: total, Page: page, Limit: limit})
}

// States godoc
// @Summary List Nigerian states accepted on school records
// @Tags schools
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/schools/states [get]
func (c *SchoolController) States(ctx *gin.Context) {
	util.Success(ctx, model.NigerianStates)
}
