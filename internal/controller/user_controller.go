package controller

import (
	"jamb_cbt_backend/internal/model"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{UserService: userService, StorageService: storageService}
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.UpdateProfileRequest true "profile fields"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/users/me [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "avatar image"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/users/me/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

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

	url, err := c.StorageService.UploadMedia(ctx.Request.Context(), "avatars", fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}

type SetStatusRequest struct {
	Status model.UserStatus `json:"status" binding:"required,oneof=active suspended"`
}

// SetStatus godoc
// @Summary Suspend or reactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Param body body SetStatusRequest true "new status"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/users/{id}/status [put]
func (c *UserController) SetStatus(ctx *gin.Context) {
	var req SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetStatus(ctx.Param("id"), req.Status)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param role query string false "filter by role"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	role := model.UserRole(ctx.Query("role"))

	users, total, err := c.UserService.List(page, limit, role)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}
