package controller

import (
	"jamb_cbt_backend/internal/repository"
	"jamb_cbt_backend/internal/service"
	"jamb_cbt_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	AuditService *service.AuditService
}

func NewAuditController(auditService *service.AuditService) *AuditController {
	return &AuditController{AuditService: auditService}
}

// List godoc
// @Summary Query the audit trail
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "page size"
// @Param userId query string false "filter by actor"
// @Param action query string false "filter by action"
// @Param entityType query string false "filter by entity type"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/audit-logs [get]
func (c *AuditController) List(ctx *gin.Context) {
	page, limit := pageParams(ctx)

	filter := repository.AuditFilter{
		UserID:     ctx.Query("userId"),
		Action:     ctx.Query("action"),
		EntityType: ctx.Query("entityType"),
	}

	logs, total, err := c.AuditService.List(filter, page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: logs, Total: total, Page: page, Limit: limit})
}
