package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Saravana-31/Form-Builder/internal/service"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	Service *service.ResultsService
}

func NewResultsController(svc *service.ResultsService) *ResultsController {
	return &ResultsController{Service: svc}
}

// @Summary Results summary
// @Tags results
// @Produce json
// @Param id path string true "slug or system id"
// @Success 200 {object} util.Response{data=service.ResultsSummary}
// @Failure 404 {object} util.Response
// @Router /api/forms/{id}/results [get]
func (c *ResultsController) Summary(ctx *gin.Context) {
	sum, err := c.Service.Summary(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sum)
}

// @Summary Export results
// @Description One CSV row per response
// @Tags results
// @Produce text/csv
// @Param id path string true "slug or system id"
// @Success 200 {file} file
// @Failure 404 {object} util.Response
// @Router /api/forms/{id}/results/export [get]
func (c *ResultsController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	name, err := c.Service.ExportCSV(ctx.Request.Context(), ctx.Param("id"), &buf)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
