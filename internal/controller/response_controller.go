package controller

import (
	"github.com/Saravana-31/Form-Builder/internal/service"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/gin-gonic/gin"
)

type ResponseController struct {
	Service *service.ResponseService
}

func NewResponseController(svc *service.ResponseService) *ResponseController {
	return &ResponseController{Service: svc}
}

// @Summary Submit response
// @Description Grades the answers against the form and records the response
// @Tags responses
// @Accept json
// @Produce json
// @Param body body service.SubmitRequest true "form id and answers"
// @Success 201 {object} util.Response{data=model.FormResponse}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/responses [post]
func (c *ResponseController) Create(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.Submit(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, resp)
}

// @Summary List responses
// @Description Most recent first, optionally for one form
// @Tags responses
// @Produce json
// @Param form_id query string false "form id"
// @Success 200 {object} util.Response{data=[]model.FormResponse}
// @Router /api/responses [get]
func (c *ResponseController) List(ctx *gin.Context) {
	responses, err := c.Service.List(ctx.Request.Context(), ctx.Query("form_id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, responses)
}
