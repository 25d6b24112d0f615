package controller

import (
	"github.com/Saravana-31/Form-Builder/internal/service"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/gin-gonic/gin"
)

type FormController struct {
	Service   *service.FormService
	Responses *service.ResponseService
}

func NewFormController(svc *service.FormService, responses *service.ResponseService) *FormController {
	return &FormController{Service: svc, Responses: responses}
}

// @Summary List forms
// @Description All forms, newest first
// @Tags forms
// @Produce json
// @Success 200 {object} util.Response{data=[]service.FormView}
// @Failure 500 {object} util.Response
// @Router /api/forms [get]
func (c *FormController) List(ctx *gin.Context) {
	forms, err := c.Service.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewFormViews(forms))
}

// @Summary Create form
// @Tags forms
// @Accept json
// @Produce json
// @Param body body service.FormRequest true "form content"
// @Success 201 {object} util.Response{data=service.FormView}
// @Failure 400 {object} util.Response
// @Failure 500 {object} util.Response
// @Router /api/forms [post]
func (c *FormController) Create(ctx *gin.Context) {
	var req service.FormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	form, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, service.NewFormView(form))
}

// @Summary Get form
// @Description Resolves the id as a slug first, then as a system id
// @Tags forms
// @Produce json
// @Param id path string true "slug or system id"
// @Success 200 {object} util.Response{data=service.FormView}
// @Failure 404 {object} util.Response
// @Router /api/forms/{id} [get]
func (c *FormController) Get(ctx *gin.Context) {
	form, err := c.Service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewFormView(form))
}

// @Summary Update form
// @Description Replaces title, description and questions
// @Tags forms
// @Accept json
// @Produce json
// @Param id path string true "slug or system id"
// @Param body body service.FormRequest true "form content"
// @Success 200 {object} util.Response{data=service.FormView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/forms/{id} [put]
func (c *FormController) Update(ctx *gin.Context) {
	var req service.FormRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	form, err := c.Service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewFormView(form))
}

// @Summary Delete form
// @Tags forms
// @Produce json
// @Param id path string true "slug or system id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/forms/{id} [delete]
func (c *FormController) Delete(ctx *gin.Context) {
	if err := c.Service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Form deleted successfully"})
}

// @Summary Duplicate form
// @Description Stores a copy titled "<title> (Copy)"
// @Tags forms
// @Produce json
// @Param id path string true "slug or system id"
// @Success 201 {object} util.Response{data=service.FormView}
// @Failure 404 {object} util.Response
// @Router /api/forms/{id}/duplicate [post]
func (c *FormController) Duplicate(ctx *gin.Context) {
	form, err := c.Service.Duplicate(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, service.NewFormView(form))
}

type MoveQuestionRequest struct {
	ActiveID string `json:"active_id" binding:"required"`
	OverID   string `json:"over_id" binding:"required"`
}

// @Summary Move question
// @Description Drops question active_id onto the position of over_id and saves the order
// @Tags forms
// @Accept json
// @Produce json
// @Param id path string true "slug or system id"
// @Param body body MoveQuestionRequest true "dragged and target question ids"
// @Success 200 {object} util.Response{data=service.FormView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/forms/{id}/questions/move [post]
func (c *FormController) MoveQuestion(ctx *gin.Context) {
	var req MoveQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	form, err := c.Service.MoveQuestion(ctx.Request.Context(), ctx.Param("id"), req.ActiveID, req.OverID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.NewFormView(form))
}

// @Summary Score answers
// @Description Grades answers against the form without recording them
// @Tags forms
// @Accept json
// @Produce json
// @Param id path string true "slug or system id"
// @Param body body service.ScoreRequest true "answers keyed by question id"
// @Success 200 {object} util.Response{data=grading.Result}
// @Failure 404 {object} util.Response
// @Router /api/forms/{id}/score [post]
func (c *FormController) Score(ctx *gin.Context) {
	var req service.ScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Responses.Score(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
