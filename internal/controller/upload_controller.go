package controller

import (
	"net/http"

	"github.com/Saravana-31/Form-Builder/internal/service"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Storage *service.StorageService
}

func NewUploadController(storage *service.StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

// @Summary Upload image
// @Description Stores an image for use in a question and returns its URL
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "image file"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /api/upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	if c.Storage.MaxBytes > 0 {
		// leave room for the multipart envelope
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.Storage.MaxBytes+1<<20)
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "No file uploaded")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.Storage.UploadImage(ctx.Request.Context(), file, header.Filename, header.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
