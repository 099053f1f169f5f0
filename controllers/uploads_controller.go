package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/pet-adoption-go/utils"
)

const (
	maxUploadFiles = 5
	uploadTimeout  = 60 * time.Second
)

// UploadImage hosts the multipart files under "images" (or a single
// "image") and returns their URLs for use in pet and campaign bodies.
func UploadImage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env.Images == nil {
			utils.Fail(c, http.StatusServiceUnavailable, utils.ErrCodeUnavailable, "image uploads are not configured")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.Fail(c, http.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, "upload exceeds the size limit")
				return
			}
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid form data")
			return
		}
		var files []*multipart.FileHeader
		files = append(files, form.File["images"]...)
		files = append(files, form.File["image"]...)
		if len(files) == 0 {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "no image provided")
			return
		}
		if len(files) > maxUploadFiles {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "too many images")
			return
		}

		// --- uploads get at least a minute ---
		ctx, cancel := context.WithTimeout(c.Request.Context(), max(env.Timeout, uploadTimeout))
		defer cancel()

		urls := make([]string, 0, len(files))
		for _, fh := range files {
			f, err := fh.Open()
			if err != nil {
				utils.FailErr(c, http.StatusInternalServerError, utils.ErrCodeInternal, "failed to open file", err)
				return
			}
			url, err := env.Images.Upload(ctx, f)
			f.Close()
			if err != nil {
				utils.FailErr(c, http.StatusServiceUnavailable, utils.ErrCodeUnavailable, "image upload failed: "+fh.Filename, err)
				return
			}
			urls = append(urls, url)
		}
		c.JSON(http.StatusCreated, gin.H{"urls": urls})
	}
}
