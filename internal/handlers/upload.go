package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"outfitstore/internal/apperr"
	"outfitstore/internal/imagestore"
)

// ImageSaver stores an uploaded image and returns its public reference.
type ImageSaver interface {
	Save(r io.Reader) (string, error)
}

// UploadImage accepts a multipart "image" field and returns the stored
// reference, for use as an outfit's image.
func UploadImage(images ImageSaver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/uploads"
		defer handlePanic(c, log, route)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imagestore.MaxImageSize+(1<<20))
		file, err := c.FormFile("image")
		if err != nil {
			// gin versions disagree on the missing-file error
			if errors.Is(err, http.ErrMissingFile) || strings.Contains(err.Error(), "no such file") {
				respondError(c, log, route, apperr.Validation("image file is required"))
				return
			}
			respondError(c, log, route, apperr.Validation("invalid multipart body"))
			return
		}

		in, err := file.Open()
		if err != nil {
			respondError(c, log, route, apperr.Internal("open upload", err))
			return
		}
		defer in.Close()

		ref, err := images.Save(in)
		if err != nil {
			if apperr.KindOf(err) != apperr.KindValidation {
				err = apperr.Internal("image save failed", err)
			}
			respondError(c, log, route, err)
			return
		}

		log.WithFields(logrus.Fields{"ref": ref, "filename": file.Filename, "size": file.Size}).Info("image uploaded")
		c.JSON(http.StatusCreated, gin.H{"image": ref, "url": "/" + ref})
	}
}
