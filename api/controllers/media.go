package controllers

import (
	"net/http"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/api/responses"
	mediasvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/media"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
)

const uploadFormField = "image"

// UploadProductImage accepts a multipart product image and returns its
// public URL for use in Product.image_urls.
func UploadProductImage(svc mediasvc.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		// Parse at most the configured cap plus form overhead.
		if err := r.ParseMultipartForm(cfg.MaxUploadBytes() + (1 << 20)); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file required").WithDetails(map[string]any{"field": uploadFormField}))
			return
		}
		defer file.Close()

		result, err := svc.SaveProductImage(r.Context(), mediasvc.Upload{
			Filename: header.Filename,
			Size:     header.Size,
			Reader:   file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
