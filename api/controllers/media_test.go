package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	mediasvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/media"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
)

type stubMediaService struct {
	result *mediasvc.UploadResult
	upload mediasvc.Upload
	err    error
}

func (s *stubMediaService) SaveProductImage(ctx context.Context, upload mediasvc.Upload) (*mediasvc.UploadResult, error) {
	s.upload = upload
	return s.result, s.err
}

func multipartImageBody(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadProductImageSuccess(t *testing.T) {
	svc := &stubMediaService{result: &mediasvc.UploadResult{
		URL:      "/uploads/products/abc.png",
		Filename: "abc.png",
	}}
	cfg := config.MediaConfig{UploadDir: t.TempDir(), PublicPath: "/uploads", MaxUploadMB: 5}
	handler := UploadProductImage(svc, cfg, nil)

	body, contentType := multipartImageBody(t, "image", "tee.png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/product-image", body)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, uuid.NewString(), string(enums.UserRoleSupplier))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.upload.Filename != "tee.png" {
		t.Fatalf("expected original filename threaded through, got %q", svc.upload.Filename)
	}

	var envelope struct {
		Data mediasvc.UploadResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.URL == "" {
		t.Fatal("expected upload url in response")
	}
}

func TestUploadProductImageMissingFile(t *testing.T) {
	cfg := config.MediaConfig{UploadDir: t.TempDir(), PublicPath: "/uploads", MaxUploadMB: 5}
	handler := UploadProductImage(&stubMediaService{}, cfg, nil)

	body, contentType := multipartImageBody(t, "wrong_field", "tee.png", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/product-image", body)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, uuid.NewString(), string(enums.UserRoleSupplier))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUploadProductImageRejectsBadType(t *testing.T) {
	svc := &stubMediaService{err: pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type")}
	cfg := config.MediaConfig{UploadDir: t.TempDir(), PublicPath: "/uploads", MaxUploadMB: 5}
	handler := UploadProductImage(svc, cfg, nil)

	body, contentType := multipartImageBody(t, "image", "script.sh", []byte("#!/bin/sh"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/product-image", body)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, uuid.NewString(), string(enums.UserRoleSupplier))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
