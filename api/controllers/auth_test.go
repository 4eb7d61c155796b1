package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/emmanuel197/cloud9wearfirebase-sub001/internal/auth"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/internal/users"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/enums"
	pkgerrors "github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/errors"
)

type stubAuthService struct {
	response *authsvc.AuthResponse
	err      error
}

func (s stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	return s.response, s.err
}

func (s stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return s.response, s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	userID := uuid.New()
	svc := stubAuthService{response: &authsvc.AuthResponse{
		AccessToken: "token",
		User:        &users.UserDTO{ID: userID, Username: "shopper", Role: enums.UserRoleCustomer},
	}}
	handler := AuthRegister(svc, nil)

	body := []byte(`{"username":"shopper","email":"shopper@example.com","password":"supersecret","full_name":"Shopper One"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newRequest(http.MethodPost, "/api/auth/register", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data authsvc.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "token" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.ID != userID {
		t.Fatalf("unexpected user payload: %+v", envelope.Data.User)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	handler := AuthRegister(stubAuthService{}, nil)

	body := []byte(`{"username":"sh","email":"not-an-email","password":"short","full_name":""}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newRequest(http.MethodPost, "/api/auth/register", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %q", envelope.Error.Code)
	}
	if len(envelope.Error.Details) == 0 {
		t.Fatal("expected per-field details")
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	svc := stubAuthService{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}
	handler := AuthRegister(svc, nil)

	body := []byte(`{"username":"shopper","email":"shopper@example.com","password":"supersecret","full_name":"Shopper One"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newRequest(http.MethodPost, "/api/auth/register", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"username":"shopper","password":"wrong-password"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newRequest(http.MethodPost, "/api/auth/login", body))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := stubAuthService{response: &authsvc.AuthResponse{AccessToken: "token"}}
	handler := AuthLogin(svc, nil)

	body := []byte(`{"username":"shopper@example.com","password":"supersecret"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, newRequest(http.MethodPost, "/api/auth/login", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
