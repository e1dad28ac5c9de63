package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

// maxUploadMemory bounds the in-memory part of multipart forms (10MB)
const maxUploadMemory = 10 << 20

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Register implements AuthHandler. Accepts a multipart form with an optional
// "photo" file, or a plain JSON body.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			slog.Error("Register parse form error", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		registerReq.Name = r.FormValue("name")
		registerReq.Email = r.FormValue("email")
		registerReq.Password = r.FormValue("password")
		registerReq.Phone = r.FormValue("phone")
		registerReq.Department = r.FormValue("department")

		file, fileHeader, err := r.FormFile("photo")
		if err != nil && err != http.ErrMissingFile {
			slog.Error("Register file error", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if file != nil {
			defer file.Close()
			registerReq.File = file
			registerReq.FileHeader = fileHeader
		}
	} else if err := render.DecodeJSON(r.Body, &registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := registerReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	authResponse, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered successfully", "user_id", authResponse.User.ID)
	response.Created(w, "User created successfully", authResponse)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := render.DecodeJSON(r.Body, &loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	authResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in successfully", "user_id", authResponse.User.ID)
	response.SuccessWithMessage(w, "User logged in successfully", authResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.authService.Logout(r.Context(), jwtauth.TokenFromHeader(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User logged out successfully", nil)
}

// StreamToken implements AuthHandler.
func (a *AuthHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	token, err := a.authService.StreamToken(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, token)
}
