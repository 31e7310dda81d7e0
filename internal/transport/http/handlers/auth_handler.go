package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sumit-9900/backend-project/internal/service"
	"github.com/Sumit-9900/backend-project/internal/token"
	"github.com/Sumit-9900/backend-project/internal/transport/http/middleware"
	"github.com/Sumit-9900/backend-project/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	fullName := r.FormValue("fullName")
	password := r.FormValue("password")

	if errs := validator.ValidateRegister(username, email, fullName, password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	avatarPath, err := saveUploadedFile(r, "avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid avatar file")
		return
	}
	defer removeIfSet(avatarPath)

	coverPath, err := saveUploadedFile(r, "coverImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cover image file")
		return
	}
	defer removeIfSet(coverPath)

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username:       username,
		Email:          email,
		FullName:       fullName,
		Password:       password,
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarRequired):
			writeError(w, http.StatusBadRequest, "Avatar file is required!")
		case errors.Is(err, service.ErrUserExists):
			writeError(w, http.StatusConflict, "User with email or username already exists!")
		case errors.Is(err, service.ErrAvatarUpload):
			writeError(w, http.StatusInternalServerError, "Failed to upload avatar!")
		default:
			h.log.Error("register failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong while registering the user")
		}
		return
	}

	writeSuccess(w, http.StatusCreated, user, "User registered Successfully!")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Username, input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, pair, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User does not exist!")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid user credentials!")
		default:
			h.log.Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	setAuthCookies(w, pair)
	writeSuccess(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged In Successfully!")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		h.log.Error("logout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	clearAuthCookies(w)
	writeSuccess(w, http.StatusOK, map[string]any{}, "User logged Out Successfully!")
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	incoming := refreshTokenFrom(r)
	if incoming == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), incoming)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, service.ErrRefreshTokenReused):
			writeError(w, http.StatusUnauthorized, "Refresh token is expired or used")
		default:
			h.log.Error("refresh failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	setAuthCookies(w, pair)
	writeSuccess(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed Successfully!")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateChangePassword(input.OldPassword, input.NewPassword); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	err := h.authService.ChangePassword(r.Context(), userID, input.OldPassword, input.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSamePassword):
			writeError(w, http.StatusBadRequest, "New password must be different from the old password!")
		case errors.Is(err, service.ErrInvalidOldPassword):
			writeError(w, http.StatusBadRequest, "Invalid old password!")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User does not exist!")
		default:
			h.log.Error("change password failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{}, "Password changed Successfully!")
}

func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie("refreshToken"); err == nil && c.Value != "" {
		return c.Value
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		return body.RefreshToken
	}

	return ""
}

func setAuthCookies(w http.ResponseWriter, pair token.Pair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}
