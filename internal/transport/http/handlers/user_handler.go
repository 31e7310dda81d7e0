package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sumit-9900/backend-project/internal/domain"
	"github.com/Sumit-9900/backend-project/internal/service"
	"github.com/Sumit-9900/backend-project/internal/transport/http/middleware"
	"github.com/Sumit-9900/backend-project/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User does not exist!")
		} else {
			h.log.Error("current user failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeSuccess(w, http.StatusOK, user, "Current user fetched Successfully!")
}

func (h *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpdateDetailsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validator.ValidateUpdateDetails(input.Username, input.Email, input.FullName); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.UpdateDetails(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoChanges):
			writeError(w, http.StatusBadRequest, "No changes detected in the user details!")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User does not exist!")
		default:
			h.log.Error("update details failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeSuccess(w, http.StatusOK, user, "User details updated Successfully!")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.userService.UpdateAvatar, "Avatar updated Successfully!")
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.userService.UpdateCoverImage, "Cover image updated Successfully!")
}

func (h *UserHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error),
	message string,
) {
	userID := middleware.GetUserID(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	path, err := saveUploadedFile(r, field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+field+" file")
		return
	}
	if path == "" {
		writeError(w, http.StatusBadRequest, field+" file is required!")
		return
	}
	defer removeIfSet(path)

	user, err := update(r.Context(), userID, path)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User does not exist!")
		case errors.Is(err, service.ErrAvatarUpload):
			writeError(w, http.StatusInternalServerError, "Failed to upload "+field+"!")
		default:
			h.log.Error("update "+field+" failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeSuccess(w, http.StatusOK, user, message)
}
