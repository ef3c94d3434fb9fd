package handler

import (
	"net/http"

	"github.com/swisscoin/swisscoin/internal/middleware"
	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/service"
	"github.com/swisscoin/swisscoin/internal/storage"
)

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PersonID    string `json:"person_id"`
	CreatedAt   int64  `json:"created_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PersonID:    u.PersonID,
		CreatedAt:   u.CreatedAt,
	}
}

func registerHandler(authSvc *service.AuthService) http.HandlerFunc {
	type request struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		user, token, err := authSvc.Register(r.Context(), req.Email, req.DisplayName, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
	}
}

func loginHandler(authSvc *service.AuthService) http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		user, token, err := authSvc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
	}
}

func currentUserHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		user, err := store.GetUserByID(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(user))
	}
}
