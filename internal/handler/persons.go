package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swisscoin/swisscoin/internal/models"
	"github.com/swisscoin/swisscoin/internal/storage"
)

func createPersonHandler(store storage.Store) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		person := &models.Person{Name: req.Name}
		if err := store.CreatePerson(r.Context(), person); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create person")
			return
		}
		writeJSON(w, http.StatusCreated, person)
	}
}

func listPersonsHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		persons, err := store.ListPersons(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list persons")
			return
		}
		if persons == nil {
			persons = []*models.Person{}
		}
		writeJSON(w, http.StatusOK, persons)
	}
}

func deletePersonHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		personID := chi.URLParam(r, "personID")
		if err := store.DeletePerson(r.Context(), personID); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
