package server

import (
	"net/http"
	"strings"

	"tynda/logger"
	"tynda/model"
)

// ContactHandler stores a contact form submission. Accepts a urlencoded or
// multipart form with name, email and message fields.
func (h *APIHandler) ContactHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || message == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	contact := &model.Contact{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if err := h.contactRepo.CreateContact(contact); err != nil {
		respondServerError(w, "Failed to save contact message", err)
		return
	}

	logger.Info("Contact message received", logger.String("email", email))
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Thank you, " + name + "! Your message has been received.",
	})
}
