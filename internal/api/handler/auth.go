package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jordanarrivado/ajs-portfolio/internal/api/response"
	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/jordanarrivado/ajs-portfolio/internal/service"
)

var validate = validator.New()

// AuthHandler handles dashboard authentication
type AuthHandler struct {
	adminService *service.AdminService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(adminService *service.AdminService) *AuthHandler {
	return &AuthHandler{adminService: adminService}
}

// Login exchanges admin credentials for a bearer token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.AdminLogin
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			errors := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					errors[e.Field()] = "field is required"
				case "max":
					errors[e.Field()] = "must be at most " + e.Param() + " characters"
				default:
					errors[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, errors)
			return
		}
		response.BadRequest(w, err.Error())
		return
	}

	token, err := h.adminService.Login(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, token)
}
