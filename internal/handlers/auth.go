package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/diewo77/foncier-app/internal/auth"
	"github.com/diewo77/foncier-app/internal/httpx"
	"github.com/diewo77/foncier-app/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.signup)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/logout", h.logout)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
}

func decodeCredentials(r *http.Request) (credentials, bool) {
	var c credentials
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			return c, false
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return c, false
		}
		c.Email = r.FormValue("email")
		c.Password = r.FormValue("password")
		c.Nom = r.FormValue("nom")
		c.Prenom = r.FormValue("prenom")
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return c, true
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	c, ok := decodeCredentials(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	if c.Email == "" || c.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"email": "required", "password": "required"})
		return
	}
	var count int64
	h.DB.Model(&models.User{}).Where("email = ?", c.Email).Count(&count)
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "email_already_used", nil)
		return
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	u := models.User{Email: c.Email, Password: string(hash), Nom: c.Nom, Prenom: c.Prenom}
	if err := h.DB.Create(&u).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "signup_failed", nil)
		return
	}
	auth.CreateSession(w, u.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": u.ID, "email": u.Email})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	c, ok := decodeCredentials(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_input", nil)
		return
	}
	var u models.User
	if err := h.DB.Where("email = ?", c.Email).First(&u).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(c.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	auth.CreateSession(w, u.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": u.ID, "email": u.Email})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
