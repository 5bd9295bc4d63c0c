package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yerlan-k/league-system/middleware"
	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/services"
)

type AuthHandler struct {
	authService     services.AuthService
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewAuthHandler(authService services.AuthService, jwtSecret string, accessTokenTTL, refreshTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Register(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeTokenPair(w, r, user)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.RefreshToken == "" {
		badRequestResponse(w, r, errors.New("refresh_token is required"))
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(input.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		unauthorizedResponse(w, r, "invalid refresh token")
		return
	}
	if kind, _ := claims["kind"].(string); kind != "refresh" {
		unauthorizedResponse(w, r, "invalid refresh token")
		return
	}
	idFloat, ok := claims["user_id"].(float64)
	if !ok || idFloat <= 0 {
		unauthorizedResponse(w, r, "invalid refresh token")
		return
	}

	user, err := h.authService.GetByID(r.Context(), int(idFloat))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if !user.Active {
		unauthorizedResponse(w, r, services.ErrAccountDisabled.Error())
		return
	}

	h.writeTokenPair(w, r, user)
}

// Verify reports whether the bearer token is valid. Reaching the
// handler means the authentication middleware already accepted it.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	response := jsonResponse{
		"valid":   true,
		"user_id": userID,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	user, err := h.authService.GetByID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) writeTokenPair(w http.ResponseWriter, r *http.Request, user *models.User) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"user_id": user.ID,
		"admin":   user.Admin,
		"exp":     now.Add(h.accessTokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign access token: %w", err))
		return
	}

	refreshClaims := jwt.MapClaims{
		"user_id": user.ID,
		"kind":    "refresh",
		"jti":     uuid.NewString(),
		"exp":     now.Add(h.refreshTokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(h.jwtSecret)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign refresh token: %w", err))
		return
	}

	response := jsonResponse{
		"token":         accessToken,
		"refresh_token": refreshToken,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
