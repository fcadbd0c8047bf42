package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/gridtrade/exchange/internal/api/types"
	"github.com/gridtrade/exchange/internal/services"
	"github.com/gridtrade/exchange/pkg/logger"
)

type AuthHandler struct {
	users      services.UserService
	hmacSecret []byte
}

func NewAuthHandler(users services.UserService, secret []byte) *AuthHandler {
	return &AuthHandler{users: users, hmacSecret: secret}
}

// Login upserts the caller's profile and returns it. When a signing secret is
// configured the response also carries a bearer token so later requests can
// omit user_email.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Role, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := types.LoginResponse{Message: "Login successful!", User: u}
	if len(h.hmacSecret) > 0 {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  u.Email,
			"role": u.Role,
			"exp":  time.Now().Add(24 * time.Hour).Unix(),
		})
		signed, err := token.SignedString(h.hmacSecret)
		if err != nil {
			logger.L().Warn("sign login token failed", zap.String("email", u.Email), zap.Error(err))
		} else {
			resp.Token = signed
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
