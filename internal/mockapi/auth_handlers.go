package mockapi

import (
	"net/http"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
	"github.com/dvcrn/storefront-admin/internal/logger"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req adminapi.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid login payload")
		return
	}

	user, ok := s.data.authenticate(req.Email, req.Password)
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "AUTH_BAD_CREDENTIALS", "invalid email or password")
		return
	}
	if user.Role != roleAdmin {
		writeError(w, r, http.StatusForbidden, "AUTH_FORBIDDEN", "admin role required")
		return
	}

	s.mu.Lock()
	tokens, err := s.issuePairLocked(user.Email, user.Role)
	s.mu.Unlock()
	if err != nil {
		logger.Get().Error().Err(err).Msg("Failed to issue tokens")
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "could not issue tokens")
		return
	}
	writeData(w, r, http.StatusOK, "Login successful", tokens)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	if hold := s.refreshHold.Load(); hold != nil {
		select {
		case <-*hold:
		case <-r.Context().Done():
			return
		}
	}

	if s.failRefresh.Load() {
		writeError(w, r, http.StatusUnauthorized, "AUTH_REFRESH_EXPIRED", "refresh token expired")
		return
	}

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &req); err != nil || req.RefreshToken == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "refreshToken is required")
		return
	}

	s.mu.Lock()
	grant, ok := s.refreshTokens[req.RefreshToken]
	if ok {
		// Refresh tokens are single use.
		delete(s.refreshTokens, req.RefreshToken)
	}
	if !ok || s.now().After(grant.expires) {
		s.mu.Unlock()
		writeError(w, r, http.StatusUnauthorized, "AUTH_REFRESH_EXPIRED", "refresh token expired or revoked")
		return
	}
	role := roleAdmin
	if u, found := s.data.user(grant.email); found {
		role = u.Role
	}
	tokens, err := s.issuePairLocked(grant.email, role)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "could not issue tokens")
		return
	}
	writeData(w, r, http.StatusOK, "Token refreshed", tokens)
}
