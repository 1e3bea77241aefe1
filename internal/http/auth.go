package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// Identity the authenticated caller resolved from the bearer token.
type Identity struct {
	TenantID string
	UserID   string
	Role     string // admin | owner | agent
}

// CanManageCompliance only admins and owners may register brands/campaigns or
// change phone assignments. Agents get read access.
func (id *Identity) CanManageCompliance() bool {
	return id.Role == "admin" || id.Role == "owner"
}

type accessClaims struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator validates bearer tokens and checks the tenant is still active.
type Authenticator struct {
	secret  []byte
	tenants repository.TenantsRepository
}

func NewAuthenticator(jwtSecret string, tenants repository.TenantsRepository) *Authenticator {
	return &Authenticator{secret: []byte(jwtSecret), tenants: tenants}
}

var (
	errNoToken         = errors.New("missing bearer token")
	errInvalidToken    = errors.New("invalid token")
	errTenantSuspended = errors.New("tenant is not active")
)

// Authenticate resolves the Authorization header to a tenant-scoped identity.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, errNoToken
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.TenantID == "" {
		return nil, errInvalidToken
	}

	tenant, err := a.tenants.GetTenant(ctx, claims.TenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidToken
		}
		return nil, err
	}
	if tenant.Status != domain.TenantStatusActive {
		return nil, errTenantSuspended
	}

	return &Identity{
		TenantID: claims.TenantID,
		UserID:   claims.UserID,
		Role:     claims.Role,
	}, nil
}

// requireAuth resolves the caller or writes the 401/403 itself.
func (h *A2PHandler) requireAuth(w http.ResponseWriter, r *http.Request) (*Identity, bool) {
	identity, err := h.auth.Authenticate(r.Context(), r)
	if err != nil {
		switch {
		case errors.Is(err, errTenantSuspended):
			writeJSON(w, http.StatusForbidden, errorBody{Code: "tenant_suspended", Message: err.Error()})
		case errors.Is(err, errNoToken), errors.Is(err, errInvalidToken):
			writeJSON(w, http.StatusUnauthorized, errorBody{Code: "unauthorized", Message: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internal_error", Message: err.Error()})
		}
		return nil, false
	}
	return identity, true
}

// requireManager additionally enforces the admin/owner role for mutations.
func (h *A2PHandler) requireManager(w http.ResponseWriter, r *http.Request) (*Identity, bool) {
	identity, ok := h.requireAuth(w, r)
	if !ok {
		return nil, false
	}
	if !identity.CanManageCompliance() {
		writeJSON(w, http.StatusForbidden, errorBody{
			Code:    "forbidden",
			Message: "role " + identity.Role + " cannot manage compliance registration",
		})
		return nil, false
	}
	return identity, true
}
