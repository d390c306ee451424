package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/laka02/quickcart/internal/domain"
	"github.com/laka02/quickcart/internal/service"
)

type contextKey string

// Keys under which validated request bodies and the authenticated user are
// stored in the request context.
const (
	ContextKeySupplier    contextKey = "supplier"
	ContextKeyCredentials contextKey = "credentials"
	ContextKeyUserID      contextKey = "user_id"
)

// Middleware struct holds dependencies for middleware functions
type Middleware struct {
	Logger      hclog.Logger
	Validator   *domain.Validation
	authService service.AuthService
	corsConfig  *CORSConfig
}

// CORSConfig holds configuration for CORS middleware
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	MaxAge           int  // Cache preflight requests
	AllowCredentials bool // Allow credentials like cookies
}

func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5175"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Session-ID", "X-Requested-With"},
		MaxAge:           86400, // 24 hours
		AllowCredentials: true,
	}
}

// NewMiddleware creates a new Middleware instance
func NewMiddleware(logger hclog.Logger, validator *domain.Validation, as service.AuthService, corsConfig *CORSConfig) *Middleware {
	if corsConfig == nil {
		corsConfig = DefaultCORSConfig()
	}
	return &Middleware{
		Logger:      logger,
		Validator:   validator,
		authService: as,
		corsConfig:  corsConfig,
	}
}

func (m *Middleware) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Check if the origin is allowed
		allowed := false
		for _, allowedOrigin := range m.corsConfig.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				// Set the specific origin instead of wildcard for better security
				w.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		if !allowed {
			// If origin is not allowed, still process the request but don't set CORS headers
			next.ServeHTTP(w, r)
			return
		}

		// Set standard CORS headers
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(m.corsConfig.AllowedMethods, ","))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(m.corsConfig.AllowedHeaders, ","))

		if m.corsConfig.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			// Set max age for preflight cache
			if m.corsConfig.MaxAge > 0 {
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.corsConfig.MaxAge))
			}
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware sets the Content-Type header to application/json
func (m *Middleware) ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs the incoming requests and responses
func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		m.Logger.Info("Incoming request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
		)

		// Add the request ID to the response header
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)

		duration := time.Since(start)
		m.Logger.Info("Completed request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
			"duration", duration,
		)
	})
}

// SupplierValidationMiddleware validates the supplier in the request body
// and adds it to the context
func (m *Middleware) SupplierValidationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var supplier domain.Supplier
		err := json.NewDecoder(r.Body).Decode(&supplier)
		if err != nil {
			m.Logger.Error("Error decoding supplier", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid supplier data")
			return
		}

		errs := m.Validator.Validate(&supplier)
		if len(errs) > 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(errs)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySupplier, &supplier)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CredentialsValidationMiddleware validates a register/login body and adds
// it to the context
func (m *Middleware) CredentialsValidationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		err := json.NewDecoder(r.Body).Decode(&creds)
		if err != nil {
			m.Logger.Error("Error decoding credentials", "error", err)
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		errs := m.Validator.Validate(&creds)
		if len(errs) > 0 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(errs)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyCredentials, creds)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware requires a valid bearer token and stores the caller's
// user ID in the request context
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "No token provided. Authorization required.")
			return
		}

		userID, err := m.authService.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
