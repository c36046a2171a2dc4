package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmark/vetcare-api/internal/domain/entity"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	"github.com/pawmark/vetcare-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	router := gin.New()
	router.Use(AuthMiddleware(jwtManager))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c).String()})
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtManager.GenerateAccessToken(userID, "sam@clinic.test", enum.RoleAdmin.String())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	newRouter := func(role string) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if role != "" {
				c.Set("user_role", role)
			}
			c.Next()
		})
		router.DELETE("/admin-only", RequireRole(enum.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return router
	}

	t.Run("allowed role", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/admin-only", nil)
		newRouter("admin").ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("insufficient role", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/admin-only", nil)
		newRouter("receptionist").ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no role in context", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/admin-only", nil)
		newRouter("").ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

type fakeIdempotencyRepo struct {
	keys map[string]*entity.IdempotencyKey
}

func (f *fakeIdempotencyRepo) Create(ctx context.Context, key *entity.IdempotencyKey) error {
	f.keys[key.Key] = key
	return nil
}

func (f *fakeIdempotencyRepo) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	k, ok := f.keys[key]
	if !ok || k.UserID != userID {
		return nil, nil
	}
	return k, nil
}

func (f *fakeIdempotencyRepo) DeleteExpired(ctx context.Context) error { return nil }

func TestIdempotency(t *testing.T) {
	userID := uuid.New()

	newRouter := func(repo *fakeIdempotencyRepo, calls *int) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
		router.POST("/billing", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
			*calls++
			c.JSON(http.StatusCreated, gin.H{"bill_no": "INV-20260901-0001"})
		})
		return router
	}

	t.Run("replays cached response on retry", func(t *testing.T) {
		repo := &fakeIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
		calls := 0
		router := newRouter(repo, &calls)

		first := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/billing", nil)
		req.Header.Set(IdempotencyKeyHeader, "retry-abc")
		router.ServeHTTP(first, req)

		require.Equal(t, http.StatusCreated, first.Code)
		require.Equal(t, 1, calls)

		second := httptest.NewRecorder()
		retry := httptest.NewRequest("POST", "/billing", nil)
		retry.Header.Set(IdempotencyKeyHeader, "retry-abc")
		router.ServeHTTP(second, retry)

		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, 1, calls, "handler must not run twice for the same key")
		assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("no key passes through every time", func(t *testing.T) {
		repo := &fakeIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
		calls := 0
		router := newRouter(repo, &calls)

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/billing", nil))
			require.Equal(t, http.StatusCreated, w.Code)
		}
		assert.Equal(t, 2, calls)
	})

	t.Run("expired key is ignored", func(t *testing.T) {
		repo := &fakeIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{
			"stale-key": {
				Key:          "stale-key",
				UserID:       userID,
				ResponseCode: http.StatusCreated,
				ResponseBody: `{"bill_no":"INV-00000000-0000"}`,
				ExpiresAt:    time.Now().Add(-time.Hour),
			},
		}}
		calls := 0
		router := newRouter(repo, &calls)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/billing", nil)
		req.Header.Set(IdempotencyKeyHeader, "stale-key")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})
}
