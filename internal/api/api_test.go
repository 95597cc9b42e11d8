package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/keycloak"
	"todolist/internal/repository"
	"todolist/internal/service"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv wires the whole stack against an in-memory database, a
// stubbed identity provider and a pass-through auth middleware. The redis
// client is nil, which disables the list cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Activity{}))

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("POST /realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"admin-token"}`))
	})
	mux.HandleFunc("POST /admin/realms/todolist/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srv.URL+"/admin/realms/todolist/users/remote-123")
		w.WriteHeader(http.StatusCreated)
	})

	identity := keycloak.NewClient(&config.Config{
		KeycloakAdminURL: srv.URL,
		KeycloakTokenURL: srv.URL,
		KeycloakRealm:    "todolist",
	})
	users := service.NewUserService(repository.NewUserRepository(db), identity)
	activities := service.NewActivityService(repository.NewActivityRepository(db))

	passThrough := func(c *gin.Context) { c.Next() }
	return &testEnv{
		db:     db,
		router: NewRouter(users, activities, nil, passThrough),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func userPath(id uint) string {
	return "/users/" + strconv.Itoa(int(id))
}

func activityPath(id uint) string {
	return "/activities/" + strconv.Itoa(int(id))
}

func (e *testEnv) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", Password: repository.HashPassword("longenough")}
	require.NoError(t, e.db.Create(user).Error)
	return user
}
