package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todolist/internal/config"
	"todolist/internal/domain"
	"todolist/internal/keycloak"
	"todolist/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Activity{}))
	return db
}

// identityStub fakes the two identity provider endpoints registration
// needs, recording what it received.
type identityStub struct {
	mux *http.ServeMux

	failCreate   bool
	createdUsers []keycloak.UserRepresentation
	deletedIDs   []string
}

func newIdentityStub(t *testing.T) (*identityStub, *httptest.Server) {
	t.Helper()
	stub := &identityStub{mux: http.NewServeMux()}
	srv := httptest.NewServer(stub.mux)
	t.Cleanup(srv.Close)

	stub.mux.HandleFunc("POST /realms/master/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"admin-token"}`))
	})
	stub.mux.HandleFunc("POST /admin/realms/todolist/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if stub.failCreate {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("provider exploded"))
			return
		}
		var user keycloak.UserRepresentation
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		stub.createdUsers = append(stub.createdUsers, user)
		w.Header().Set("Location", srv.URL+"/admin/realms/todolist/users/remote-123")
		w.WriteHeader(http.StatusCreated)
	})
	stub.mux.HandleFunc("DELETE /admin/realms/todolist/users/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		stub.deletedIDs = append(stub.deletedIDs, parts[len(parts)-1])
		w.WriteHeader(http.StatusNoContent)
	})
	return stub, srv
}

func newTestUserService(t *testing.T, db *gorm.DB) (*UserService, *identityStub) {
	t.Helper()
	stub, srv := newIdentityStub(t)
	client := keycloak.NewClient(&config.Config{
		KeycloakAdminURL:      srv.URL,
		KeycloakTokenURL:      srv.URL,
		KeycloakRealm:         "todolist",
		KeycloakAdminUsername: "admin",
		KeycloakAdminPassword: "admin",
	})
	return NewUserService(repository.NewUserRepository(db), client), stub
}
