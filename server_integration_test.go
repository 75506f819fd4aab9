package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roleapi/models"
	"roleapi/pkg/events"
)

func setupTestServer(t *testing.T) (*gin.Engine, string) {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	cfg := &Config{DSN: os.Getenv("DB_DSN"), AutoMigrate: true, SeedRoles: true, JWTSecret: testSecret}
	store, err := initDB(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	s := &server{roles: store, events: events.NopPublisher{}, log: zap.NewNop(), jwtSecret: testSecret}
	r := gin.New()
	s.setupRoutes(r)
	tok, err := issueToken(testSecret, "integration", time.Hour)
	require.NoError(t, err)
	return r, tok
}

func TestFullFlow(t *testing.T) {
	r, tok := setupTestServer(t)

	// 1. Seeded roles exist for every type
	for _, rt := range models.RoleTypes() {
		resp := performRequest(r, http.MethodGet, "/roles/by-type/"+rt.String(), nil, "")
		require.Equal(t, http.StatusOK, resp.Code)
		var roles []models.Role
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &roles))
		assert.NotEmpty(t, roles, "no seeded role for %s", rt)
	}

	// 2. Create
	resp := performRequest(r, http.MethodPost, "/roles", jsonBody(t, map[string]string{"type": "ROLE_CUSTOMER"}), tok)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created models.Role
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	// 3. Round trip
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/roles/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var fetched models.Role
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	// 4. Reassign type
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/roles/%d", created.ID), jsonBody(t, map[string]string{"type": "ROLE_ADMIN"}), tok)
	require.Equal(t, http.StatusOK, resp.Code)

	// 5. Null type is rejected
	resp = performRequest(r, http.MethodPost, "/roles", jsonBody(t, map[string]any{"type": nil}), tok)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	require.NoError(t, migrateCommand(nil, nil))
}
