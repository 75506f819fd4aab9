package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"roleapi/models"
	"roleapi/pkg/events"
	"roleapi/pkg/rolestore"
)

const publishTimeout = 5 * time.Second

type server struct {
	roles     rolestore.Repository
	events    events.Publisher
	log       *zap.Logger
	jwtSecret []byte
}

func (s *server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/roles", s.listRolesHandler)
	r.GET("/roles/types", roleTypesHandler)
	r.GET("/roles/by-type/:type", s.rolesByTypeHandler)
	r.GET("/roles/:id", s.getRoleHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware(s.jwtSecret))
	authGroup.POST("/roles", s.createRoleHandler)
	authGroup.PUT("/roles/:id", s.updateRoleHandler)
}

type roleRequest struct {
	Type models.RoleType `json:"type"`
}

func roleTypesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.RoleTypes())
}

func (s *server) listRolesHandler(c *gin.Context) {
	roles, err := s.roles.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (s *server) getRoleHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := s.roles.FindByID(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *server) rolesByTypeHandler(c *gin.Context) {
	t, err := models.ParseRoleType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roles, err := s.roles.FindByType(c.Request.Context(), t)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (s *server) createRoleHandler(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := models.NewRole(req.Type)
	if err := s.roles.Create(c.Request.Context(), r); err != nil {
		s.writeError(c, err)
		return
	}
	s.publish(c, events.RoleCreated, r)
	c.JSON(http.StatusCreated, r)
}

func (s *server) updateRoleHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := s.roles.UpdateType(c.Request.Context(), id, req.Type)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.publish(c, events.RoleUpdated, r)
	c.JSON(http.StatusOK, r)
}

// publish never fails the request; the write is already committed.
func (s *server) publish(c *gin.Context, kind events.Kind, r *models.Role) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), publishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, events.NewEvent(kind, r)); err != nil {
		s.log.Warn("event publish failed", zap.String("kind", string(kind)), zap.Uint("role_id", r.ID), zap.Error(err))
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return 0, false
	}
	return uint(id), true
}

func (s *server) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, rolestore.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, rolestore.ErrConstraintViolation), errors.Is(err, rolestore.ErrAlreadyPersisted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, rolestore.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("role store failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
