// Package api is the client-framing collaborator (spec §1): a gin HTTP
// server that accepts key-value writes and reads, translates writes to
// raft.ClientSet commands forwarded into the local driver, and answers
// non-leader requests with a redirect hint — grounded on the teacher's
// implied HTTP surface over Node.Set/Delete/RedirectLeader (go.mod
// carries gin/cors/swag, but the retrieved pack's node.go stops at the
// Node methods themselves; this package supplies the HTTP layer those
// methods were evidently meant to sit behind).
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ginSwagger "github.com/swaggo/gin-swagger"
	swaggerFiles "github.com/swaggo/gin-swagger/swaggerFiles"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	_ "github.com/quorumkv/quorumkv/internal/api/docs"
	"github.com/quorumkv/quorumkv/internal/driver"
	"github.com/quorumkv/quorumkv/internal/store"
)

// writeTimeout bounds how long a write waits for its entry to commit
// before answering the client with a 503, grounded on the teacher's
// retry/backoff timeouts being in the tens-to-hundreds of milliseconds
// range scaled up for a client-facing wait.
const writeTimeout = 2 * time.Second

// Server is the client-facing HTTP surface for one replica.
type Server struct {
	driver *driver.Driver
	engine *gin.Engine
}

// New builds a Server wired to driver d.
func New(d *driver.Driver) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())

	s := &Server{driver: d, engine: engine}
	s.routes()
	return s
}

// Handler returns the wrapped http.Handler, with CORS applied — grounded
// on the teacher's go.mod carrying rs/cors alongside gin.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.engine)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) routes() {
	v1 := s.engine.Group("/v1")
	v1.GET("/kv/:key", s.handleGet)
	v1.PUT("/kv/:key", s.handleSet)
	v1.DELETE("/kv/:key", s.handleDelete)
	v1.GET("/status", s.handleStatus)

	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// handleGet godoc
// @Summary Read a key
// @Param key path string true "key"
// @Success 200 {object} valueResponse
// @Failure 404
// @Router /v1/kv/{key} [get]
func (s *Server) handleGet(c *gin.Context) {
	key := c.Param("key")
	v, ok := s.driver.Store().Get(key)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, valueResponse{Key: key, Value: v})
}

// handleSet godoc
// @Summary Write a key
// @Param key path string true "key"
// @Param body body setRequest true "value"
// @Success 200
// @Failure 409 {object} notLeaderResponse
// @Router /v1/kv/{key} [put]
func (s *Server) handleSet(c *gin.Context) {
	key := c.Param("key")
	var req setRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.submit(c, store.EncodeSet(key, req.Value))
}

// handleDelete godoc
// @Summary Delete a key
// @Param key path string true "key"
// @Success 200
// @Failure 409 {object} notLeaderResponse
// @Router /v1/kv/{key} [delete]
func (s *Server) handleDelete(c *gin.Context) {
	key := c.Param("key")
	s.submit(c, store.EncodeDel(key))
}

// submit forwards a write command to the driver and blocks for its
// commit, answering the client-framing contract of spec §4.9.
func (s *Server) submit(c *gin.Context, cmd string) {
	cmdID := driver.NewCmdID()
	if !s.driver.SubmitLocal(cmdID, cmd) {
		hint := s.driver.LeaderHint()
		c.JSON(http.StatusConflict, notLeaderResponse{LeaderHint: hint})
		return
	}
	if !s.driver.Wait(cmdID, writeTimeout) {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.Status(http.StatusOK)
}

// handleStatus godoc
// @Summary Report this replica's role
// @Success 200 {object} statusResponse
// @Router /v1/status [get]
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		IsLeader: s.driver.IsLeader(),
		Leader:   s.driver.LeaderHint(),
	})
}

type valueResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type setRequest struct {
	Value string `json:"value"`
}

type notLeaderResponse struct {
	LeaderHint string `json:"leader_hint,omitempty"`
}

type statusResponse struct {
	IsLeader bool   `json:"is_leader"`
	Leader   string `json:"leader,omitempty"`
}
