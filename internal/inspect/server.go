// Package inspect exposes a device stack over HTTP for bench debugging.
package inspect

import (
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/binwire/internal/device"
	"github.com/danmuck/binwire/internal/observability"
	"github.com/danmuck/binwire/internal/protocol"
	"github.com/danmuck/binwire/internal/protocol/codec"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrBadRequest = errors.New("inspect: bad request")

type Server struct {
	Addr    string
	Started time.Time

	stack  *device.Stack
	router *gin.Engine
}

// DecodeRequest carries a raw payload as hex.
type DecodeRequest struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Internal   bool   `json:"internal"`
	PayloadHex string `json:"payload_hex"`
}

// EncodeRequest carries an application value as arbitrary JSON.
type EncodeRequest struct {
	ID       string              `json:"id"`
	Type     string              `json:"type"`
	Internal bool                `json:"internal"`
	Value    jsoniter.RawMessage `json:"value"`
}

type CodecInfo struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func New(stack *device.Stack, addr string, corsOrigins []string) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(stack.Name()))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		Addr:    addr,
		Started: time.Now(),
		stack:   stack,
		router:  r,
	}
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Started).String(),
			"profile": s.stack.Name(),
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.GET("/codecs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"codecs": listCodecs(s.stack.Registry())})
	})
	v1.GET("/clocks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"clocks": s.stack.Clocks()})
	})
	v1.POST("/clocks/:name/reset", func(c *gin.Context) {
		if err := s.stack.ResetClock(c.Param("name")); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	v1.POST("/decode", s.handleDecode)
	v1.POST("/encode", s.handleEncode)
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	log.Info().Str("addr", s.Addr).Str("profile", s.stack.Name()).Msg("inspection server listening")
	return s.router.Run(s.Addr)
}

func (s *Server) handleDecode(c *gin.Context) {
	var req DecodeRequest
	if err := readJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	t, err := parseType(req.Type)
	if err != nil {
		s.fail(c, err)
		return
	}
	payload, err := hex.DecodeString(strings.TrimSpace(req.PayloadHex))
	if err != nil {
		s.fail(c, badRequest("payload_hex", err))
		return
	}

	msg := protocol.NewRawMessage(req.ID, t, payload)
	msg.Internal = req.Internal
	used, err := s.stack.Decode(msg)
	if err != nil {
		s.fail(c, err)
		return
	}
	value, _ := msg.Payload.Value()
	c.JSON(http.StatusOK, gin.H{"codec": used.Name(), "value": Renderable(value)})
}

func (s *Server) handleEncode(c *gin.Context) {
	var req EncodeRequest
	if err := readJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	t, err := parseType(req.Type)
	if err != nil {
		s.fail(c, err)
		return
	}
	var value any
	if len(req.Value) > 0 {
		if err := json.Unmarshal(req.Value, &value); err != nil {
			s.fail(c, badRequest("value", err))
			return
		}
	}

	msg := protocol.NewMessage(req.ID, t, value)
	msg.Internal = req.Internal
	used, err := s.stack.Encode(msg)
	if err != nil {
		s.fail(c, err)
		return
	}
	raw, _ := msg.Payload.Bytes()
	c.JSON(http.StatusOK, gin.H{"codec": used.Name(), "payload_hex": hex.EncodeToString(raw)})
}

func (s *Server) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps stack errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, protocol.ErrNoCodecMatched), errors.Is(err, device.ErrUnknownClock):
		return http.StatusNotFound
	case errors.Is(err, protocol.ErrInvalidPayloadType),
		errors.Is(err, protocol.ErrInvalidLength),
		errors.Is(err, protocol.ErrUnsupportedDirection),
		errors.Is(err, protocol.ErrPayloadState):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Renderable rewrites decoded values whose default JSON form would hide the
// numbers, such as []uint8 which encodes as base64.
func Renderable(value any) any {
	switch v := value.(type) {
	case []uint8:
		out := make([]int, len(v))
		for i, b := range v {
			out[i] = int(b)
		}
		return out
	case codec.Timestamped:
		v.Value = Renderable(v.Value)
		return v
	}
	return value
}

func readJSON(c *gin.Context, out any) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return badRequest("body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return badRequest("body", err)
	}
	return nil
}

func parseType(raw string) (protocol.WireType, error) {
	t, err := protocol.ParseWireType(raw)
	if err != nil {
		return 0, badRequest("type", err)
	}
	return t, nil
}

func badRequest(field string, err error) error {
	return &requestError{field: field, err: err}
}

type requestError struct {
	field string
	err   error
}

func (e *requestError) Error() string {
	return "inspect: invalid " + e.field + ": " + e.err.Error()
}

func (e *requestError) Is(target error) bool {
	return target == ErrBadRequest
}

func (e *requestError) Unwrap() error {
	return e.err
}

func listCodecs(r *codec.Registry) []CodecInfo {
	codecs := r.Codecs()
	out := make([]CodecInfo, len(codecs))
	for i, c := range codecs {
		out[i] = CodecInfo{Position: i, Name: c.Name()}
	}
	return out
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
