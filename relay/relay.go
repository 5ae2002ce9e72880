// Package relay implements the medi8 HTTP surface: a stateless relay that
// validates incoming chat requests, forwards them to a completion provider,
// and returns the generated reply. Each request is a linear pass through
// validation and one upstream call; nothing outlives the exchange.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	recoverer "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/awr103/medi8-final/pkg/chat"
)

// Completer issues a single completion attempt against the upstream provider.
type Completer interface {
	Complete(ctx context.Context, messages []chat.Message) (chat.Reply, error)
}

// Server is the relay HTTP server. It owns no mutable cross-request state
// besides the limiter's counters, which live inside the middleware.
type Server struct {
	config  Config
	gateway Completer
	logger  *zap.Logger
	app     *fiber.App
}

// New creates a Server wired to the given gateway. Middleware order matters:
// panic recovery and request ids wrap everything, hardening headers and CORS
// apply to every response, and the limiter guards /chat before the request
// body is ever parsed.
func New(config Config, gateway Completer, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		gateway: gateway,
		logger:  logger,
		app:     app,
	}

	app.Use(recoverer.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(helmet.New())
	app.Use(cors.New())

	// Register routes
	app.Get("/", s.handleLiveness)
	app.Post("/chat", s.rateLimiter(), s.handleChat)

	return s
}

// Run starts the relay server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting relay server",
		zap.String("listen", s.config.ListenAddr),
		zap.String("upstream", s.config.UpstreamURL),
		zap.String("model", s.config.Model),
	)

	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// rateLimiter caps /chat calls per client IP within a fixed window. Excess
// calls are rejected here, before validation or any body parsing.
func (s *Server) rateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.config.RateMax,
		Expiration: s.config.RateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			s.logger.Warn("rate limit exceeded",
				zap.String("ip", c.IP()),
				zap.String("request_id", requestID(c)),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(chat.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	})
}

// handleLiveness is the static liveness endpoint.
func (s *Server) handleLiveness(c *fiber.Ctx) error {
	s.logger.Debug("liveness probe", zap.String("ip", c.IP()))
	return c.SendString("Medi8 API is running")
}

// handleChat is the single request path: decode, validate, forward, reply.
// Validation failures are surfaced verbatim with a 400; upstream failures are
// logged in full but answered with an opaque 500.
func (s *Server) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()

	var req chat.Request
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		s.logger.Debug("rejected undecodable body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(chat.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		s.logger.Debug("rejected invalid request",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadRequest).JSON(chat.ErrorResponse{Error: err.Error()})
	}

	reply, err := s.gateway.Complete(c.Context(), req.Messages)
	if err != nil {
		var upstream *chat.UpstreamError
		if !errors.As(err, &upstream) {
			// The gateway contract is that every failure is an UpstreamError;
			// treat anything else the same way rather than leaking it.
			s.logger.Warn("gateway returned untyped error", zap.Error(err))
		}
		s.logger.Error("completion failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(chat.ErrorResponse{Error: "Internal Server Error"})
	}

	s.logger.Info("chat relayed",
		zap.String("request_id", requestID(c)),
		zap.Int("message_count", len(req.Messages)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(reply)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
