// Package fakebackend serves the two sandbox endpoints with deterministic
// responses. It backs the client tests and the end-to-end scenarios.
package fakebackend

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/mattsolo1/grove-sandbox/pkg/backend"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
	"github.com/sirupsen/logrus"
)

// Server is an in-memory stand-in for the character sandbox backend.
type Server struct {
	echo   *echo.Echo
	logger *logrus.Logger

	mu                 sync.Mutex
	failInitialize     bool
	failContinue       bool
	reflectOnFirstTurn bool
	initializeRequests []backend.InitializeCharactersRequest
	continueRequests   []sandbox.Conversation
}

// Option configures a Server.
type Option func(*Server)

// WithInitializeFailure makes /initializeCharacters answer 500.
func WithInitializeFailure() Option {
	return func(s *Server) { s.failInitialize = true }
}

// WithContinueFailure makes /continueConversation answer 500.
func WithContinueFailure() Option {
	return func(s *Server) { s.failContinue = true }
}

// WithSelfReflection makes each character open with a self-reflection turn
// the first time it speaks.
func WithSelfReflection() Option {
	return func(s *Server) { s.reflectOnFirstTurn = true }
}

// WithLogger logs every request to logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a fake backend.
func New(opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger != nil {
		e.Use(s.logRequests)
	}
	e.POST(backend.InitializeCharactersPath, s.initializeCharacters)
	e.POST(backend.ContinueConversationPath, s.continueConversation)
	return s
}

// ServeHTTP lets the server be mounted on httptest.NewServer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until the process exits.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		status := c.Response().Status
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
		}
		entry := s.logger.WithFields(logrus.Fields{
			"method":     c.Request().Method,
			"path":       c.Request().URL.Path,
			"status":     status,
			"request_id": c.Request().Header.Get(backend.RequestIDHeader),
		})
		if err != nil {
			entry.WithError(err).Warn("Request failed")
		} else {
			entry.Info("Request handled")
		}
		return err
	}
}

// InitializeRequests returns the roster requests received so far.
func (s *Server) InitializeRequests() []backend.InitializeCharactersRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]backend.InitializeCharactersRequest, len(s.initializeRequests))
	copy(out, s.initializeRequests)
	return out
}

// ContinueRequests returns the conversations received so far.
func (s *Server) ContinueRequests() []sandbox.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sandbox.Conversation, len(s.continueRequests))
	copy(out, s.continueRequests)
	return out
}

func (s *Server) initializeCharacters(c echo.Context) error {
	req := new(backend.InitializeCharactersRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	s.initializeRequests = append(s.initializeRequests, *req)
	fail := s.failInitialize
	s.mu.Unlock()

	if fail {
		return echo.NewHTTPError(http.StatusInternalServerError, "character generation unavailable")
	}

	state := sandbox.InitializerState{Count: req.Count, HumanEnabled: req.UserEngagementEnabled}
	if err := state.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, backend.DefaultRoster(req.Count, req.UserEngagementEnabled))
}

func (s *Server) continueConversation(c echo.Context) error {
	req := new(backend.ContinueConversationRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	conversation := req.Conversation.Normalize()

	s.mu.Lock()
	s.continueRequests = append(s.continueRequests, conversation)
	fail := s.failContinue
	reflect := s.reflectOnFirstTurn
	s.mu.Unlock()

	if fail {
		return echo.NewHTTPError(http.StatusInternalServerError, "turn generation unavailable")
	}

	speaker, ok := nextSpeaker(conversation)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation has no AI participants")
	}

	content := reply(conversation, speaker)
	if reflect && !hasSpoken(conversation, speaker.Name) {
		conversation = conversation.AppendTurn(sandbox.DialogTurn{
			Participant: speaker.Name,
			Content:     fmt.Sprintf("%s: %s", sandbox.SelfReflectionPrefix, speaker.Backstory),
		})
	}
	conversation = conversation.AppendTurn(sandbox.DialogTurn{
		Participant: speaker.Name,
		Content:     content,
	})

	return c.JSON(http.StatusOK, conversation)
}

// nextSpeaker rotates through the AI participants, starting after whoever
// spoke last.
func nextSpeaker(conversation sandbox.Conversation) (sandbox.Participant, bool) {
	ais := conversation.AIs()
	if len(ais) == 0 {
		return sandbox.Participant{}, false
	}
	for i := len(conversation.DialogTurns) - 1; i >= 0; i-- {
		last := conversation.DialogTurns[i].Participant
		for j, ai := range ais {
			if ai.Name == last {
				return ais[(j+1)%len(ais)], true
			}
		}
	}
	return ais[0], true
}

func hasSpoken(conversation sandbox.Conversation, name string) bool {
	for _, turn := range conversation.DialogTurns {
		if turn.Participant == name {
			return true
		}
	}
	return false
}

func reply(conversation sandbox.Conversation, speaker sandbox.Participant) string {
	n := len(conversation.DialogTurns)
	if n > 0 && conversation.DialogTurns[n-1].IsStranger() {
		return fmt.Sprintf("%s answers the stranger: %q", speaker.Name, conversation.DialogTurns[n-1].Content)
	}
	return fmt.Sprintf("%s picks up the thread.", speaker.Name)
}
