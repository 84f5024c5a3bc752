package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/miguelmmattar/batepapo-uol-api/chat"
	"github.com/miguelmmattar/batepapo-uol-api/contexthelper"
	"github.com/miguelmmattar/batepapo-uol-api/model"
)

// userHeader carries the trusted requester name on message and status calls.
const userHeader = "user"

type Server struct {
	port     int64
	registry *chat.Registry
	messages *chat.MessageLog
	e        *echo.Echo
}

// NewServer returns a new server.
func NewServer(port int64, registry *chat.Registry, messages *chat.MessageLog) *Server {
	return &Server{
		port:     port,
		registry: registry,
		messages: messages,
		e:        echo.New(),
	}
}

func (s *Server) StartServer() error {
	e := s.e
	e.Logger.SetLevel(log.INFO)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	//enable cors
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))
	s.registerRoutes(e)
	return e.Start(fmt.Sprintf(":%d", s.port))
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/ping", s.Ping)
	e.POST("/participants", s.RegisterParticipant)
	e.GET("/participants", s.ListParticipants)
	e.POST("/messages", s.PostMessage)
	e.GET("/messages", s.GetMessages)
	e.PUT("/messages/:id", s.EditMessage)
	e.DELETE("/messages/:id", s.DeleteMessage)
	e.POST("/status", s.Heartbeat)
}

func (s *Server) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	return s.e.Shutdown(ctx)
}

func (s *Server) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "batepapo-uol-api is running")
}

// handleError maps the chat error taxonomy to HTTP status codes. Validation
// failures carry their messages back as an error list; store failures
// surface their text with a 500.
func (s *Server) handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, chat.ErrInvalidName),
		errors.Is(err, chat.ErrInvalidMessage),
		errors.Is(err, chat.ErrUnknownSender):
		return c.JSON(http.StatusUnprocessableEntity, map[string][]string{"errors": {err.Error()}})
	case errors.Is(err, chat.ErrNameTaken):
		return c.NoContent(http.StatusConflict)
	case errors.Is(err, chat.ErrNotFound):
		return c.NoContent(http.StatusNotFound)
	case errors.Is(err, chat.ErrForbidden):
		return c.NoContent(http.StatusUnauthorized)
	default:
		c.Logger().Error(err)
		return c.String(http.StatusInternalServerError, err.Error())
	}
}

// RegisterParticipant is to register a new participant in the room.
func (s *Server) RegisterParticipant(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if err := s.registry.Register(c.Request().Context(), req.Name); err != nil {
		return s.handleError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) ListParticipants(c echo.Context) error {
	participants, err := s.registry.List(c.Request().Context())
	if err != nil {
		return s.handleError(c, err)
	}
	if participants == nil {
		participants = []model.Participant{}
	}
	return c.JSON(http.StatusOK, participants)
}

func (s *Server) PostMessage(c echo.Context) error {
	if contexthelper.CheckCancellation(c.Request().Context()) != nil {
		return c.NoContent(http.StatusRequestTimeout)
	}
	var req model.MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	from := c.Request().Header.Get(userHeader)
	if _, err := s.messages.Append(c.Request().Context(), from, req); err != nil {
		return s.handleError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) GetMessages(c echo.Context) error {
	if contexthelper.CheckCancellation(c.Request().Context()) != nil {
		return c.NoContent(http.StatusRequestTimeout)
	}
	user := c.Request().Header.Get(userHeader)
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		// limit=0 means no limit, same as leaving it out
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusUnprocessableEntity, map[string][]string{"errors": {"limit must be a non-negative integer"}})
		}
		limit = n
	}
	messages, err := s.messages.ListVisibleTo(c.Request().Context(), user, limit)
	if err != nil {
		return s.handleError(c, err)
	}
	if messages == nil {
		messages = []model.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

// EditMessage is to update an existing message; only its sender may do so.
func (s *Server) EditMessage(c echo.Context) error {
	var req model.MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	id := c.Param("id")
	requester := c.Request().Header.Get(userHeader)
	if err := s.messages.Edit(c.Request().Context(), id, requester, req); err != nil {
		return s.handleError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// DeleteMessage is to delete a message; only its sender may do so.
func (s *Server) DeleteMessage(c echo.Context) error {
	id := c.Param("id")
	requester := c.Request().Header.Get(userHeader)
	if err := s.messages.Delete(c.Request().Context(), id, requester); err != nil {
		return s.handleError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// Heartbeat refreshes the requester's presence.
func (s *Server) Heartbeat(c echo.Context) error {
	user := c.Request().Header.Get(userHeader)
	if err := s.registry.Heartbeat(c.Request().Context(), user); err != nil {
		return s.handleError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
