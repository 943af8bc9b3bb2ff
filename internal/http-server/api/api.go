package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/holica49/led-rental-chatbot-sub000/internal/config"
	handlerrors "github.com/holica49/led-rental-chatbot-sub000/internal/http-server/handlers/errors"
	"github.com/holica49/led-rental-chatbot-sub000/internal/http-server/handlers/kakao"
	"github.com/holica49/led-rental-chatbot-sub000/internal/http-server/handlers/project"
	"github.com/holica49/led-rental-chatbot-sub000/internal/http-server/middleware/timeout"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
	"github.com/holica49/led-rental-chatbot-sub000/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Handler is the full surface the HTTP layer talks to.
type Handler interface {
	kakao.Engine
	project.Core
}

// tokenAuth validates dashboard WebSocket connections against the
// configured static token.
type tokenAuth struct {
	token string
}

func (a tokenAuth) ValidateToken(token string) error {
	if a.token == "" || token != a.token {
		return errors.New("invalid token")
	}
	return nil
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(handlerrors.NotFound(log))
	router.MethodNotAllowed(handlerrors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/kakao", func(r chi.Router) {
			r.Post("/skill", kakao.Skill(log, handler))
		})
		v1.Route("/projects", func(r chi.Router) {
			r.Get("/recent", project.Recent(log, handler))
			r.Get("/", project.Get(log, handler))
		})
	})

	if hub != nil {
		auth := tokenAuth{token: conf.Listen.DashboardToken}
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, auth, log, w, r)
		})
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
