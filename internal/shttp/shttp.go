package shttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/willie68/go_vtrender/internal/logging"
)

const shutdownTimeout = 10 * time.Second

type portConfig interface {
	GetPort() int
	GetHealthPort() int
}

// SHttp runs the api server and the health server
type SHttp struct {
	log        *logging.Logger
	port       int
	healthPort int
	servers    []*http.Server
}

func Init(inj do.Injector) {
	pc := do.MustInvokeAs[portConfig](inj)
	do.ProvideValue(inj, New(pc.GetPort(), pc.GetHealthPort()))
}

// New creates the servers, a health port of 0 serves the health routes on the api port
func New(port, healthPort int) *SHttp {
	return &SHttp{
		log:        logging.New().WithName("shttp"),
		port:       port,
		healthPort: healthPort,
	}
}

// StartServers starts listening, the servers are running in the background
func (s *SHttp) StartServers(router, healthRouter http.Handler) error {
	if s.healthPort == 0 || s.healthPort == s.port {
		mux := http.NewServeMux()
		mux.Handle("/health/", http.StripPrefix("/health", healthRouter))
		mux.Handle("/", router)
		return s.start(s.port, mux)
	}
	if err := s.start(s.port, router); err != nil {
		return err
	}
	return s.start(s.healthPort, healthRouter)
}

func (s *SHttp) start(port int, handler http.Handler) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("can't listen on port %d: %w", port, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.servers = append(s.servers, srv)
	s.log.Infof("listening on %s", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("error on serving port %d: %v", port, err)
		}
	}()
	return nil
}

// ShutdownServers stops all servers gracefully
func (s *SHttp) ShutdownServers() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range s.servers {
		if err := srv.Shutdown(ctx); err != nil {
			s.log.Errorf("error on shutdown: %v", err)
		}
	}
	s.servers = nil
}
