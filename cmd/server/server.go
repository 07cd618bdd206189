package main

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nickyhof/RowDB"
	"github.com/nickyhof/RowDB/core"
)

// Server is a TCP SQL server that exposes the RowDB engine.
type Server struct {
	listener   net.Listener
	instance   *RowDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	tlsConfig  *tls.Config
	logger     *log.Logger
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
	connMu     sync.Mutex
	conns      map[net.Conn]struct{}
}

// NewServer creates a server that runs every statement as identity.
func NewServer(instance *RowDB.Instance, identity core.Identity) *Server {
	logger := instance.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		instance: instance,
		identity: identity,
		logger:   logger,
		done:     make(chan struct{}),
		conns:    make(map[net.Conn]struct{}),
	}
}

// NewServerWithAuth creates a server that requires every connection to
// authenticate before running statements.
func NewServerWithAuth(instance *RowDB.Instance, authConfig *AuthConfig) *Server {
	server := NewServer(instance, core.Identity{})
	server.authConfig = authConfig
	return server
}

// Start begins listening for plain TCP connections on addr.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.serve(listener)
}

// StartTLS begins listening for TLS connections on addr.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	s.tlsConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	listener, err := tls.Listen("tcp", addr, s.tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	return s.serve(listener)
}

func (s *Server) serve(listener net.Listener) error {
	s.listener = listener
	s.logger.Printf("[INFO] SQL server listening on %s (tls: %t, auth: %t)",
		listener.Addr(), s.TLSEnabled(), s.authConfig != nil)

	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every open connection, then waits for the
// connection handlers to return.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}

	s.connMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Server) track(conn net.Conn, open bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if open {
		s.conns[conn] = struct{}{}
		if s.stopping() {
			conn.Close()
		}
	} else {
		delete(s.conns, conn)
	}
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) TLSEnabled() bool {
	return s.tlsConfig != nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logger.Printf("[ERROR] accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()
	s.track(conn, true)
	defer s.track(conn, false)

	state := &ConnectionState{
		id:            uuid.NewString(),
		identity:      s.identity,
		authenticated: s.authConfig == nil,
	}
	s.logger.Printf("[INFO] %s: client connected from %s", state.id, conn.RemoteAddr())

	reader := bufio.NewReader(conn)

	for !s.stopping() {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF && !s.stopping() {
				s.logger.Printf("[WARN] %s: read error: %v", state.id, err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		if strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
			s.logger.Printf("[INFO] %s: client disconnected", state.id)
			return
		}

		data, err := EncodeResponse(s.respond(query, state))
		if err != nil {
			s.logger.Printf("[ERROR] %s: failed to encode response: %v", state.id, err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			s.logger.Printf("[WARN] %s: write error: %v", state.id, err)
			return
		}
	}
}

func (s *Server) stopping() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Server) respond(query string, state *ConnectionState) Response {
	if isAuthCommand(query) {
		return s.handleAuth(query, state)
	}

	if s.authConfig != nil {
		if state.authenticated && state.expired(time.Now()) {
			state.authenticated = false
			return Response{Success: false, Error: "token expired: send AUTH JWT <token>"}
		}
		if !state.authenticated {
			return errorResponse(errAuthRequired)
		}
	}

	return s.executeQuery(query, state)
}

func (s *Server) executeQuery(query string, state *ConnectionState) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.instance.Engine(state.identity).Execute(query)
	if err != nil {
		s.logger.Printf("[WARN] %s: %v", state.id, err)
		return errorResponse(err)
	}
	return resultResponse(result)
}
