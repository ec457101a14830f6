package testing

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// MygramServer is an in-process fake MygramDB for client tests: a real TCP
// listener speaking the line protocol, with canned responses per command
// line. Responses are written in a single Write to match the client's
// single-receive framing.
type MygramServer struct {
	ln net.Listener

	mu        sync.Mutex
	responses map[string]string
	handler   func(command string) string
	requests  []string
}

// NewMygramServer starts a stub server on a loopback port and registers
// cleanup with the test.
func NewMygramServer(tb testing.TB) *MygramServer {
	tb.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to listen: %v", err)
	}

	s := &MygramServer{
		ln:        ln,
		responses: make(map[string]string),
	}

	go s.serve()

	tb.Cleanup(func() {
		_ = ln.Close()
	})

	return s
}

func (s *MygramServer) Host() string {
	return "127.0.0.1"
}

func (s *MygramServer) Port() int {
	port, _ := strconv.Atoi(s.portString())
	return port
}

func (s *MygramServer) portString() string {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	return port
}

// Respond registers a canned response for an exact command line. The
// response should not include the trailing CRLF; multi-line responses embed
// CRLF between lines.
func (s *MygramServer) Respond(command, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[command] = response
}

// RespondFunc installs a catch-all handler consulted when no exact response
// matches.
func (s *MygramServer) RespondFunc(fn func(command string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = fn
}

// Requests returns a copy of every command line received so far.
func (s *MygramServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent command line, or "".
func (s *MygramServer) LastRequest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return ""
	}
	return s.requests[len(s.requests)-1]
}

func (s *MygramServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *MygramServer) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		command := strings.TrimSuffix(scanner.Text(), "\r")

		s.mu.Lock()
		s.requests = append(s.requests, command)
		response, ok := s.responses[command]
		handler := s.handler
		s.mu.Unlock()

		if !ok {
			if handler != nil {
				response = handler(command)
			} else {
				response = "ERROR unknown command"
			}
		}
		if response == silentResponse {
			continue
		}

		if _, err := conn.Write([]byte(response + "\r\n")); err != nil {
			return
		}
	}
}

// Silence makes the server swallow a command without responding, for
// timeout tests.
const silentResponse = "\x00silent\x00"

func (s *MygramServer) Silence(command string) {
	s.Respond(command, silentResponse)
}
