// Package server exposes the bridge over a localhost TCP socket using
// newline-delimited JSON requests, so processes without an embedded copy of
// the engine can submit inference jobs to one shared environment.
//
// One bridge backs all connections: the first run request starts the
// embedded environment, every later request reuses it. A request either
// succeeds with {"status":"ok","result":...} or fails with
// {"status":"failed","message":...}; a failed request also closes its
// connection, since the client's framing can no longer be trusted.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/linqs/psl-runtime-go/value"
)

// maxMessageBytes bounds a single request line.
const maxMessageBytes = 1 << 20

// Runner executes one inference job. *bridge.Bridge satisfies it.
type Runner interface {
	Run(ctx context.Context, config any, basePath string, options ...string) (value.Value, error)
}

// Server accepts newline-delimited JSON task requests over TCP.
type Server struct {
	listener  net.Listener
	runner    Runner
	wg        sync.WaitGroup
	closeOnce sync.Once
	closing   chan struct{}
}

// New creates a server listening on addr. An empty addr picks a random
// localhost port; Addr reports the bound address.
func New(addr string, runner Runner) (*Server, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return &Server{
		listener: listener,
		runner:   runner,
		closing:  make(chan struct{}),
	}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve accepts connections until Close is called. It returns nil on a
// clean close and the accept error otherwise.
func (s *Server) Serve() error {
	Logger().Info("server listening", zap.String("addr", s.Addr()))

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.closing:
				s.wg.Wait()
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops the listener. In-flight connections are allowed to finish
// their current request.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closing)
		err = s.listener.Close()
		Logger().Info("server closed")
	})
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	Logger().Debug("connection opened", zap.String("remote", remote))

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxMessageBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp, keepOpen, closeServer := s.handleRequest(line)
		if werr := writeResponse(conn, resp); werr != nil {
			Logger().Warn("write response", zap.String("remote", remote), zap.Error(werr))
			return
		}

		if closeServer {
			s.Close()
			return
		}
		if !keepOpen {
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		Logger().Warn("read request", zap.String("remote", remote), zap.Error(err))
	}
}

// handleRequest dispatches one request line. The server never recovers a
// failed run; the bridge's error is reported verbatim in the message field.
func (s *Server) handleRequest(line []byte) (resp Response, keepOpen, closeServer bool) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return failed("payload is not valid json: %v", err), false, false
	}

	switch req.Task {
	case TaskRun:
		resp := s.handleRun(req)
		return resp, resp.Status == StatusOK, false
	case TaskExit:
		return Response{Status: StatusOK}, false, false
	case TaskCloseServer:
		return Response{Status: StatusOK}, false, true
	default:
		return failed("unknown task %q", req.Task), false, false
	}
}

func (s *Server) handleRun(req Request) Response {
	config, err := value.Unmarshal(string(req.Config))
	if err != nil {
		return failed("config is not valid json: %v", err)
	}

	result, err := s.runner.Run(context.Background(), config, req.BasePath, req.Options...)
	if err != nil {
		Logger().Warn("run failed", zap.Error(err))
		return failed("run failed: %v", err)
	}

	text, err := value.Marshal(result)
	if err != nil {
		return failed("encode result: %v", err)
	}

	return Response{Status: StatusOK, Result: json.RawMessage(text)}
}

func failed(format string, args ...any) Response {
	return Response{
		Status:  StatusFailed,
		Message: fmt.Sprintf(format, args...),
	}
}

func writeResponse(conn net.Conn, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = conn.Write(append(data, '\n'))
	return err
}
