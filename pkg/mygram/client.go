// Package mygram is a client for MygramDB, an n-gram full-text search server
// speaking a line-oriented TCP protocol. Commands are single CRLF-terminated
// lines; responses are read in one buffered receive, which is the protocol's
// native framing (multi-line responses such as INFO carry no terminator and
// arrive in the same read).
//
// Search expressions are compiled through pkg/query before hitting the wire:
// simple expressions become a main term plus AND/NOT clause lists, complex
// ones (OR, grouping) travel verbatim for the server's boolean grammar.
package mygram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 11016
	DefaultTimeout        = 5 * time.Second
	DefaultRecvBufferSize = 64 * 1024
)

// Config holds connection settings. The zero value is usable: every field
// falls back to its Default* constant.
type Config struct {
	Host string
	Port int
	// Timeout bounds dialing and each send/receive cycle. A context deadline
	// tightens it further but never extends it.
	Timeout time.Duration
	// RecvBufferSize caps a single response. Responses larger than this are
	// truncated by the protocol's single-receive framing.
	RecvBufferSize int
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RecvBufferSize <= 0 {
		c.RecvBufferSize = DefaultRecvBufferSize
	}
	return c
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client is a blocking MygramDB client over a single TCP connection. One
// request is in flight at a time; concurrent callers serialize on an internal
// mutex. There is no pooling and no automatic reconnection.
type Client struct {
	cfg Config

	mu   sync.Mutex
	conn net.Conn
	buf  []byte
}

func New(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// Addr returns the host:port this client targets.
func (c *Client) Addr() string {
	return c.cfg.addr()
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return ErrAlreadyConnected
	}

	d := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.cfg.addr())
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.cfg.addr(), err)
	}

	c.conn = conn
	c.buf = make([]byte, c.cfg.RecvBufferSize)
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// roundTrip sends one command line and reads one response. The response is
// read with a single receive into the configured buffer and stripped of
// trailing CR/LF. Cancellation is deadline-based: a context deadline earlier
// than the configured timeout wins; a bare cancellation is only observed
// before the send.
func (c *Client) roundTrip(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return "", ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("set deadline: %w", err)
	}

	if _, err := c.conn.Write([]byte(command + "\r\n")); err != nil {
		return "", fmt.Errorf("send command: %w", err)
	}

	n, err := c.conn.Read(c.buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrConnectionClosed
		}
		return "", fmt.Errorf("receive response: %w", err)
	}

	return strings.TrimRight(string(c.buf[:n]), "\r\n"), nil
}

func (c *Client) exec(ctx context.Context, command string) (string, error) {
	resp, err := c.roundTrip(ctx, command)
	if err != nil {
		return "", err
	}
	if err := serverError(resp); err != nil {
		return "", err
	}
	return resp, nil
}

// Search runs a full-text query against a table. The expression uses the
// pkg/query syntax; compilation errors surface as *query.SyntaxError before
// anything is sent.
func (c *Client) Search(ctx context.Context, table, expression string, opts ...SearchOption) (*SearchResult, error) {
	if err := validateIdentifier("table name", table); err != nil {
		return nil, err
	}

	o := newSearchOptions(opts)
	if o.sortBy != "" {
		if err := validateIdentifier("sort column", o.sortBy); err != nil {
			return nil, err
		}
	}
	if err := validateFilters(o.filters); err != nil {
		return nil, err
	}

	q, andTerms, notTerms, err := compileExpression(expression)
	if err != nil {
		return nil, err
	}
	andTerms = append(andTerms, o.andTerms...)
	notTerms = append(notTerms, o.notTerms...)

	resp, err := c.exec(ctx, buildSearchCommand(table, q, andTerms, notTerms, o))
	if err != nil {
		return nil, err
	}
	return parseSearchResponse(resp)
}

// Count is Search without result IDs: same expression and filter semantics,
// returns the total match count only.
func (c *Client) Count(ctx context.Context, table, expression string, opts ...SearchOption) (*CountResult, error) {
	if err := validateIdentifier("table name", table); err != nil {
		return nil, err
	}

	o := newSearchOptions(opts)
	if err := validateFilters(o.filters); err != nil {
		return nil, err
	}

	q, andTerms, notTerms, err := compileExpression(expression)
	if err != nil {
		return nil, err
	}
	andTerms = append(andTerms, o.andTerms...)
	notTerms = append(notTerms, o.notTerms...)

	resp, err := c.exec(ctx, buildCountCommand(table, q, andTerms, notTerms, o))
	if err != nil {
		return nil, err
	}
	return parseCountResponse(resp)
}

// Get fetches a single document by primary key.
func (c *Client) Get(ctx context.Context, table, primaryKey string) (*Document, error) {
	if err := validateIdentifier("table name", table); err != nil {
		return nil, err
	}
	if err := validateIdentifier("primary key", primaryKey); err != nil {
		return nil, err
	}

	resp, err := c.exec(ctx, "GET "+table+" "+primaryKey)
	if err != nil {
		return nil, err
	}
	return parseDocResponse(resp)
}

// Info fetches server statistics.
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	resp, err := c.exec(ctx, "INFO")
	if err != nil {
		return nil, err
	}
	return parseInfoResponse(resp)
}

// ServerConfig fetches the server's configuration dump as raw text.
func (c *Client) ServerConfig(ctx context.Context) (string, error) {
	return c.exec(ctx, "CONFIG")
}

// Save asks the server to snapshot its index. An empty path uses the
// server-side default; the path the server actually wrote is returned.
func (c *Client) Save(ctx context.Context, path string) (string, error) {
	cmd := "SAVE"
	if path != "" {
		cmd += " " + path
	}

	resp, err := c.exec(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(resp, "OK SAVED") {
		return "", &ProtocolError{Response: resp}
	}
	return strings.TrimSpace(resp[len("OK SAVED"):]), nil
}

// Load asks the server to restore an index snapshot.
func (c *Client) Load(ctx context.Context, path string) (string, error) {
	resp, err := c.exec(ctx, "LOAD "+path)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(resp, "OK LOADED") {
		return "", &ProtocolError{Response: resp}
	}
	return strings.TrimSpace(resp[len("OK LOADED"):]), nil
}

// ReplicationStatus reports the server's MySQL replication state.
func (c *Client) ReplicationStatus(ctx context.Context) (*ReplicationStatus, error) {
	resp, err := c.exec(ctx, "REPLICATION STATUS")
	if err != nil {
		return nil, err
	}
	return parseReplicationStatus(resp)
}

func (c *Client) StartReplication(ctx context.Context) error {
	_, err := c.exec(ctx, "REPLICATION START")
	return err
}

func (c *Client) StopReplication(ctx context.Context) error {
	_, err := c.exec(ctx, "REPLICATION STOP")
	return err
}

// EnableDebug turns on server debug mode: subsequent SEARCH/COUNT responses
// carry a DEBUG stats tail.
func (c *Client) EnableDebug(ctx context.Context) error {
	_, err := c.exec(ctx, "DEBUG ON")
	return err
}

func (c *Client) DisableDebug(ctx context.Context) error {
	_, err := c.exec(ctx, "DEBUG OFF")
	return err
}
