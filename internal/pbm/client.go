// Package pbm drives the Percona Backup for MongoDB command line tool.
package pbm

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/raoulx24/pbm-pruner/internal/logging"
)

// DefaultBin is looked up on PATH when no binary is configured.
const DefaultBin = "pbm"

// Config describes how to reach pbm.
type Config struct {
	Bin      string   // path or name of the pbm binary
	MongoURI string   // passed as --mongodb-uri; pbm falls back to PBM_MONGODB_URI
	Env      []string // extra KEY=VALUE pairs for the child process
}

// Client runs pbm commands with JSON output.
type Client struct {
	bin      string
	mongoURI string
	env      []string
	log      logging.Logger
	retry    retryPolicy
}

// Resolve finds the pbm binary. Names without a path separator are searched
// on PATH.
func Resolve(bin string) (string, error) {
	if bin == "" {
		bin = DefaultBin
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("pbm binary %q not found: %w", bin, err)
	}
	return path, nil
}

// New resolves the binary once and returns a client bound to it.
func New(cfg Config, log logging.Logger) (*Client, error) {
	path, err := Resolve(cfg.Bin)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		bin:      path,
		mongoURI: cfg.MongoURI,
		env:      cfg.Env,
		log:      log.With("component", "pbm"),
		retry:    defaultRetry,
	}, nil
}

// Bin returns the resolved binary path.
func (c *Client) Bin() string { return c.bin }

func (c *Client) run(ctx context.Context, stdin []byte, command string, a *args) (string, error) {
	argv := []string{"-o", "json", command}
	if a != nil {
		argv = append(argv, a.build()...)
	}
	if c.mongoURI != "" {
		argv = append(argv, "--mongodb-uri", c.mongoURI)
	}

	c.log.Debug("running pbm", "command", command)
	start := time.Now()
	out, err := runProcess(ctx, c.bin, argv, stdin, c.env)
	if err != nil {
		c.log.Debug("pbm failed", "command", command, "error", err)
		return "", err
	}
	c.log.Debug("pbm finished", "command", command, "duration", time.Since(start))
	return out, nil
}

func (c *Client) call(ctx context.Context, out any, command string, a *args) error {
	raw, err := c.run(ctx, nil, command, a)
	if err != nil {
		return fmt.Errorf("pbm %s: %w", command, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("pbm %s: decoding output: %w", command, err)
	}
	return nil
}

// mutate runs a command whose output is an acknowledgement. Output that is
// not JSON is kept verbatim in the response message.
func (c *Client) mutate(ctx context.Context, command string, a *args) (*Response, error) {
	raw, err := c.run(ctx, nil, command, a)
	if err != nil {
		return nil, err
	}
	resp := &Response{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return resp, nil
	}
	if err := json.Unmarshal([]byte(trimmed), resp); err != nil {
		resp.Msg = trimmed
	}
	return resp, nil
}

func (c *Client) Version(ctx context.Context) (*Version, error) {
	v := &Version{}
	if err := c.call(ctx, v, "version", nil); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) List(ctx context.Context) (*List, error) {
	l := &List{}
	if err := c.call(ctx, l, "list", nil); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	s := &Status{}
	if err := c.call(ctx, s, "status", nil); err != nil {
		return nil, err
	}
	return s, nil
}

// LogsOptions filters `pbm logs`.
type LogsOptions struct {
	Tail     int
	Severity string // D, I, W, E or F
	Event    string
	Node     string
}

func (c *Client) Logs(ctx context.Context, opts LogsOptions) ([]LogEntry, error) {
	a := (&args{}).
		number("tail", opts.Tail).
		value("severity", opts.Severity).
		value("event", opts.Event).
		value("node", opts.Node)

	var entries []LogEntry
	if err := c.call(ctx, &entries, "logs", a); err != nil {
		return nil, err
	}
	return entries, nil
}

// BackupOptions configures `pbm backup`.
type BackupOptions struct {
	Type             string // logical, physical, incremental
	Base             bool   // start a new incremental chain
	Compression      string
	CompressionLevel int
}

func (c *Client) Backup(ctx context.Context, opts BackupOptions) (*Response, error) {
	a := (&args{}).
		value("type", opts.Type).
		flag("base", opts.Base).
		value("compression", opts.Compression).
		number("compression-level", opts.CompressionLevel)

	resp, err := c.mutate(ctx, "backup", a)
	if err != nil {
		return nil, fmt.Errorf("pbm backup: %w", err)
	}
	return resp, nil
}

func (c *Client) CancelBackup(ctx context.Context) (*Response, error) {
	resp, err := c.mutate(ctx, "cancel-backup", nil)
	if err != nil {
		return nil, fmt.Errorf("pbm cancel-backup: %w", err)
	}
	return resp, nil
}

// DeleteBackup deletes one snapshot by name.
func (c *Client) DeleteBackup(ctx context.Context, name string, force bool) error {
	a := (&args{}).flag("force", force).positional(name)
	return c.retry.do(ctx, "delete backup "+name, func() error {
		_, err := c.mutate(ctx, "delete-backup", a)
		return err
	})
}

// DeleteBackupOlderThan deletes every snapshot completed before t.
func (c *Client) DeleteBackupOlderThan(ctx context.Context, t time.Time, force bool) error {
	a := (&args{}).olderThan(t).flag("force", force)
	return c.retry.do(ctx, "delete backups older than "+t.UTC().Format(olderThanLayout), func() error {
		_, err := c.mutate(ctx, "delete-backup", a)
		return err
	})
}

// DeletePITR deletes oplog chunks older than t.
func (c *Client) DeletePITR(ctx context.Context, olderThan time.Time, force bool) error {
	a := (&args{}).olderThan(olderThan).flag("force", force)
	return c.retry.do(ctx, "delete pitr older than "+olderThan.UTC().Format(olderThanLayout), func() error {
		_, err := c.mutate(ctx, "delete-pitr", a)
		return err
	})
}

// DeletePITRAll deletes every oplog chunk.
func (c *Client) DeletePITRAll(ctx context.Context, force bool) error {
	a := (&args{}).flag("all", true).flag("force", force)
	return c.retry.do(ctx, "delete all pitr", func() error {
		_, err := c.mutate(ctx, "delete-pitr", a)
		return err
	})
}
