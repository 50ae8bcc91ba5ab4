package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"nexus-assist/internal/apiclient"
	"nexus-assist/internal/config"
	"nexus-assist/internal/model"
	"nexus-assist/internal/session"
	"nexus-assist/internal/toast"
	"nexus-assist/internal/typewriter"
	"nexus-assist/internal/utils"
	"nexus-assist/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg    *config.Config
	client *apiclient.Client
	toasts  *toast.Center
	scratch *session.Scratch
	in      *bufio.Reader
	out    io.Writer

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	shown       int
	logFile     *os.File
	unsubscribe func()
}

func newApp(cmd *cobra.Command, path string, verbose bool) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		scratch: session.NewScratch(),
		in:      bufio.NewReader(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}

	// logs go to a file so they never interleave with prompts and reveals
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(cfg.Session.Path), "nexus.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			a.logFile = f
			logger.SetOutput(f)
		}
	}
	if a.logFile == nil {
		logger.SetOutput(io.Discard)
	}

	httpClient := utils.NewDebugHTTPClient(cfg.API.Timeout, cfg.API.DebugRequest)
	a.client = apiclient.New(cfg.API.BaseURL, httpClient, session.NewStore(cfg.Session.Path))
	a.unsubscribe = a.client.Session().Subscribe(func(s session.Session, ok bool) {
		if !ok {
			logger.Info("Session cleared")
			return
		}
		logger.WithFields(logrus.Fields{"user_id": s.User.UserID, "email": s.User.Email}).Info("Session updated")
	})

	a.ctx, a.cancel = context.WithCancel(cmd.Context())
	a.toasts = toast.NewCenter(a.ctx, cfg.Toast.Duration, a.printToasts)
	return a, nil
}

func (a *app) Close() {
	a.unsubscribe()
	a.toasts.Close()
	a.cancel()
	if a.logFile != nil {
		logger.SetOutput(io.Discard)
		_ = a.logFile.Close()
	}
}

// printToasts writes toasts the first time they become visible. Expiry does
// not erase lines already printed to a terminal.
func (a *app) printToasts(visible []toast.Toast) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range visible {
		if t.ID > a.shown {
			fmt.Fprintln(a.out, renderToast(t))
			a.shown = t.ID
		}
	}
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// prompt reads one trimmed line. EOF with no input is an error so scripted
// runs fail instead of looping.
func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, labelStyle.Render(label)+": ")
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// promptValue returns flagValue when set and prompts otherwise.
func (a *app) promptValue(flagValue, label string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return a.prompt(label)
}

func (a *app) userID() (string, error) {
	id, err := a.client.Session().UserID()
	if err != nil {
		a.toasts.Error("Please log in first")
		return "", err
	}
	return id, nil
}

// report shows the result as a toast and converts failure to an error.
func report[T any](a *app, res model.Result[T]) error {
	if res.Success {
		a.toasts.Success(res.Message)
		return nil
	}
	msg := res.Message
	if len(res.MissingFields) > 0 {
		msg += " (" + strings.Join(res.MissingFields, ", ") + ")"
	}
	a.toasts.Error(msg)
	return res.Err()
}

func (a *app) typewriterOptions() typewriter.Options {
	return typewriter.Options{
		Target:   a.cfg.Typewriter.Target,
		MinDelay: a.cfg.Typewriter.MinDelay,
		MaxDelay: a.cfg.Typewriter.MaxDelay,
	}
}

// termSink prints a reveal incrementally.
type termSink struct {
	mu      sync.Mutex
	w       io.Writer
	printed int
}

func (s *termSink) Reveal(partial string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(partial) > s.printed {
		fmt.Fprint(s.w, partial[s.printed:])
		s.printed = len(partial)
	}
}

func (s *termSink) Commit(full string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(full) > s.printed {
		fmt.Fprint(s.w, full[s.printed:])
	}
	fmt.Fprintln(s.w)
	s.printed = 0
}

// present reveals text on the terminal and waits for it to finish.
func (a *app) present(text string) error {
	p := typewriter.New(&termSink{w: a.out}, a.typewriterOptions())
	p.Present(a.ctx, text)
	return p.Wait(a.ctx)
}

func writeExport(out model.Export, path string) (string, error) {
	if path == "" {
		path = out.Filename
	}
	if path == "" {
		path = "export"
	}
	if err := os.WriteFile(path, out.Body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
