package main

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"nexus-assist/internal/config"
	"nexus-assist/internal/generation"
	"nexus-assist/internal/handler"
	"nexus-assist/internal/llm"
	"nexus-assist/internal/model"
	"nexus-assist/internal/narrative"
	"nexus-assist/internal/service"
	"nexus-assist/internal/session"
	"nexus-assist/internal/storage"
	"nexus-assist/internal/toast"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailbox struct {
	mu   sync.Mutex
	last string
}

func (m *mailbox) Send(to, subject, body string) error {
	m.mu.Lock()
	m.last = body
	m.mu.Unlock()
	return nil
}

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

// newBackend starts a stub backend with one verified user and points the
// CLI at it through the environment.
func newBackend(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Auth: config.AuthConfig{Secret: "cli-test", Issuer: "test", TokenTTL: time.Hour, ResetTTL: time.Hour, OTPTTL: time.Minute},
	}
	mail := &mailbox{}
	svcs := service.New(storage.NewMemoryStorage(), llm.NewTemplateWriter(), mail, cfg)

	_, err := svcs.Auth.Signup(model.SignupRequest{FullName: "Jane Doe", Email: "jane@example.com", Password: "Secret123"})
	require.NoError(t, err)
	code := otpPattern.FindStringSubmatch(mail.last)
	require.Len(t, code, 2)
	require.NoError(t, svcs.Auth.VerifyOTP(model.VerifyOTPRequest{Email: "jane@example.com", OTP: code[1]}))

	srv := httptest.NewServer(handler.NewRouter(cfg, svcs))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("NEXUS_API_BASE_URL", srv.URL+"/api")
	t.Setenv("NEXUS_SESSION_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("NEXUS_LOG_FILE", filepath.Join(dir, "nexus.log"))
	t.Setenv("NEXUS_TYPEWRITER_TARGET", "1ms")
	t.Setenv("NEXUS_TYPEWRITER_MIN_DELAY", "1ms")
	t.Setenv("NEXUS_TYPEWRITER_MAX_DELAY", "1ms")
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func login(t *testing.T) {
	t.Helper()
	out, err := run(t, "Secret123\n", "login", "--email", "jane@example.com")
	require.NoError(t, err, out)
	require.Contains(t, out, "Signed in as")
}

func TestCommandsRequireLogin(t *testing.T) {
	newBackend(t)

	out, err := run(t, "", "narrative", "list")
	assert.Error(t, err)
	assert.Contains(t, out, "Please log in first")
}

func TestLoginWhoamiLogout(t *testing.T) {
	newBackend(t)

	out, err := run(t, "wrong-password\n", "login", "--email", "jane@example.com")
	assert.Error(t, err)
	assert.Contains(t, out, "Invalid email or password")

	login(t)

	out, err = run(t, "", "whoami")
	require.NoError(t, err, out)
	assert.Contains(t, out, "jane@example.com")

	out, err = run(t, "", "profile", "update", "--phone", "0400 000 000")
	require.NoError(t, err, out)
	assert.Contains(t, out, "0400 000 000")

	_, err = run(t, "", "logout")
	require.NoError(t, err)
	_, err = run(t, "", "whoami")
	assert.Error(t, err)
}

func TestNarrativeNewGenerates(t *testing.T) {
	newBackend(t)
	login(t)

	answers := []string{
		// step 1, first attempt leaves the call sign blank
		"2024-03-01", "21:40", "45 Murray Street", "",
		// step 1 again
		"", "", "", "Delta 23",
		// step 2
		"John Smith", "Unknown male", "None",
		// step 3
		"", "Break and enter", "Rear door forced", "crowbar, glove", "Scene photographed",
	}
	out, err := run(t, strings.Join(answers, "\n")+"\n", "narrative", "new", "--versions", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Missing required fields: Call Sign")
	assert.Contains(t, out, "Version 2")
	assert.Contains(t, out, "Draft:")

	out, err = run(t, "", "narrative", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "generated")
	assert.Contains(t, out, "45 Murray Street")

	out, err = run(t, "", "notifications", "--limit", "5")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 unread")
	assert.Contains(t, out, "Narrative generated")

	_, err = run(t, "", "notifications", "--all")
	require.NoError(t, err)
	out, err = run(t, "", "notifications")
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 unread")
}

func TestSMFGenerateAndExport(t *testing.T) {
	newBackend(t)
	login(t)

	target := filepath.Join(t.TempDir(), "statement.txt")
	out, err := run(t, "Police attended 45 Murray Street. The rear door was forced.\n",
		"smf", "generate", "--officer", "Sgt Lee", "--export", "txt", "--out", target)
	require.NoError(t, err, out)
	assert.Contains(t, out, "STATEMENT OF MATERIAL FACTS")
	assert.Contains(t, out, "Saved "+target)
	assert.FileExists(t, target)

	out, err = run(t, "", "smf", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Police attended")
}

func TestChatAndHistory(t *testing.T) {
	newBackend(t)
	login(t)

	out, err := run(t, "Do I need a warrant here?\nexit\n", "chat")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Try asking:")
	assert.Contains(t, out, "Nexus:")

	out, err = run(t, "", "history")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Do I need a warrant here?")
}

func TestNarrativeHandsOffToSMF(t *testing.T) {
	newBackend(t)
	login(t)

	answers := []string{
		"2024-03-02", "08:15", "12 King Street", "Alpha 7",
		"Shop owner", "Two youths", "Passer-by",
		"", "Shoplifting report", "Goods taken from counter", "CCTV still", "Youths identified",
	}
	out, err := run(t, strings.Join(answers, "\n")+"\n", "narrative", "new", "--smf")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Draft:")
	assert.Contains(t, out, "STATEMENT OF MATERIAL FACTS")
	assert.Contains(t, out, "SMF:")

	out, err = run(t, "", "notifications")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 unread")
}

// stallingNarrativeAPI holds the first generation until its context is
// cancelled and answers later ones at once.
type stallingNarrativeAPI struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
}

func (a *stallingNarrativeAPI) UpsertDraft(ctx context.Context, draftID string, fields model.NarrativeFields) model.Result[model.MessageResponse] {
	return model.OK(model.MessageResponse{Message: "Draft saved"}, "Draft saved")
}

func (a *stallingNarrativeAPI) GenerateNarrative(ctx context.Context, input model.NarrativeFields, versionCount int) model.Result[model.GenerateNarrativeResponse] {
	a.mu.Lock()
	a.calls++
	first := a.calls == 1
	a.mu.Unlock()

	if first {
		close(a.started)
		<-ctx.Done()
		return model.Fail[model.GenerateNarrativeResponse]("request cancelled")
	}
	return model.OK(model.GenerateNarrativeResponse{
		DraftID:  input.DraftID,
		Versions: []model.DraftVersion{{ID: "v1", Content: "Police attended."}},
	}, "Narrative generated successfully")
}

func (a *stallingNarrativeAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// useTestApp installs an app reading stdin and writing to the returned buffer.
func useTestApp(t *testing.T, stdin string) *bytes.Buffer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	out := &bytes.Buffer{}
	a := &app{
		scratch: session.NewScratch(),
		in:      bufio.NewReader(strings.NewReader(stdin)),
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
	}
	a.toasts = toast.NewCenter(ctx, time.Minute, a.printToasts)
	nx = a
	t.Cleanup(func() {
		a.toasts.Close()
		cancel()
		nx = nil
	})
	return out
}

func stalledComposer(t *testing.T, api *stallingNarrativeAPI) *narrative.Composer {
	t.Helper()
	c, err := narrative.NewComposer(api, "u1", narrative.ComposerOptions{})
	require.NoError(t, err)
	for _, f := range narrative.Catalogue {
		c.Set(f.Name, "filled")
	}
	return c
}

func TestGenerateOffersRetryAfterInterrupt(t *testing.T) {
	out := useTestApp(t, "y\n")
	api := &stallingNarrativeAPI{started: make(chan struct{})}
	c := stalledComposer(t, api)

	interrupts := make(chan os.Signal, 1)
	go func() {
		<-api.started
		interrupts <- os.Interrupt
	}()

	res, err := generateNarrative(c, interrupts)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, []string{"Police attended."}, res.Data.Variants)
	assert.Equal(t, 2, api.callCount())
	assert.Contains(t, out.String(), generation.StoppedMessage)
	assert.Contains(t, out.String(), "Try again?")
}

func TestGenerateDeclinedRetryKeepsDraft(t *testing.T) {
	useTestApp(t, "n\n")
	api := &stallingNarrativeAPI{started: make(chan struct{})}
	c := stalledComposer(t, api)

	interrupts := make(chan os.Signal, 1)
	go func() {
		<-api.started
		interrupts <- os.Interrupt
	}()

	res, err := generateNarrative(c, interrupts)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, generation.StoppedMessage, res.Message)
	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, generation.Idle, c.Trigger().Status())
	assert.False(t, c.Manager().Finalized())
}
