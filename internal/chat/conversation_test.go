package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"nexus-assist/internal/model"
	"nexus-assist/internal/typewriter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAPI struct {
	answer string
	fail   string
	calls  int
}

func (f *fakeAPI) Query(ctx context.Context, question string) model.Result[model.NexusAnswer] {
	f.calls++
	if f.fail != "" {
		return model.Fail[model.NexusAnswer](f.fail)
	}
	return model.OK(model.NexusAnswer{Answer: f.answer, ChatID: "c1"}, "Answer received successfully")
}

type screen struct {
	mu      sync.Mutex
	reveals []string
	commits []string
}

func (s *screen) Reveal(partial string) {
	s.mu.Lock()
	s.reveals = append(s.reveals, partial)
	s.mu.Unlock()
}

func (s *screen) Commit(full string) {
	s.mu.Lock()
	s.commits = append(s.commits, full)
	s.mu.Unlock()
}

func (s *screen) committed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commits...)
}

var fast = typewriter.Options{Target: 5 * time.Millisecond, MinDelay: time.Millisecond, MaxDelay: time.Millisecond}

func TestAskRevealsAndRecords(t *testing.T) {
	api := &fakeAPI{answer: "You need a warrant."}
	out := &screen{}
	c := New(api, out, fast)
	defer c.Close()

	res := c.Ask(context.Background(), "  Do I need a warrant?  ")
	require.True(t, res.Success)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))

	assert.Equal(t, []string{"You need a warrant."}, out.committed())
	assert.False(t, c.Busy())
	assert.Equal(t, []Turn{
		{Role: RoleUser, Text: "Do I need a warrant?"},
		{Role: RoleAssistant, Text: "You need a warrant.", ChatID: "c1"},
	}, c.Transcript())
}

func TestAskRejectsBlankAndBusy(t *testing.T) {
	api := &fakeAPI{answer: "A long answer that keeps revealing for a while."}
	out := &screen{}
	c := New(api, out, typewriter.Options{Target: time.Hour, MinDelay: time.Hour, MaxDelay: time.Hour})
	defer c.Close()

	blank := c.Ask(context.Background(), "   ")
	assert.False(t, blank.Success)
	assert.Equal(t, ErrEmptyQuestion.Error(), blank.Message)
	assert.Zero(t, api.calls)

	require.True(t, c.Ask(context.Background(), "first").Success)
	assert.True(t, c.Busy())

	second := c.Ask(context.Background(), "second")
	assert.False(t, second.Success)
	assert.Equal(t, ErrBusy.Error(), second.Message)
	assert.Equal(t, 1, api.calls)

	c.Skip()
	assert.False(t, c.Busy())
	assert.Equal(t, []string{api.answer}, out.committed())

	c.Skip()
	assert.Len(t, out.committed(), 1)
}

func TestAskFailureFreesConversation(t *testing.T) {
	api := &fakeAPI{fail: "Failed to get answer"}
	c := New(api, &screen{}, fast)
	defer c.Close()

	res := c.Ask(context.Background(), "anything")
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to get answer", res.Message)
	assert.False(t, c.Busy())
	assert.Len(t, c.Transcript(), 1)
}

func TestEmptyAnswerCommitsImmediately(t *testing.T) {
	out := &screen{}
	c := New(&fakeAPI{}, out, fast)
	defer c.Close()

	require.True(t, c.Ask(context.Background(), "hello").Success)
	assert.False(t, c.Busy())
	assert.Equal(t, []string{""}, out.committed())
}
