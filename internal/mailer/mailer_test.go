package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []Message
	block chan struct{}
	err   error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	rs := &recordingSender{}
	d := NewDispatcher(rs, 2, 10)
	d.Start()

	for i := 0; i < 5; i++ {
		assert.True(t, d.Enqueue(Message{To: []string{"a@example.com"}, Subject: "hi"}))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))
	assert.Equal(t, 5, rs.count())

	// после остановки письма не принимаются
	assert.False(t, d.Enqueue(Message{To: []string{"a@example.com"}}))
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	rs := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(rs, 1, 1)
	d.Start()

	// первый уходит воркеру и висит, второй занимает буфер
	assert.True(t, d.Enqueue(Message{To: []string{"a@example.com"}}))
	assert.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, d.Enqueue(Message{To: []string{"b@example.com"}}))
	assert.False(t, d.Enqueue(Message{To: []string{"c@example.com"}}))

	close(rs.block)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, 2, rs.count())
}

func TestDispatcher_SenderErrorDoesNotStopWorker(t *testing.T) {
	rs := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(rs, 1, 4)
	d.Start()
	d.Enqueue(Message{To: []string{"a@example.com"}})
	d.Enqueue(Message{To: []string{"b@example.com"}})
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, 2, rs.count())
}

func TestDispatcher_IgnoresEmptyRecipients(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 1, 1)
	assert.False(t, d.Enqueue(Message{Subject: "nobody"}))
}

func TestContent_Render(t *testing.T) {
	c := Content{
		Title:      "New contact: <script>",
		Paragraphs: []string{"Hello & welcome"},
		Fields:     []Field{{Label: "Email", Value: "jane@example.com"}},
		Action:     &Link{Text: "Open", URL: "https://appnity.co.ke/admin"},
	}
	html, err := c.HTML()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "New contact: &lt;script&gt;")
	assert.Contains(t, html, "Hello &amp; welcome")
	assert.Contains(t, html, `href="https://appnity.co.ke/admin"`)

	text := c.Text()
	assert.Contains(t, text, "Email: jane@example.com")
	assert.Contains(t, text, "Open: https://appnity.co.ke/admin")
}

func TestSMTPSender_BuildsMultipart(t *testing.T) {
	var gotTo []string
	var raw []byte
	s := &SMTPSender{
		from: "noreply@appnity.co.ke",
		addr: "localhost:25",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotTo, raw = to, msg
			return nil
		},
	}
	msg, err := Build("test", "Привет", []string{"jane@example.com"}, Content{Title: "Hi", Paragraphs: []string{"body"}})
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	out := string(raw)
	assert.Contains(t, out, "From: noreply@appnity.co.ke\r\n")
	assert.Contains(t, out, "Subject: =?utf-8?q?")
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "text/plain; charset=utf-8")
	assert.Contains(t, out, "text/html; charset=utf-8")
}
