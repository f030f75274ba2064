package mail

import (
	"context"
	"io"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type receivedMail struct {
	from string
	rcpt []string
	data string
}

// 最小的 smtp server, 只處理一封信
func serveOneMail(ln net.Listener, received chan<- receivedMail) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	var got receivedMail
	_ = tp.PrintfLine("220 localhost ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250 localhost")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			got.from = line
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			got.rcpt = append(got.rcpt, line)
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 end with .")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			got.data = strings.Join(lines, "\n")
			_ = tp.PrintfLine("250 queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 bye")
			received <- got
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

// server 接受連線但永不回應, 連線關閉時通知
func serveSilently(ln net.Listener, closed chan<- struct{}) {
	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer close(closed)
	defer conn.Close()
	_, _ = io.Copy(io.Discard, conn)
}

func newTestSender(t *testing.T, ln net.Listener) *SmtpSender {
	t.Helper()
	addr := ln.Addr().(*net.TCPAddr)
	return NewSmtpSender(SmtpConfig{Host: "127.0.0.1", Port: addr.Port, From: "shop@example.com"})
}

func TestSendEmailWithoutRecipients(t *testing.T) {
	sender := NewSmtpSender(SmtpConfig{Host: "localhost", Port: 25})

	err := sender.SendEmail(context.Background(), Message{Subject: "x", Body: "y"})
	require.Error(t, err)
}

func TestSendEmailDelivers(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan receivedMail, 1)
	go serveOneMail(ln, received)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = newTestSender(t, ln).SendEmail(ctx, Message{
		To:      []string{"Kitchen <kitchen@example.com>", "owner@example.com"},
		Subject: "Order Confirmation",
		Body:    "Order ID: 7\nTable Number: 5",
	})
	require.NoError(t, err)

	select {
	case got := <-received:
		require.Contains(t, got.from, "<shop@example.com>")
		require.Len(t, got.rcpt, 2)
		require.Contains(t, got.rcpt[0], "<kitchen@example.com>")
		require.Contains(t, got.rcpt[1], "<owner@example.com>")
		require.Contains(t, got.data, "Subject: Order Confirmation")
		require.Contains(t, got.data, "Table Number: 5")
	case <-time.After(time.Second):
		t.Fatal("server did not receive the mail")
	}
}

func TestSendEmailClosesConnectionOnTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	closed := make(chan struct{})
	go serveSilently(ln, closed)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = newTestSender(t, ln).SendEmail(ctx, Message{To: []string{"kitchen@example.com"}, Subject: "x", Body: "y"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)

	// SendEmail 返回時連線已關閉, 沒有殘留的寄送
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("smtp connection still open after SendEmail returned")
	}
}

func TestSendEmailClosesConnectionOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	closed := make(chan struct{})
	go serveSilently(ln, closed)

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(100*time.Millisecond, cancel)
	defer timer.Stop()

	err = newTestSender(t, ln).SendEmail(ctx, Message{To: []string{"kitchen@example.com"}, Subject: "x", Body: "y"})
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("smtp connection still open after SendEmail returned")
	}
}
