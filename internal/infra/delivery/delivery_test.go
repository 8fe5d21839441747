//go:build unit

package delivery_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autoservice-workflow/internal/infra/delivery"
	"autoservice-workflow/internal/pkg/errs"
	notifymock "autoservice-workflow/tests/mock/notify"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCipher(t *testing.T) {
	c, err := delivery.NewCipher("workshop-secret")
	require.NoError(t, err)
	plain := []byte(`{"message":"Your appointment has been approved."}`)

	t.Run("roundtrip", func(t *testing.T) {
		sealed, err := c.Seal(plain)
		require.NoError(t, err)
		assert.NotContains(t, string(sealed), "approved")

		got, err := c.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	})

	t.Run("fresh nonce per seal", func(t *testing.T) {
		a, err := c.Seal(plain)
		require.NoError(t, err)
		b, err := c.Seal(plain)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("another secret cannot open", func(t *testing.T) {
		sealed, err := c.Seal(plain)
		require.NoError(t, err)
		other, err := delivery.NewCipher("other-secret")
		require.NoError(t, err)
		_, err = other.Open(sealed)
		assert.True(t, errs.Is(err, delivery.ErrMalformedPayload))
	})

	t.Run("tampered payload", func(t *testing.T) {
		sealed, err := c.Seal(plain)
		require.NoError(t, err)
		raw, err := base64.StdEncoding.DecodeString(string(sealed))
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xff
		_, err = c.Open([]byte(base64.StdEncoding.EncodeToString(raw)))
		assert.True(t, errs.Is(err, delivery.ErrMalformedPayload))
	})

	t.Run("garbage", func(t *testing.T) {
		for _, in := range []string{"%%%", "c2hvcnQ="} {
			_, err := c.Open([]byte(in))
			assert.True(t, errs.Is(err, delivery.ErrMalformedPayload), in)
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := delivery.NewCipher("")
		assert.Error(t, err)
	})
}

func TestSealedChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := notifymock.NewMockChannel(ctrl)
	c, err := delivery.NewCipher("workshop-secret")
	require.NoError(t, err)

	plain := []byte(`{"status":"APPROVED"}`)
	var sent []byte
	next.EXPECT().Publish(gomock.Any(), "status-update-appointment-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, payload []byte) error {
			sent = payload
			return nil
		})

	require.NoError(t, delivery.NewSealedChannel(c, next).Publish(context.Background(), "status-update-appointment-1", plain))
	assert.False(t, bytes.Equal(plain, sent))
	opened, err := c.Open(sent)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestLogChannel(t *testing.T) {
	var buf bytes.Buffer
	ch := delivery.NewLogChannel(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	require.NoError(t, ch.Publish(context.Background(), "new-invoice-42", []byte("{}")))
	assert.Contains(t, buf.String(), "topic=new-invoice-42")
	assert.Contains(t, buf.String(), "bytes=2")
}

func wsURL(srv *httptest.Server, topics string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?topics=" + topics
}

func dial(t *testing.T, srv *httptest.Server, topics string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, topics), nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub(t *testing.T) {
	hub := delivery.NewHub(discardLogger(), []string{"http://localhost:3000"})
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()
	defer hub.Close()

	customer := dial(t, srv, "notification-customer-1,new-invoice-1")
	center := dial(t, srv, "notification-service-center-9")
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 5*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, "new-invoice-1", []byte("invoice")))
	require.NoError(t, hub.Publish(ctx, "notification-service-center-9", []byte("paid")))
	require.NoError(t, hub.Publish(ctx, "nobody-listens", []byte("lost")))

	read := func(conn *websocket.Conn) string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		return string(msg)
	}
	assert.Equal(t, "invoice", read(customer))
	assert.Equal(t, "paid", read(center))

	t.Run("disconnect unregisters the client", func(t *testing.T) {
		require.NoError(t, center.Close())
		require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("topics are required", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/ws")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("allowed origin is accepted", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://LOCALHOST:3000"}}
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "new-invoice-1"), header)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.NoError(t, conn.Close())
		require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("foreign origin is rejected", func(t *testing.T) {
		header := http.Header{"Origin": []string{"https://evil.example.com"}}
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "new-invoice-1"), header)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, 1, hub.Clients())
	})

	t.Run("close disconnects everyone", func(t *testing.T) {
		hub.Close()
		assert.Zero(t, hub.Clients())
		require.NoError(t, customer.SetReadDeadline(time.Now().Add(time.Second)))
		_, _, err := customer.ReadMessage()
		assert.Error(t, err)
	})
}
