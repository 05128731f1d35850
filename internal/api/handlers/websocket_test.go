package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"relay_chat/internal/models"
	"relay_chat/internal/repository"
	"relay_chat/internal/service"
	"relay_chat/internal/utils"
)

func newRelayServer(t *testing.T) (*httptest.Server, *repository.Repositories) {
	t.Helper()
	r, repos := newTestRouter(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repos
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func dialAs(t *testing.T, srv *httptest.Server, username string) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateToken(username)
	require.NoError(t, err)
	return dial(t, srv, token)
}

func readEvent(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	return event.Event, event.Data
}

func readBacklog(t *testing.T, conn *websocket.Conn) []models.Message {
	t.Helper()
	name, data := readEvent(t, conn)
	require.Equal(t, service.EventPreviousMessages, name)

	var backlog []models.Message
	require.NoError(t, json.Unmarshal(data, &backlog))
	return backlog
}

func sendMessage(t *testing.T, conn *websocket.Conn, body string) {
	t.Helper()
	payload := fmt.Sprintf(`{"event":"send_message","data":{"message":%q}}`, body)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	req := require.New(t)
	srv, repos := newRelayServer(t)

	conn := dial(t, srv, "not-a-token")

	// The server closes a rejected connection without sending anything.
	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err := conn.ReadMessage()
	req.Error(err)

	// Nothing it could have sent was persisted either.
	stored, err := repos.Message.Recent(10)
	req.NoError(err)
	req.Empty(stored)
}

func TestWebSocketSendAndDeliveryFlow(t *testing.T) {
	req := require.New(t)
	srv, _ := newRelayServer(t)

	conn := dialAs(t, srv, "alice")
	req.Empty(readBacklog(t, conn))

	sendMessage(t, conn, "hi")

	name, data := readEvent(t, conn)
	req.Equal(service.EventReceiveMessage, name)
	var sent models.Message
	req.NoError(json.Unmarshal(data, &sent))
	req.Equal("alice", sent.Username)
	req.Equal("hi", sent.Body)
	req.Equal(models.StatusSent, sent.Status)

	name, data = readEvent(t, conn)
	req.Equal(service.EventMessageDelivered, name)
	var delivered models.Message
	req.NoError(json.Unmarshal(data, &delivered))
	req.Equal(sent.ID, delivered.ID)
	req.Equal(models.StatusDelivered, delivered.Status)
}

func TestWebSocketBacklogReplay(t *testing.T) {
	req := require.New(t)
	srv, repos := newRelayServer(t)

	req.NoError(repos.Message.Save(models.NewMessage("alice", "older")))
	req.NoError(repos.Message.Save(models.NewMessage("bob", "newer")))

	conn := dialAs(t, srv, "carol")
	backlog := readBacklog(t, conn)

	req.Len(backlog, 2)
	req.Equal("older", backlog[0].Body)
	req.Equal("newer", backlog[1].Body)
}

func TestWebSocketBroadcastBetweenClients(t *testing.T) {
	req := require.New(t)
	srv, _ := newRelayServer(t)

	alice := dialAs(t, srv, "alice")
	req.Empty(readBacklog(t, alice))
	bob := dialAs(t, srv, "bob")
	req.Empty(readBacklog(t, bob))

	sendMessage(t, alice, "hello bob")

	for _, conn := range []*websocket.Conn{alice, bob} {
		name, data := readEvent(t, conn)
		req.Equal(service.EventReceiveMessage, name)
		var msg models.Message
		req.NoError(json.Unmarshal(data, &msg))
		req.Equal("alice", msg.Username)
		req.Equal("hello bob", msg.Body)
	}
}

func TestWebSocketIgnoresBlankMessages(t *testing.T) {
	req := require.New(t)
	srv, repos := newRelayServer(t)

	conn := dialAs(t, srv, "alice")
	req.Empty(readBacklog(t, conn))

	sendMessage(t, conn, "   ")

	// No store write and no broadcast follow.
	req.NoError(conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	_, _, err := conn.ReadMessage()
	req.Error(err)

	stored, err := repos.Message.Recent(10)
	req.NoError(err)
	req.Empty(stored)
}

func TestWebSocketDisconnectedClientMissesBroadcasts(t *testing.T) {
	req := require.New(t)
	srv, repos := newRelayServer(t)

	alice := dialAs(t, srv, "alice")
	req.Empty(readBacklog(t, alice))
	bob := dialAs(t, srv, "bob")
	req.Empty(readBacklog(t, bob))

	req.NoError(bob.Close())
	// Give the server a moment to run bob's disconnect path.
	time.Sleep(100 * time.Millisecond)

	sendMessage(t, alice, "anyone there?")

	name, _ := readEvent(t, alice)
	req.Equal(service.EventReceiveMessage, name)

	// The message was persisted even though bob is gone, and the delivery
	// transition still happens.
	name, _ = readEvent(t, alice)
	req.Equal(service.EventMessageDelivered, name)

	stored, err := repos.Message.Recent(10)
	req.NoError(err)
	req.Len(stored, 1)
	req.Equal(models.StatusDelivered, stored[0].Status)
}
