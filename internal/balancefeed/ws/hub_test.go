package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func subscribe(t *testing.T, conn *websocket.Conn, hub *Hub, accountID string, want int) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", AccountID: accountID}))
	// o subscribe é processado no loop de leitura; espera registrar
	for i := 0; i < 100; i++ {
		if hub.Subscribers(accountID) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("assinatura de %s nunca registrada", accountID)
}

func readUpdate(t *testing.T, conn *websocket.Conn) BalanceUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var upd BalanceUpdate
	require.NoError(t, conn.ReadJSON(&upd))
	return upd
}

func TestBroadcastOnlyToSubscribers(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	alice := dialHub(t, srv)
	bob := dialHub(t, srv)
	subscribe(t, alice, hub, "acc-alice", 1)
	subscribe(t, bob, hub, "acc-bob", 1)

	hub.Broadcast(BalanceUpdate{AccountID: "acc-alice", BalanceCents: 1500, Version: 4, Reason: "wager_win"})

	upd := readUpdate(t, alice)
	assert.Equal(t, "acc-alice", upd.AccountID)
	assert.Equal(t, int64(1500), upd.BalanceCents)
	assert.Equal(t, int64(4), upd.Version)

	// bob não assina acc-alice: nada deve chegar
	require.NoError(t, bob.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stray BalanceUpdate
	assert.Error(t, bob.ReadJSON(&stray))
}

func TestBroadcastFanOut(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	// duas abas do mesmo usuário: as duas recebem o push
	tab1 := dialHub(t, srv)
	tab2 := dialHub(t, srv)
	subscribe(t, tab1, hub, "acc-1", 1)
	subscribe(t, tab2, hub, "acc-1", 2)

	hub.Broadcast(BalanceUpdate{AccountID: "acc-1", BalanceCents: 900, Version: 7, Reason: "withdrawal"})

	for _, conn := range []*websocket.Conn{tab1, tab2} {
		upd := readUpdate(t, conn)
		assert.Equal(t, int64(900), upd.BalanceCents)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn := dialHub(t, srv)
	subscribe(t, conn, hub, "acc-9", 1)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "unsubscribe", AccountID: "acc-9"}))
	for i := 0; i < 100 && hub.Subscribers("acc-9") > 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	require.Zero(t, hub.Subscribers("acc-9"))

	hub.Broadcast(BalanceUpdate{AccountID: "acc-9", BalanceCents: 100, Version: 2})

	// ping/pong ainda funciona, mas nenhum update de saldo chega antes do pong
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var reply map[string]string
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "pong", reply["type"])
}

func TestPingDuringBroadcastStorm(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn := dialHub(t, srv)
	subscribe(t, conn, hub, "acc-storm", 1)

	// broadcasts de várias goroutines enquanto o loop de leitura
	// responde pings: as escritas na mesma conexão são serializadas
	const updates = 48 // divisível pelas 4 goroutines
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < updates/4; i++ {
					hub.Broadcast(BalanceUpdate{AccountID: "acc-storm", BalanceCents: int64(i), Version: int64(i)})
				}
			}()
		}
		wg.Wait()
	}()

	for i := 0; i < 5; i++ {
		require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	}

	pongs := 0
	got := 0
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for got < updates+5 {
		var raw map[string]any
		require.NoError(t, conn.ReadJSON(&raw))
		if raw["type"] == "pong" {
			pongs++
		}
		got++
	}
	assert.Equal(t, 5, pongs)
	<-done
}
