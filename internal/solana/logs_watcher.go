package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Watcher configuration defaults.
const (
	defaultReconnectDelay    = 1 * time.Second
	defaultMaxReconnectDelay = 30 * time.Second
	defaultPingInterval      = 30 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultReadTimeout       = 60 * time.Second
	subscribeTimeout         = 30 * time.Second
)

// LogsWatcher maintains a single logsSubscribe subscription over
// WebSocket, reconnecting and resubscribing on connection loss.
// Notifications are delivered on the channel returned by Notifications;
// slow consumers block the reader rather than losing events.
type LogsWatcher struct {
	endpoint string
	filter   LogsFilter

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64
	subID     atomic.Int64

	notifications chan LogNotification
	confirmCh     chan confirm
	done          chan struct{}
	wg            sync.WaitGroup
}

type confirm struct {
	reqID uint64
	subID int64
}

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// NewLogsWatcher connects to the WebSocket endpoint and subscribes to
// logs matching the filter.
func NewLogsWatcher(ctx context.Context, endpoint string, filter LogsFilter) (*LogsWatcher, error) {
	w := &LogsWatcher{
		endpoint:      endpoint,
		filter:        filter,
		notifications: make(chan LogNotification, 1024),
		confirmCh:     make(chan confirm, 4),
		done:          make(chan struct{}),
	}

	if err := w.connect(ctx); err != nil {
		return nil, err
	}

	w.wg.Add(2)
	go w.readLoop()
	go w.pingLoop()

	if err := w.subscribe(ctx); err != nil {
		w.Close()
		return nil, err
	}

	return w, nil
}

// Notifications returns the delivery channel. Closed on Close.
func (w *LogsWatcher) Notifications() <-chan LogNotification {
	return w.notifications
}

func (w *LogsWatcher) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	w.connMu.Lock()
	w.conn = conn
	w.connMu.Unlock()
	return nil
}

// subscribe sends logsSubscribe and waits for the confirmation.
func (w *LogsWatcher) subscribe(ctx context.Context) error {
	reqID := w.requestID.Add(1)

	mentions := make(map[string]interface{})
	if len(w.filter.Mentions) > 0 {
		mentions["mentions"] = w.filter.Mentions
	} else {
		mentions["all"] = nil
	}

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "logsSubscribe",
		Params: []interface{}{
			mentions,
			map[string]string{"commitment": "confirmed"},
		},
	}

	w.connMu.Lock()
	if w.conn == nil {
		w.connMu.Unlock()
		return fmt.Errorf("not connected")
	}
	w.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout))
	err := w.conn.WriteJSON(req)
	w.connMu.Unlock()
	if err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}

	for {
		select {
		case c := <-w.confirmCh:
			if c.reqID != reqID {
				continue // stale confirmation from a previous connection
			}
			w.subID.Store(c.subID)
			return nil
		case <-time.After(subscribeTimeout):
			return fmt.Errorf("subscription timeout after %v", subscribeTimeout)
		case <-w.done:
			return fmt.Errorf("watcher closed")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close shuts down the watcher and closes the notification channel.
func (w *LogsWatcher) Close() error {
	if w.closed.Swap(true) {
		return nil
	}

	close(w.done)

	w.connMu.Lock()
	if w.conn != nil {
		w.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		w.conn.Close()
	}
	w.connMu.Unlock()

	w.wg.Wait()
	close(w.notifications)
	return nil
}

// readLoop reads messages, dispatching notifications and confirmations.
// On read failure it reconnects with exponential backoff and resubscribes.
func (w *LogsWatcher) readLoop() {
	defer w.wg.Done()

	delay := defaultReconnectDelay

	for !w.closed.Load() {
		w.connMu.Lock()
		conn := w.conn
		w.connMu.Unlock()

		if conn == nil {
			if !w.reconnect(delay) {
				return
			}
			delay *= 2
			if delay > defaultMaxReconnectDelay {
				delay = defaultMaxReconnectDelay
			}
			continue
		}

		conn.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if w.closed.Load() {
				return
			}
			w.connMu.Lock()
			w.conn.Close()
			w.conn = nil
			w.connMu.Unlock()
			continue
		}

		delay = defaultReconnectDelay
		w.handleMessage(message)
	}
}

// reconnect waits, redials and resubscribes. Returns false on shutdown.
func (w *LogsWatcher) reconnect(delay time.Duration) bool {
	select {
	case <-w.done:
		return false
	case <-time.After(delay):
	}

	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()

	if err := w.connect(ctx); err != nil {
		return true // retry on next loop iteration
	}
	if err := w.subscribe(ctx); err != nil {
		w.connMu.Lock()
		if w.conn != nil {
			w.conn.Close()
			w.conn = nil
		}
		w.connMu.Unlock()
	}
	return true
}

func (w *LogsWatcher) handleMessage(message []byte) {
	var resp struct {
		ID     uint64 `json:"id"`
		Result int64  `json:"result"`
	}
	if err := json.Unmarshal(message, &resp); err == nil && resp.ID > 0 && resp.Result > 0 {
		select {
		case w.confirmCh <- confirm{reqID: resp.ID, subID: resp.Result}:
		default:
		}
		return
	}

	var notif struct {
		Method string `json:"method"`
		Params *struct {
			Subscription int64 `json:"subscription"`
			Result       struct {
				Context *struct {
					Slot int64 `json:"slot"`
				} `json:"context"`
				Value struct {
					Signature string      `json:"signature"`
					Logs      []string    `json:"logs"`
					Err       interface{} `json:"err"`
				} `json:"value"`
			} `json:"result"`
		} `json:"params"`
	}
	if err := json.Unmarshal(message, &notif); err != nil || notif.Method != "logsNotification" || notif.Params == nil {
		return
	}
	if notif.Params.Subscription != w.subID.Load() {
		return
	}

	n := LogNotification{
		Signature: notif.Params.Result.Value.Signature,
		Logs:      notif.Params.Result.Value.Logs,
		Err:       notif.Params.Result.Value.Err,
	}
	if notif.Params.Result.Context != nil {
		n.Slot = notif.Params.Result.Context.Slot
	}

	select {
	case w.notifications <- n:
	case <-w.done:
	}
}

// pingLoop keeps the connection alive.
func (w *LogsWatcher) pingLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(defaultPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.connMu.Lock()
			if w.conn != nil {
				w.conn.SetWriteDeadline(time.Now().Add(defaultWriteTimeout))
				w.conn.WriteMessage(websocket.PingMessage, nil)
			}
			w.connMu.Unlock()
		}
	}
}
