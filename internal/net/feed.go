// Package net broadcasts the presenter's active slide to read-only viewers
// over websocket and advertises the feed on the local network with mDNS.
package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"LocalSlides/internal/document"
	"LocalSlides/internal/state"
)

const (
	FeedPath = "/feed"

	sendQueue  = 16
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Frame is one published view of the presenter's deck
type Frame struct {
	Revision uint64          `json:"revision"`
	Index    int             `json:"index"`
	Count    int             `json:"count"`
	Slide    json.RawMessage `json:"slide"`
}

func NewFrame(revision uint64, index, count int, s *state.Slide) (Frame, error) {
	b, err := document.MarshalSlide(s)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Revision: revision, Index: index, Count: count, Slide: b}, nil
}

// Decode validates and rebuilds the slide carried by f
func (f Frame) Decode() (*state.Slide, error) {
	return document.UnmarshalSlide(f.Slide)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed is an http.Handler fanning frames out to websocket viewers. Each
// viewer has a bounded queue drained by its own writer; a viewer whose
// queue is full is disconnected.
type Feed struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu        sync.Mutex
	clients   map[*client]bool
	last      []byte
	onViewers func(int)
}

func NewFeed(logger *zap.Logger) *Feed {
	return &Feed{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Warn("Feed upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueue)}
	f.mu.Lock()
	f.clients[c] = true
	if f.last != nil {
		c.send <- f.last
	}
	n := len(f.clients)
	f.unlock(true)
	f.logger.Info("Viewer connected", zap.String("remote", r.RemoteAddr), zap.Int("viewers", n))

	go f.writeLoop(c)
	f.readLoop(c)
}

// Publish sends frame to every viewer and keeps it for viewers that join later
func (f *Feed) Publish(frame Frame) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	f.mu.Lock()
	f.last = b
	var dropped bool
	for c := range f.clients {
		select {
		case c.send <- b:
		default:
			f.logger.Warn("Dropping slow viewer", zap.String("remote", c.conn.RemoteAddr().String()))
			dropped = f.removeLocked(c) || dropped
		}
	}
	f.unlock(dropped)
	return nil
}

// SetOnViewers registers fn to receive the viewer count whenever a viewer
// joins or leaves. fn runs on the feed's connection goroutines.
func (f *Feed) SetOnViewers(fn func(int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onViewers = fn
}

func (f *Feed) Viewers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every viewer
func (f *Feed) Close() {
	f.mu.Lock()
	var removed bool
	for c := range f.clients {
		removed = f.removeLocked(c) || removed
	}
	f.unlock(removed)
}

func (f *Feed) remove(c *client) {
	f.mu.Lock()
	f.unlock(f.removeLocked(c))
}

func (f *Feed) removeLocked(c *client) bool {
	if !f.clients[c] {
		return false
	}
	delete(f.clients, c)
	close(c.send)
	return true
}

// unlock releases mu, then reports the viewer count when it changed
func (f *Feed) unlock(changed bool) {
	n, fn := len(f.clients), f.onViewers
	f.mu.Unlock()
	if changed && fn != nil {
		fn(n)
	}
}

func (f *Feed) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				f.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.remove(c)
				return
			}
		}
	}
}

// readLoop only services control frames; viewers never send edits
func (f *Feed) readLoop(c *client) {
	defer func() {
		f.remove(c)
		f.logger.Info("Viewer disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ListenAndServe serves the feed on addr until ctx is done
func ListenAndServe(ctx context.Context, addr string, feed *Feed, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(FeedPath, feed)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		feed.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("Presenter feed listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve feed: %w", err)
	}
	return nil
}

// Subscribe connects to the feed at addr (host:port) and calls onFrame for
// every frame until ctx is done or the presenter goes away
func Subscribe(ctx context.Context, addr string, onFrame func(Frame)) error {
	url := fmt.Sprintf("ws://%s%s", addr, FeedPath)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		onFrame(frame)
	}
}
