package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zlib"
	"github.com/mmdatafocus/tfd_bot/bot"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/sirupsen/logrus"
)

var (
	errReconnect      = errors.New("gateway requested reconnect")
	errInvalidSession = errors.New("gateway invalidated the session")
)

// MessageHandler is called once per MESSAGE_CREATE, on its own goroutine.
type MessageHandler func(ctx context.Context, msg bot.Message)

// Gateway holds a Discord gateway session open and feeds message events to a
// handler.
type Gateway struct {
	url            string
	token          string
	compress       bool
	intents        int
	reconnectDelay time.Duration
	logger         *logrus.Logger
	dialer         *websocket.Dialer

	writeMu sync.Mutex
	seq     atomic.Int64
	acked   atomic.Bool
}

func NewGateway(s config.Settings, logger *logrus.Logger) *Gateway {
	gatewayURL := s.DiscordGatewayURL
	if gatewayURL == "" {
		gatewayURL = config.DefaultDiscordGatewayURL
	}
	if logger == nil {
		logger = config.GetLogger()
	}
	g := &Gateway{
		url:            gatewayURL,
		token:          s.DiscordToken,
		compress:       s.Features.GatewayCompress,
		intents:        defaultIntents,
		reconnectDelay: 5 * time.Second,
		logger:         logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
			ReadBufferSize:   64 * 1024,
			WriteBufferSize:  16 * 1024,
		},
	}
	g.seq.Store(-1)
	return g
}

// Run keeps a session open until ctx is cancelled, opening a new one after
// each drop. It returns once every handler it started has finished.
func (g *Gateway) Run(ctx context.Context, handle MessageHandler) error {
	var handlers sync.WaitGroup
	defer handlers.Wait()

	attempt := 0
	for {
		attempt++
		err := g.session(ctx, handle, &handlers)
		if ctx.Err() != nil {
			return nil
		}
		g.logger.WithFields(logrus.Fields{"attempt": attempt}).Warn(fmt.Sprintf("gateway session ended: %v", err))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(g.reconnectDelay):
		}
	}
}

func (g *Gateway) session(ctx context.Context, handle MessageHandler, handlers *sync.WaitGroup) error {
	conn, _, err := g.dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return fmt.Errorf("dial gateway: %w", err)
	}

	sessCtx, cancel := context.WithCancel(ctx)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		<-sessCtx.Done()
		conn.Close()
	}()
	var heartbeats sync.WaitGroup
	defer func() {
		cancel()
		<-closed
		heartbeats.Wait()
	}()

	hello, err := g.readPayload(conn)
	if err != nil {
		return err
	}
	if hello.Op != opHello {
		return fmt.Errorf("expected HELLO, got op %d", hello.Op)
	}
	var hd helloData
	if err := json.Unmarshal(hello.D, &hd); err != nil || hd.HeartbeatInterval <= 0 {
		return fmt.Errorf("bad HELLO payload: %s", string(hello.D))
	}

	g.seq.Store(-1)
	g.acked.Store(true)
	heartbeats.Add(1)
	go func() {
		defer heartbeats.Done()
		g.heartbeat(sessCtx, cancel, conn, time.Duration(hd.HeartbeatInterval)*time.Millisecond)
	}()

	identify := outgoing{Op: opIdentify, D: identifyData{
		Token:    g.token,
		Intents:  g.intents,
		Compress: g.compress,
		Properties: identifyProperties{
			OS:      "linux",
			Browser: "tfd_bot",
			Device:  "tfd_bot",
		},
	}}
	if err := g.write(conn, identify); err != nil {
		return fmt.Errorf("identify: %w", err)
	}

	// Handlers outlive the session and are not cancelled by shutdown: a
	// started report runs every fetch to completion.
	handlerCtx := context.WithoutCancel(ctx)

	for {
		p, err := g.readPayload(conn)
		if err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				g.logger.WithFields(logrus.Fields{"field": "gateway"}).Warn(err.Error())
				continue
			}
			return err
		}
		if p.S != nil {
			g.seq.Store(*p.S)
		}
		switch p.Op {
		case opDispatch:
			if p.T != "MESSAGE_CREATE" {
				continue
			}
			var m messageCreate
			if err := json.Unmarshal(p.D, &m); err != nil {
				g.logger.WithFields(logrus.Fields{"event": p.T}).Warn(fmt.Sprintf("decode event: %v", err))
				continue
			}
			msg := bot.Message{
				ChannelID:   m.ChannelID,
				AuthorID:    m.Author.ID,
				AuthorIsBot: m.Author.Bot,
				Content:     m.Content,
			}
			handlers.Add(1)
			go func() {
				defer handlers.Done()
				handle(handlerCtx, msg)
			}()
		case opHeartbeat:
			if err := g.sendHeartbeat(conn); err != nil {
				return err
			}
		case opReconnect:
			return errReconnect
		case opInvalidSession:
			return errInvalidSession
		case opHeartbeatAck:
			g.acked.Store(true)
		}
	}
}

func (g *Gateway) heartbeat(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// No ACK since the previous beat: the connection is a zombie.
			if !g.acked.Swap(false) {
				g.logger.WithFields(logrus.Fields{"field": "gateway"}).Warn("heartbeat not acknowledged")
				cancel()
				return
			}
			if err := g.sendHeartbeat(conn); err != nil {
				g.logger.WithFields(logrus.Fields{"field": "gateway"}).Warn(fmt.Sprintf("heartbeat: %v", err))
				cancel()
				return
			}
		}
	}
}

func (g *Gateway) sendHeartbeat(conn *websocket.Conn) error {
	var d any
	if s := g.seq.Load(); s >= 0 {
		d = s
	}
	return g.write(conn, outgoing{Op: opHeartbeat, D: d})
}

func (g *Gateway) write(conn *websocket.Conn, v any) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(v)
}

// readPayload reads one frame. Binary frames are zlib-compressed payloads
// (sent when IDENTIFY asked for compression).
func (g *Gateway) readPayload(conn *websocket.Conn) (incoming, error) {
	mt, data, err := conn.ReadMessage()
	if err != nil {
		return incoming{}, err
	}
	if mt == websocket.BinaryMessage {
		data, err = inflate(data)
		if err != nil {
			return incoming{}, fmt.Errorf("inflate payload: %w", err)
		}
	}
	var p incoming
	if err := json.Unmarshal(data, &p); err != nil {
		return incoming{}, err
	}
	return p, nil
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
