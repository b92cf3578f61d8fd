package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"connectz/internal/judge"
	"connectz/internal/source"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// publishTimeout bounds one outcome event publish.
const publishTimeout = 5 * time.Second

// Publisher receives judged runs; *analytics.Producer satisfies it.
type Publisher interface {
	PublishReport(ctx context.Context, rep judge.Report, via string)
}

type Server struct {
	router        *gin.Engine
	judge         *judge.Judge
	sessions      *judge.Manager
	analytics     Publisher
	outcomeCounts map[string]int
	countMu       sync.Mutex
	maxBody       int64
	sweepEvery    time.Duration
}

type Config struct {
	IdleTimeout  time.Duration
	MaxBodyBytes int64
	Analytics    Publisher
}

func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	s := &Server{
		router:        router,
		analytics:     cfg.Analytics,
		outcomeCounts: make(map[string]int),
		maxBody:       cfg.MaxBodyBytes,
		sweepEvery:    cfg.IdleTimeout / 2,
	}
	if s.sweepEvery <= 0 {
		s.sweepEvery = 5 * time.Second
	}
	s.judge = &judge.Judge{OnFinish: func(r judge.Report) { s.onFinish(r, "http") }}
	s.sessions = judge.NewManager(cfg.IdleTimeout, func(r judge.Report) { s.onFinish(r, "ws") })

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.POST("/judge", s.handleJudge)
	router.GET("/stats", s.handleStats)
	router.GET("/ws", s.handleWS)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(addr string) error {
	go s.sweeper()
	return s.router.Run(addr)
}

func (s *Server) sweeper() {
	ticker := time.NewTicker(s.sweepEvery)
	for range ticker.C {
		s.sessions.SweepIdle()
	}
}

func (s *Server) handleJudge(c *gin.Context) {
	body := c.Request.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(c.Writer, body, s.maxBody)
	}
	rep := s.judge.Run(source.NewSource(body))
	c.JSON(http.StatusOK, reportJSON(rep))
}

func (s *Server) handleStats(c *gin.Context) {
	s.countMu.Lock()
	counts := make(map[string]int, len(s.outcomeCounts))
	total := 0
	for k, v := range s.outcomeCounts {
		counts[k] = v
		total += v
	}
	s.countMu.Unlock()
	c.JSON(http.StatusOK, gin.H{"total": total, "outcomes": counts})
}

func (s *Server) onFinish(rep judge.Report, via string) {
	s.countMu.Lock()
	s.outcomeCounts[rep.Outcome.String()]++
	s.countMu.Unlock()

	log.WithFields(log.Fields{"run": rep.ID, "via": via, "outcome": rep.Outcome, "moves": rep.Moves}).Info("game judged")
	if s.analytics == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		s.analytics.PublishReport(ctx, rep, via)
	}()
}

func reportJSON(rep judge.Report) gin.H {
	res := gin.H{
		"type":    "result",
		"id":      rep.ID,
		"outcome": rep.Outcome.String(),
		"code":    rep.Outcome.Code(),
		"moves":   rep.Moves,
	}
	if rep.Err != nil {
		res["error"] = rep.Err.Error()
	}
	return res
}

type wsClient struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
	server    *Server
}

type clientMessage struct {
	Type string `json:"type"`
	Line string `json:"line"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWS judges a game streamed one line per message. The first line is
// the config; {"type":"end"} ends the input.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		sessionID: s.sessions.Open(),
		conn:      conn,
		send:      make(chan []byte, 16),
		server:    s,
	}
	go client.writePump()
	go client.readPump()
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *wsClient) readPump() {
	s := c.server
	defer func() {
		s.sessions.Remove(c.sessionID)
		close(c.send)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			// A dropped connection ends the input.
			_, _ = s.sessions.Finish(c.sessionID)
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendJSON(gin.H{"type": "error", "message": "malformed message"})
			continue
		}

		switch msg.Type {
		case "line":
			step, err := s.sessions.Feed(c.sessionID, msg.Line)
			if errors.Is(err, judge.ErrSessionClosed) {
				if sess, ok := s.sessions.Get(c.sessionID); ok {
					c.sendJSON(reportJSON(sess.Report))
				}
				return
			}
			if err != nil {
				c.sendJSON(gin.H{"type": "error", "message": err.Error()})
				return
			}
			if step.Report != nil {
				c.sendJSON(reportJSON(*step.Report))
				return
			}
			c.sendStep(step)
		case "end":
			rep, err := s.sessions.Finish(c.sessionID)
			if err != nil {
				c.sendJSON(gin.H{"type": "error", "message": err.Error()})
				return
			}
			c.sendJSON(reportJSON(rep))
			return
		default:
			c.sendJSON(gin.H{"type": "error", "message": "unknown message type"})
		}
	}
}

func (c *wsClient) sendStep(step judge.Step) {
	switch {
	case step.Config != nil:
		c.sendJSON(gin.H{
			"type":      "config",
			"session":   c.sessionID,
			"columns":   step.Config.Columns,
			"rows":      step.Config.Rows,
			"winLength": step.Config.WinLength,
		})
	case step.Placement != nil:
		p := step.Placement
		c.sendJSON(gin.H{
			"type":   "placed",
			"column": p.Column + 1,
			"row":    p.Row,
			"player": int(p.Player),
			"won":    p.Won,
		})
	}
}

func (c *wsClient) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws encode failed: %v", err)
		return
	}
	// Drops the message if the client is not keeping up.
	select {
	case c.send <- data:
	default:
	}
}
