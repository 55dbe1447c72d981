package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/chartgeo/internal/dataset"
	"github.com/inamate/chartgeo/internal/engine"
	"github.com/inamate/chartgeo/internal/geom"
	"github.com/inamate/chartgeo/internal/interact"
)

const (
	taskBuffer  = 256
	loadTimeout = 10 * time.Second
)

// DatasetLoader fetches a stored dataset on behalf of userID.
type DatasetLoader func(ctx context.Context, datasetID, userID string) (*dataset.Dataset, error)

var errUnknownType = errors.New("unknown message type")

// Session is one live chart. Its engine is only touched from the session
// goroutine; everything else reaches it through post.
type Session struct {
	ID    string
	Owner string // userID of the client that started the session

	engine  *engine.Engine
	loader  DatasetLoader
	clients map[string]*Client
	changed bool
	seq     int64
	log     *slog.Logger

	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}

	// members is owned by the hub and guarded by its mutex.
	members int
}

func newSession(id, owner string, opts engine.Options, loader DatasetLoader) *Session {
	s := &Session{
		ID:      id,
		Owner:   owner,
		loader:  loader,
		clients: make(map[string]*Client),
		tasks:   make(chan func(), taskBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s.log = opts.Logger.With("session", id)
	opts.Logger = s.log
	opts.Scheduler = interact.TickerScheduler{Post: func(fn func()) { s.post(fn) }}

	s.engine = engine.NewEngine(opts)
	s.engine.OnChange(func() { s.changed = true })
	return s
}

// post queues fn for the session goroutine. It reports false once the
// session has shut down.
func (s *Session) post(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.tasks <- fn:
		return true
	case <-s.done:
		return false
	}
}

// close stops the session goroutine. Queued tasks may be dropped.
func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Submit queues an input message from c.
func (s *Session) Submit(c *Client, msg *Message) bool {
	return s.post(func() {
		if err := s.handle(c, msg); err != nil {
			s.log.Warn("message rejected", "type", msg.Type, "client", c.ClientID, "error", err)
			payload, _ := json.Marshal(ErrorPayload{Ref: msg.Type, Message: err.Error()})
			c.Send(&Message{Type: TypeError, SessionID: s.ID, Payload: payload})
		}
	})
}

func (s *Session) run() {
	defer close(s.stopped)
	defer s.shutdown()

	for {
		select {
		case fn := <-s.tasks:
			fn()
			// Run what is already queued so a burst of input yields one frame.
			for n := len(s.tasks); n > 0; n-- {
				(<-s.tasks)()
			}
			if s.changed {
				s.changed = false
				s.broadcastFrame()
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) shutdown() {
	s.engine.Close()
	for id, c := range s.clients {
		close(c.send)
		delete(s.clients, id)
	}
	s.log.Info("session closed")
}

func (s *Session) join(c *Client) {
	s.clients[c.ClientID] = c
	payload, _ := json.Marshal(WelcomePayload{SessionID: s.ID, ClientID: c.ClientID})
	c.Send(&Message{Type: TypeWelcome, SessionID: s.ID, Payload: payload})
	if data, err := s.frameMessage(); err == nil {
		c.sendRaw(data)
	}
}

func (s *Session) leave(c *Client) {
	if _, ok := s.clients[c.ClientID]; !ok {
		return
	}
	delete(s.clients, c.ClientID)
	close(c.send)
}

func (s *Session) frameMessage() ([]byte, error) {
	frame, err := json.Marshal(s.engine.Render())
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	s.seq++
	return json.Marshal(&Message{Type: TypeFrame, SessionID: s.ID, Seq: s.seq, Payload: frame})
}

func (s *Session) broadcastFrame() {
	if len(s.clients) == 0 {
		return
	}
	data, err := s.frameMessage()
	if err != nil {
		s.log.Error("render frame", "error", err)
		return
	}
	for _, c := range s.clients {
		c.sendRaw(data)
	}
}

func decode[T any](msg *Message) (T, error) {
	var v T
	if len(msg.Payload) == 0 {
		return v, fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("%s: %w", msg.Type, err)
	}
	return v, nil
}

func (s *Session) handle(c *Client, msg *Message) error {
	e := s.engine
	ctrl := e.Controller()

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp:
		p, err := decode[PointPayload](msg)
		if err != nil {
			return err
		}
		at := geom.Pt(p.X, p.Y)
		switch msg.Type {
		case TypePointerDown:
			ctrl.PointerDown(at, time.Time{})
		case TypePointerMove:
			ctrl.PointerMove(at, time.Time{})
		default:
			ctrl.PointerUp(at, time.Time{})
		}
	case TypePointerLeave:
		ctrl.PointerLeave()
	case TypeScroll:
		p, err := decode[ScrollPayload](msg)
		if err != nil {
			return err
		}
		ctrl.Scroll(geom.Pt(p.X, p.Y), p.DeltaY)
	case TypePinchStart:
		p, err := decode[PointPayload](msg)
		if err != nil {
			return err
		}
		ctrl.PinchStart(geom.Pt(p.X, p.Y))
	case TypePinchUpdate:
		p, err := decode[PinchPayload](msg)
		if err != nil {
			return err
		}
		ctrl.PinchUpdate(p.Scale, geom.Pt(p.X, p.Y))
	case TypePinchEnd:
		ctrl.PinchEnd()

	case TypeSelectNext:
		e.SelectNext()
	case TypeSelectPrev:
		e.SelectPrevious()
	case TypeSelectPoint:
		p, err := decode[PointRefPayload](msg)
		if err != nil {
			return err
		}
		ctrl.TogglePoint(p.Series, p.Point)
	case TypeSelectClear:
		ctrl.ClearSelection()

	case TypeSeriesHide, TypeSeriesShow, TypeSeriesToggle, TypeSeriesIsolate:
		p, err := decode[SeriesPayload](msg)
		if err != nil {
			return err
		}
		switch msg.Type {
		case TypeSeriesHide:
			ctrl.HideSeries(p.Index)
		case TypeSeriesShow:
			ctrl.ShowSeries(p.Index)
		case TypeSeriesToggle:
			ctrl.ToggleSeriesVisibility(p.Index)
		default:
			ctrl.IsolateSeries(p.Index, len(e.Series()))
		}
	case TypeSeriesShowAll:
		ctrl.ShowAllSeries()

	case TypeViewportReset:
		ctrl.ResetViewport()
	case TypeViewportPins:
		p, err := decode[PinsPayload](msg)
		if err != nil {
			return err
		}
		ctrl.SetPins(pinOf(p.XMin), pinOf(p.XMax), pinOf(p.YMin), pinOf(p.YMax))
	case TypeLayoutResize:
		p, err := decode[LayoutPayload](msg)
		if err != nil {
			return err
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("%s: empty region", msg.Type)
		}
		e.SetLayout(geom.RectXYWH(p.X, p.Y, p.Width, p.Height))
	case TypeDatasetLoad:
		var p DatasetPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return fmt.Errorf("%s: %w", msg.Type, err)
			}
		}
		return s.loadDataset(c, p)
	case TypeDecimationSet:
		// Fields left out of the payload keep their current values.
		cfg := e.Decimation()
		if err := json.Unmarshal(msg.Payload, &cfg); err != nil {
			return fmt.Errorf("%s: %w", msg.Type, err)
		}
		e.SetDecimation(cfg)

	default:
		return fmt.Errorf("%w %q", errUnknownType, msg.Type)
	}
	return nil
}

func (s *Session) loadDataset(c *Client, p DatasetPayload) error {
	if p.DatasetID == "" {
		s.engine.LoadSample(p.Seed)
		return nil
	}
	if s.loader == nil {
		return errors.New("dataset storage is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	ds, err := s.loader(ctx, p.DatasetID, c.UserID)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	s.engine.LoadDataset(ds)
	s.log.Info("dataset loaded", "dataset", ds.ID, "points", ds.PointCount())
	return nil
}
