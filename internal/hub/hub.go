package hub

import (
	"context"

	"github.com/kevinmathew47/typing-tug-backend/internal/round"
	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

type CreateRound struct {
	Code  string
	Reply chan *round.Round
}

type GetRound struct {
	Code  string
	Reply chan *round.Round
}

type EnsureRound struct {
	Code  string
	Reply chan *round.Round
}

type RemoveRound struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRound) isHubMsg() {}
func (GetRound) isHubMsg()    {}
func (EnsureRound) isHubMsg() {}
func (RemoveRound) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

// Hub owns the round registry. Like the rounds themselves it is an actor:
// all map access happens on the loop goroutine.
type Hub struct {
	inbox  chan HubMsg
	rounds map[string]*round.Round
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rounds: make(map[string]*round.Round),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRound:
				if r := h.rounds[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				r := round.NewRound(h.ctx, h.log.With(zap.String("round", msg.Code)))
				h.rounds[msg.Code] = r
				h.log.Info("round created", zap.String("code", msg.Code))
				msg.Reply <- r

			case GetRound:
				msg.Reply <- h.rounds[msg.Code] // May be nil

			case EnsureRound:
				if r := h.rounds[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				r := round.NewRound(h.ctx, h.log.With(zap.String("round", msg.Code)))
				h.rounds[msg.Code] = r
				msg.Reply <- r

			case RemoveRound:
				delete(h.rounds, msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, r := range h.rounds {
		r.Inbox() <- round.Shutdown{}
	}
	clear(h.rounds)
	h.cancel()
}
