package round

import (
	"context"
	"math/rand"
	"time"

	"github.com/kevinmathew47/typing-tug-backend/internal/engine"
	"go.uber.org/zap"
)

type Msg interface{ isRoundMsg() }

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isRoundMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isRoundMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoundMsg() {}

type Shutdown struct{}

func (Shutdown) isRoundMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isRoundMsg() {}

// Snapshot is what clients render: the full state plus the derived display
// metrics, stamped with a monotonically increasing version.
type Snapshot struct {
	Version        int
	State          engine.State
	WordsPerMinute int
	TypingAccuracy float64
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// Round owns one game's state. All mutation happens on the loop goroutine:
// the keystroke path (inbox) and the opponent tick path (ticker) are arms of
// the same select, so each engine.Apply is atomic with respect to the other.
type Round struct {
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	ticker  *time.Ticker // non-nil only while the round is active
	rng     *rand.Rand
	now     func() time.Time
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRound(parent context.Context, log *zap.Logger) *Round {
	ctx, cancel := context.WithCancel(parent)

	r := &Round{
		inbox:   make(chan Msg, 64),
		state:   engine.NewEmptyState(),
		clients: make(map[string]chan Snapshot),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Round) loop() {
	for {
		// A nil ticker means no round is running; a nil channel arm never
		// fires.
		var tick <-chan time.Time
		if r.ticker != nil {
			tick = r.ticker.C
		}

		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case at := <-tick:
			base := engine.OpponentSpeedMin + r.rng.Float64()*(engine.OpponentSpeedMax-engine.OpponentSpeedMin)
			r.apply(engine.Command{Type: engine.CmdOpponentTick, BaseSpeed: base, At: at})

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				r.clients[msg.ClientID] = msg.Outbox
				select {
				case msg.Outbox <- r.snapshot():
					// ok
				default:
					// No room for even the first snapshot - drop them.
					close(msg.Outbox)
					delete(r.clients, msg.ClientID)
				}

			case Leave:
				// Closing the outbox ends the client's writer; a client
				// already dropped by broadcast is a no-op here.
				if ch, ok := r.clients[msg.ClientID]; ok {
					close(ch)
					delete(r.clients, msg.ClientID)
				}

			case FromClient:
				r.apply(msg.Cmd)

			case GetView:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Round) apply(cmd engine.Command) {
	events, newState, err := engine.Apply(r.state, cmd)
	if err != nil {
		// Keystrokes before start and commands after completion land here;
		// the client keeps its last snapshot.
		r.log.Debug("command rejected", zap.String("cmd", string(cmd.Type)), zap.Error(err))
		return
	}
	if len(events) == 0 && newState == r.state {
		// Stale opponent tick after deactivation; nothing to broadcast.
		return
	}
	r.state = newState

	if engine.ContainsEvent(events, engine.EvtRoundStarted) {
		r.startTicker()
	}
	if engine.ContainsEvent(events, engine.EvtRoundCompleted) || engine.ContainsEvent(events, engine.EvtRoundStopped) {
		r.stopTicker()
	}
	if engine.ContainsEvent(events, engine.EvtRoundCompleted) {
		r.log.Info("round completed", zap.String("winner", string(r.state.Winner)))
	}

	r.version++
	r.broadcast(r.snapshot())
}

func (r *Round) startTicker() {
	r.stopTicker()
	r.ticker = time.NewTicker(engine.OpponentTickInterval)
}

// stopTicker is idempotent; every exit path calls it and a second call is a
// no-op.
func (r *Round) stopTicker() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	r.ticker = nil
}

func (r *Round) shutdown() {
	r.stopTicker()
	for id, ch := range r.clients {
		close(ch) // Tell client no more snapshots
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Round) snapshot() Snapshot {
	return Snapshot{
		Version:        r.version,
		State:          r.state,
		WordsPerMinute: engine.OverallWPM(r.state, r.now()),
		TypingAccuracy: engine.Accuracy(r.state),
	}
}

func (r *Round) broadcast(snap Snapshot) {
	for id, ch := range r.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
		}
	}
}

// Expose the inbox so tests or the WS layer can send messages.
func (r *Round) Inbox() chan<- Msg { return r.inbox }
