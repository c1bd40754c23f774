package events

import (
	"sync"

	"go.uber.org/zap"
)

type Broker interface {
	Send(Event)
}

type nopBroker struct{}

func (nopBroker) Send(Event) {}

// Nop discards every event.
var Nop Broker = nopBroker{}

// Fanout forwards each event to every broker in order.
type Fanout []Broker

func (f Fanout) Send(e Event) {
	for _, b := range f {
		b.Send(e)
	}
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) OfType(t Type) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// LogBroker writes each event to a zap logger at info level.
type LogBroker struct {
	log *zap.Logger
}

func NewLogBroker(log *zap.Logger) *LogBroker {
	return &LogBroker{log: log.Named("events")}
}

func (b *LogBroker) Send(e Event) {
	b.log.Info(e.Type().String(), append([]zap.Field{zap.Stringer("source", e.Source())}, fields(e)...)...)
}

func fields(e Event) []zap.Field {
	switch ev := e.(type) {
	case LiquidityAdded:
		return []zap.Field{
			zap.Stringer("provider", ev.Provider),
			zap.String("amountA", ev.AmountA.Dec()),
			zap.String("amountB", ev.AmountB.Dec()),
			zap.String("shares", ev.Shares.Dec()),
		}
	case LiquidityRemoved:
		return []zap.Field{
			zap.Stringer("provider", ev.Provider),
			zap.String("amountA", ev.AmountA.Dec()),
			zap.String("amountB", ev.AmountB.Dec()),
			zap.String("shares", ev.Shares.Dec()),
		}
	case SwapExecuted:
		return []zap.Field{
			zap.Stringer("trader", ev.Trader),
			zap.Stringer("sideIn", ev.SideIn),
			zap.String("amountIn", ev.AmountIn.Dec()),
			zap.String("amountOut", ev.AmountOut.Dec()),
		}
	case FeeCollected:
		return []zap.Field{
			zap.Stringer("side", ev.Side),
			zap.String("amount", ev.Amount.Dec()),
			zap.Bool("swept", ev.Swept()),
		}
	case TokensPurchased:
		return []zap.Field{
			zap.Stringer("buyer", ev.Buyer),
			zap.String("payment", ev.Payment.Dec()),
			zap.String("tokens", ev.Tokens.Dec()),
			zap.String("totalRaised", ev.TotalRaised.Dec()),
		}
	case MigrationTriggered:
		return []zap.Field{
			zap.Stringer("target", ev.Target),
			zap.String("baseAmount", ev.BaseAmount.Dec()),
			zap.String("tokenAmount", ev.TokenAmount.Dec()),
		}
	}
	return nil
}
