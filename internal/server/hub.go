package server

import (
	"sync"

	"squadtactics/internal/combat"
)

// hub fans battle events out to websocket subscribers. Slow subscribers lose
// events rather than stall the battle.
type hub struct {
	mu   sync.Mutex
	subs map[chan combat.Event]struct{}
}

const subscriberBuffer = 64

func newHub() *hub {
	return &hub{subs: map[chan combat.Event]struct{}{}}
}

func (h *hub) subscribe() chan combat.Event {
	ch := make(chan combat.Event, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unsubscribe(ch chan combat.Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(ev combat.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// closeAll drops every subscriber; their readers see a closed channel.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
