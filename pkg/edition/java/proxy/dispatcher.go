package proxy

import (
	"fmt"

	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
)

// Dispatcher is the operator-facing counterpart to the in-game command
// injector: the terminal REPL (§6) routes `kick`/`send`/`alert` through it
// rather than touching ClientSession directly, so failures are reported
// back as plain errors instead of propagating into the connection's own
// error handling (§4.9).
type Dispatcher struct {
	p *Proxy
}

func NewDispatcher(p *Proxy) *Dispatcher { return &Dispatcher{p: p} }

func (d *Dispatcher) Kick(username, reason string) error {
	s, ok := d.p.Session(username)
	if !ok {
		return fmt.Errorf("no such player %q", username)
	}
	s.Kick(chat.Text(reason))
	return nil
}

func (d *Dispatcher) Send(username, server string) error {
	s, ok := d.p.Session(username)
	if !ok {
		return fmt.Errorf("no such player %q", username)
	}
	if _, ok := d.p.Server(server); !ok {
		return fmt.Errorf("no such server %q", server)
	}
	return s.SwitchTo(server)
}

func (d *Dispatcher) Alert(message string) {
	for _, s := range d.p.Sessions() {
		_ = s.SendMessage(chat.Text(message))
	}
}

func (d *Dispatcher) List() []string {
	sessions := d.p.Sessions()
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, fmt.Sprintf("%s -> %s", s.Username(), s.ActiveBackend()))
	}
	return names
}
