package proxy

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/pires/go-proxyproto"
	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/netmc"
	"github.com/birchwood-mc/gate/pkg/util/errs"
)

// acceptLoop is the front listener (§4.1, §7 RateError): every inbound TCP
// connection is first checked against the per-IP connect quota, rejected at
// the transport level (no handshake read) if it fails, then optionally
// unwrapped for the PROXY protocol header before a netmc.Conn and
// handshakeHandler take over. Grounded on dmitrymodder-minewire's accept
// loop shape, generalized with the teacher's per-connection goroutine and
// github.com/pires/go-proxyproto from mcplaynetwork-gate-arm's listener.
func (p *Proxy) acceptLoop(ctx context.Context) error {
	ln := p.listener
	if p.cfg.AcceptProxyProtocol {
		ln = &proxyproto.Listener{Listener: ln}
	}

	for {
		c, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-p.shutdownCh:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			p.log.Warn("accept failed", zap.Error(err))
			continue
		}

		if !p.quota.Allow(c.RemoteAddr()) {
			_ = c.Close()
			continue
		}

		go p.handleInbound(ctx, c)
	}
}

func (p *Proxy) handleInbound(ctx context.Context, c net.Conn) {
	log := p.log.With(zap.Stringer("remote", c.RemoteAddr()))
	conn := netmc.New(c, log, p.regs)
	conn.SetRateLimits(p.cfg.RateLimit.PacketsPerSecond, p.cfg.RateLimit.BytesPerSecond)
	conn.SetSessionHandler(newHandshakeHandler(p, conn, log))

	if d := p.cfg.Timeouts.LoginSeconds; d > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(time.Duration(d) * time.Second))
	}

	conn.ReadLoop(ctx)

	if err := conn.Close(); err != nil && !errs.IsConnClosedErr(err) {
		log.Debug("close after read loop", zap.Error(err))
	}
}
