// Package gate wires together configuration loading, logger
// initialization, and the proxy's lifecycle -- the cobra root command in
// root.go is a thin shell around Run. Adapted from the teacher's
// cmd/gate/gate.go, retargeted onto this module's own config/proxy
// packages and extended with the operator REPL (§6).
package gate

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/birchwood-mc/gate/pkg/config"
	"github.com/birchwood-mc/gate/pkg/edition/java/proto/chat"
	"github.com/birchwood-mc/gate/pkg/edition/java/proxy"
)

func Run() (err error) {
	cfg := config.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := initLogger(cfg.Debug); err != nil {
		return fmt.Errorf("error initializing global logger: %w", err)
	}

	if err := config.Validate(&cfg); err != nil {
		return fmt.Errorf("error validating config: %w", err)
	}

	log := zap.L()
	p := proxy.New(cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer func() { signal.Stop(sig); close(sig) }()

	go func() {
		s, ok := <-sig
		if !ok {
			return
		}
		log.Sugar().Infof("received %s signal, shutting down", s)
		p.Shutdown(chat.Text("Gate proxy is shutting down...\nPlease reconnect in a moment!"))
		cancel()
	}()

	go runTerminal(p, log)

	return p.Run(ctx)
}

func initLogger(debug bool) (err error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	return nil
}
