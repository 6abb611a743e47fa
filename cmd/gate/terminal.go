package gate

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"go.uber.org/zap"

	"github.com/birchwood-mc/gate/pkg/edition/java/proxy"
)

// runTerminal implements the operator REPL (§6): `list`, `kick <player>`,
// `send <player> <server>`, `alert <msg>` and `end`. Modeled on the
// teacher's use of github.com/gookit/color for console output, matching
// the rest of the retrieval pack's habit of coloring CLI status lines
// rather than plain fmt.Println.
func runTerminal(p *proxy.Proxy, log *zap.Logger) {
	d := proxy.NewDispatcher(p)
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "end":
			color.Yellow.Println("shutting down...")
			os.Exit(0)
		case "list":
			for _, entry := range d.List() {
				color.Cyan.Println(entry)
			}
		case "kick":
			if len(fields) < 2 {
				color.Red.Println("usage: kick <player> [reason]")
				continue
			}
			reason := "kicked by an operator"
			if len(fields) > 2 {
				reason = strings.Join(fields[2:], " ")
			}
			if err := d.Kick(fields[1], reason); err != nil {
				color.Red.Println(err.Error())
			}
		case "send":
			if len(fields) != 3 {
				color.Red.Println("usage: send <player> <server>")
				continue
			}
			if err := d.Send(fields[1], fields[2]); err != nil {
				color.Red.Println(err.Error())
			}
		case "alert":
			if len(fields) < 2 {
				color.Red.Println("usage: alert <message>")
				continue
			}
			d.Alert(strings.Join(fields[1:], " "))
		default:
			color.Red.Println(fmt.Sprintf("unknown command %q", fields[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn("terminal input closed", zap.Error(err))
	}
}
