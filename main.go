package main

import "github.com/birchwood-mc/gate/cmd/gate"

func main() {
	gate.Execute()
}
