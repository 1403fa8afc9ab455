package main

import (
	"context"

	"github.com/Armin-kho/satta-result-bot/cmd/bot/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
