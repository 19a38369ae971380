// Connectivity diagnostics: checks the Telegram token and every configured
// store database, printing a pass/fail line per dependency. Run it after
// editing .env and before starting the bot.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"catalog-assistant/internal/config"
	"catalog-assistant/internal/notion"
)

func main() {
	cfg := config.Load()

	ok := true
	ok = checkTelegram(cfg.Telegram.BotToken) && ok

	gw := notion.NewClient(cfg.Store.Token)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ok = checkDatabase(ctx, gw, "Catalog", cfg.Store.CatalogDB, true) && ok
	ok = checkDatabase(ctx, gw, "Notes", cfg.Store.NotesDB, true) && ok
	ok = checkDatabase(ctx, gw, "Tasks", cfg.Store.TasksDB, false) && ok
	ok = checkDatabase(ctx, gw, "Projects", cfg.Store.ProjectsDB, false) && ok
	ok = checkDatabase(ctx, gw, "TimeLog", cfg.Store.TimeLogDB, false) && ok

	if !ok {
		os.Exit(1)
	}
	color.Green("\nAll checks passed.")
}

func checkTelegram(token string) bool {
	if token == "" {
		fail("Telegram", "BOT_TOKEN is empty")
		return false
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		fail("Telegram", err.Error())
		return false
	}
	pass("Telegram", "@"+api.Self.UserName)
	return true
}

func checkDatabase(ctx context.Context, gw notion.Gateway, name, id string, required bool) bool {
	if id == "" {
		if required {
			fail(name, "database id is not set")
			return false
		}
		color.Yellow("SKIP %-9s not configured", name)
		return true
	}
	if _, err := gw.Query(ctx, id, nil, 1); err != nil {
		fail(name, err.Error())
		return false
	}
	pass(name, id)
	return true
}

func pass(name, detail string) {
	fmt.Printf("%s %-9s %s\n", color.GreenString("OK  "), name, detail)
}

func fail(name, detail string) {
	fmt.Printf("%s %-9s %s\n", color.RedString("FAIL"), name, detail)
}
