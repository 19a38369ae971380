package bootstrap

import (
	"log"

	"catalog-assistant/internal/ai"
	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/config"
	"catalog-assistant/internal/conversation"
	"catalog-assistant/internal/notes"
	"catalog-assistant/internal/notion"
	"catalog-assistant/internal/pkg/logger"
	"catalog-assistant/internal/projects"
	"catalog-assistant/internal/repository/memory"
	"catalog-assistant/internal/tasks"
	"catalog-assistant/internal/timelog"
	"catalog-assistant/internal/transport/telegram"
)

// Container wires the whole graph once at startup; main.go and the server
// pull what they need from it.
type Container struct {
	Bot        *telegram.Bot
	Dispatcher *telegram.Dispatcher
	Machine    *conversation.Machine
	Sessions   *memory.SessionRepository
	Logger     logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Remote document store gateway, shared by every service.
	gateway := notion.NewClient(cfg.Store.Token)

	// AI tagging is optional; without a key notes keep their hashtags only.
	var tagger ai.TagProvider = ai.NoopProvider{}
	if cfg.Keys.OpenAI != "" {
		tagger = ai.NewOpenAIProvider(cfg.Keys.OpenAI)
		log.Println("[INFO] AI tagging enabled")
	}

	resolver := catalog.NewResolver(gateway, cfg.Store.CatalogDB, sysLogger)
	navigator := catalog.NewNavigator(gateway, cfg.Store.CatalogDB)
	noteSvc := notes.NewService(gateway, cfg.Store.NotesDB, tagger, sysLogger)
	projectRes := projects.NewResolver(gateway, cfg.Store.ProjectsDB)
	taskSvc := tasks.NewService(gateway, cfg.Store.TasksDB, projectRes)
	timeSvc := timelog.NewService(gateway, cfg.Store.TimeLogDB, projectRes)

	machine := conversation.NewMachine(resolver, navigator, noteSvc, taskSvc, timeSvc, sysLogger)
	sessions := memory.NewSessionRepository()

	bot, err := telegram.NewBot(cfg.Telegram.BotToken, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Telegram bot: %v", err)
	}

	dispatcher := telegram.NewDispatcher(bot, machine, sessions, sysLogger)

	return &Container{
		Bot:        bot,
		Dispatcher: dispatcher,
		Machine:    machine,
		Sessions:   sessions,
		Logger:     sysLogger,
	}
}
