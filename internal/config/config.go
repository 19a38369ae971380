package config

import (
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Store    StoreConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port        string
	Environment string
	LogFilePath string
	WebhookURL  string // empty means long polling
}

type TelegramConfig struct {
	BotToken string `validate:"required"`
}

// StoreConfig holds the remote document store databases. Catalog and Notes
// are mandatory; Tasks, Projects and TimeLog unlock the optional workflows.
type StoreConfig struct {
	Token      string `validate:"required"`
	CatalogDB  string `validate:"required"`
	NotesDB    string `validate:"required"`
	TasksDB    string
	ProjectsDB string
	TimeLogDB  string
}

type APIKeys struct {
	OpenAI string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	// NOTION_API_KEY is the documented name; NOTION_TOKEN kept for older
	// deployments.
	storeToken := getEnv("NOTION_API_KEY", "")
	if storeToken == "" {
		storeToken = getEnv("NOTION_TOKEN", "")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "bot.log"),
			WebhookURL:  strings.TrimRight(strings.TrimSpace(getEnv("WEBHOOK_URL", "")), "/"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", ""),
		},
		Store: StoreConfig{
			Token:      storeToken,
			CatalogDB:  ExtractDatabaseID(getEnv("CATALOG_DB_ID", "")),
			NotesDB:    ExtractDatabaseID(getEnv("NOTES_DB_ID", "")),
			TasksDB:    ExtractDatabaseID(getEnv("TASKS_DB_ID", "")),
			ProjectsDB: ExtractDatabaseID(getEnv("PROJECTS_DB_ID", "")),
			TimeLogDB:  ExtractDatabaseID(getEnv("TIMELOG_DB_ID", "")),
		},
		Keys: APIKeys{
			OpenAI: strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		},
	}
}

// Validate fails fast on missing mandatory settings.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.Telegram); err != nil {
		return err
	}
	return v.Struct(c.Store)
}

// TasksConfigured reports whether the task workflow can run.
func (c *Config) TasksConfigured() bool { return c.Store.TasksDB != "" }

// TimeLogConfigured reports whether the time tracking workflow can run.
func (c *Config) TimeLogConfigured() bool {
	return c.Store.TimeLogDB != "" && c.Store.ProjectsDB != ""
}

var dbIDPattern = regexp.MustCompile(`[0-9a-fA-F]{32}`)

// ExtractDatabaseID accepts either a raw 32-hex database id or a full URL
// pasted from the store UI and returns the id. The query string is dropped
// first: ?v= carries the view id, not the database id.
func ExtractDatabaseID(s string) string {
	if s == "" {
		return s
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	matches := dbIDPattern.FindAllString(strings.ReplaceAll(s, "-", ""), -1)
	if len(matches) == 0 {
		return s
	}
	return matches[len(matches)-1]
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
