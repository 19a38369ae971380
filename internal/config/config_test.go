package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDatabaseID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"raw id", "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4", "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4"},
		{
			"dashed id",
			"a1b2c3d4-e5f6-a1b2-c3d4-e5f6a1b2c3d4",
			"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4",
		},
		{
			"url with view id",
			"https://www.notion.so/myspace/Notes-a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4?v=00000000000000000000000000000000",
			"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4",
		},
		{
			"url without view",
			"https://www.notion.so/myspace/Notes-a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4",
			"a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4",
		},
		{"not an id", "just-a-name", "just-a-name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDatabaseID(tt.input))
		})
	}
}

func TestValidateRequiresMandatorySettings(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Telegram.BotToken = "123:abc"
	assert.Error(t, cfg.Validate(), "store settings still missing")

	cfg.Store.Token = "secret"
	cfg.Store.CatalogDB = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4"
	cfg.Store.NotesDB = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4"
	assert.NoError(t, cfg.Validate())

	assert.False(t, cfg.TasksConfigured())
	assert.False(t, cfg.TimeLogConfigured())
}
