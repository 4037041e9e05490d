package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fediasonin/botyara/internal/dispatch"
)

const testCredentialsPath = "testdata/credentials.json"

func noAppConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "app.yaml")
}

func TestLoad_CredentialsOnly(t *testing.T) {
	cfg, err := load(testCredentialsPath, noAppConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.org", cfg.Credentials.SMTPServer)
	assert.Equal(t, 587, cfg.Credentials.SMTPPort)
	assert.Equal(t, "vpn-bot", cfg.Credentials.SenderLogin)
	assert.Equal(t, "vpn-bot@example.org", cfg.Credentials.SenderEmail)
	assert.Equal(t, "-1001234567890", cfg.Credentials.TargetChatID)
	assert.Equal(t, "-4019202782", cfg.Credentials.MainChatID)

	// Без app.yaml действуют значения по умолчанию
	assert.Equal(t, "mosreg.ru", cfg.App.MailDomain)
	assert.Equal(t, dispatch.OrderChatFirst, cfg.App.Order())
	assert.Equal(t, "config/filtered_addresses.txt", cfg.App.WhitelistPath)
	assert.False(t, cfg.App.WhitelistCache)
	assert.Equal(t, 3, cfg.App.TargetThreadID)
}

func TestLoad_MissingCredentialsFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "missing.json"), noAppConfig(t))
	assert.Error(t, err)
}

func TestLoad_IncompleteCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"smtp_server":"smtp.example.org","smtp_port":587}`), 0600))

	_, err := load(path, noAppConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_token")
	assert.Contains(t, err.Error(), "sender_email")
}

func TestLoad_BadSMTPPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"smtp_server": "smtp.example.org",
		"smtp_port": 0,
		"sender_login": "l",
		"sender_email": "l@example.org",
		"sender_password": "p",
		"target_chat_id": "-1",
		"main_chat_id": "-2",
		"api_token": "t"
	}`), 0600))

	_, err := load(path, noAppConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp_port")
}

func TestLoad_AppYaml(t *testing.T) {
	appPath := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(appPath, []byte(`
mailDomain: corp.example
notifyOrder: mailFirst
whitelistPath: /etc/botyara/filtered_addresses.txt
whitelistCache: true
targetThreadID: 7
dnsServer: 127.0.0.53:53
`), 0600))

	cfg, err := load(testCredentialsPath, appPath)
	require.NoError(t, err)

	assert.Equal(t, "corp.example", cfg.App.MailDomain)
	assert.Equal(t, dispatch.OrderMailFirst, cfg.App.Order())
	assert.Equal(t, "/etc/botyara/filtered_addresses.txt", cfg.App.WhitelistPath)
	assert.True(t, cfg.App.WhitelistCache)
	assert.Equal(t, 7, cfg.App.TargetThreadID)
	assert.Equal(t, "127.0.0.53:53", cfg.App.DNSServer)
}

func TestLoad_BadNotifyOrder(t *testing.T) {
	appPath := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(appPath, []byte("notifyOrder: sideways\n"), 0600))

	_, err := load(testCredentialsPath, appPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notifyOrder")
}

// TestAppExampleYaml проверяет, что поставляемый пример app.yaml
// разбирается и проходит валидацию.
func TestAppExampleYaml(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config", "app.example.yaml"))
	require.NoError(t, err)

	var app AppConfig
	require.NoError(t, yaml.Unmarshal(data, &app))

	assert.Equal(t, "mosreg.ru", app.MailDomain)
	assert.Equal(t, "chatFirst", app.NotifyOrder)
	assert.Equal(t, 3, app.TargetThreadID)
	assert.NoError(t, app.Validate())
}

// loadSchema загружает JSON Schema из файла для валидации.
func loadSchema(t *testing.T) *jsonschema.Schema {
	t.Helper()
	schemaPath := filepath.Join("testdata", "schema", "credentials.schema.json")
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaPath)
	require.NoError(t, err, "не удалось загрузить JSON Schema")
	return schema
}

func TestCredentials_MatchSchema(t *testing.T) {
	schema := loadSchema(t)

	data, err := os.ReadFile(testCredentialsPath)
	require.NoError(t, err)

	var jsonData any
	require.NoError(t, json.Unmarshal(data, &jsonData))

	err = schema.Validate(jsonData)
	assert.NoError(t, err, "credentials.json должен соответствовать JSON Schema")
}

func TestCredentials_SchemaRejectsUnknownKeys(t *testing.T) {
	schema := loadSchema(t)

	var jsonData any
	require.NoError(t, json.Unmarshal([]byte(`{
		"smtp_server": "smtp.example.org",
		"smtp_port": 587,
		"sender_login": "l",
		"sender_email": "l@example.org",
		"sender_password": "p",
		"target_chat_id": "-1",
		"main_chat_id": "-2",
		"api_token": "t",
		"unexpected": true
	}`), &jsonData))

	assert.Error(t, schema.Validate(jsonData))
}
