package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/fediasonin/botyara/internal/pkg/apperrors"
)

// Пути к файлам конфигурации по умолчанию.
const (
	DefaultCredentialsPath = "config/credentials.json"
	DefaultAppConfigPath   = "config/app.yaml"
)

// MustLoad загружает полную конфигурацию процесса. Пути к файлам
// переопределяются переменными BOTYARA_CREDENTIALS_PATH и
// BOTYARA_CONFIG_PATH. Невалидная конфигурация обнаруживается здесь,
// а не при первом использовании транспорта.
func MustLoad() (*Config, error) {
	credPath := os.Getenv("BOTYARA_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = DefaultCredentialsPath
	}

	appPath := os.Getenv("BOTYARA_CONFIG_PATH")
	if appPath == "" {
		appPath = DefaultAppConfigPath
	}

	return load(credPath, appPath)
}

func load(credPath, appPath string) (*Config, error) {
	var cfg Config

	// credentials.json обязателен: без секретов транспорты бесполезны
	if err := cleanenv.ReadConfig(credPath, &cfg.Credentials); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			fmt.Sprintf("чтение %s", credPath), err)
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "credentials", err)
	}

	// app.yaml необязателен: без файла работают значения по умолчанию
	// и переменные окружения
	if _, err := os.Stat(appPath); err == nil {
		if err := cleanenv.ReadConfig(appPath, &cfg.App); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigParse,
				fmt.Sprintf("разбор %s", appPath), err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg.App); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				"чтение переменных окружения", err)
		}
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigValidate, "app", err)
	}

	return &cfg, nil
}
