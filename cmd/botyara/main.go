// Package main содержит точку входа бота обработки оповещений о
// блокировках VPN-подключений.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fediasonin/botyara/internal/config"
	"github.com/fediasonin/botyara/internal/di"
)

// shutdownTimeout — время на экспорт буферизированных span-ов при
// завершении.
const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.MustLoad()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка загрузки конфигурации: %v\n", err)
		return 1
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ошибка инициализации приложения: %v\n", err)
		return 1
	}

	// Завершение по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Bot.Run(ctx); err != nil {
		app.Logger.Error("бот завершился с ошибкой", "error", err.Error())
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.TracerShutdown(shutdownCtx); err != nil {
		app.Logger.Warn("ошибка завершения tracing", "error", err.Error())
	}

	return 0
}
