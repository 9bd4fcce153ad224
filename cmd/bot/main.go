package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/ap-prep/internal/app"
	"github.com/aliskhannn/ap-prep/internal/config"
	"github.com/aliskhannn/ap-prep/internal/delivery/telegram"
	"github.com/aliskhannn/ap-prep/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err = cfg.RequireTelegram(); err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to build app", zap.Error(err))
	}
	defer a.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create telegram bot", zap.Error(err))
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "quiz", Description: "Pick a question bank"},
		{Command: "exam", Description: "25-question practice exam"},
		{Command: "progress", Description: "Best scores"},
		{Command: "reset", Description: "Clear best scores"},
		{Command: "circuit", Description: "Ohm's law: /circuit series 28 10 4"},
		{Command: "help", Description: "Help"},
	}
	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, a.Quiz, a.Progress, a.Circuit)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})
	g.Go(func() error {
		return a.Janitor.Start(gctx)
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped with error", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}
