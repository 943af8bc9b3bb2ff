package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/holica49/led-rental-chatbot-sub000/bot"
	"github.com/holica49/led-rental-chatbot-sub000/bot/chat"
	"github.com/holica49/led-rental-chatbot-sub000/bot/chat/intake"
	"github.com/holica49/led-rental-chatbot-sub000/impl/core"
	"github.com/holica49/led-rental-chatbot-sub000/internal/config"
	repository "github.com/holica49/led-rental-chatbot-sub000/internal/database"
	"github.com/holica49/led-rental-chatbot-sub000/internal/http-server/api"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/logger"
	"github.com/holica49/led-rental-chatbot-sub000/internal/lib/sl"
	"github.com/holica49/led-rental-chatbot-sub000/internal/pricing"
	"github.com/holica49/led-rental-chatbot-sub000/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", slog.String("error", err.Error()))
		} else {
			// Set up Telegram handler for the logger
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", slog.String("error", err.Error()))
				}
			}()
		}
	}

	lg.Info("starting led-rental-chatbot", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	if tgBot != nil {
		handler.SetNotifier(tgBot)
	}

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	hub := ws.NewHub(lg)
	go hub.Run()
	handler.SetBroadcaster(hub)

	quoter := pricing.New(conf.Pricing)
	flows := intake.NewFlows(quoter, lg)

	store := chat.NewMemoryStore(time.Duration(conf.Session.MaxAgeMinutes)*time.Minute, lg)
	store.StartSweeper(context.Background(), time.Duration(conf.Session.SweepMinutes)*time.Minute)

	engine := chat.NewEngine(store, flows, quoter, lg)
	engine.SetCompletionListener(handler)
	handler.SetChatEngine(engine)

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
