package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messaging_service/internal/auth"
	"messaging_service/internal/chats"
	"messaging_service/internal/config"
	"messaging_service/internal/contacts"
	accountinfo "messaging_service/internal/http_server/handlers/account/info"
	accountremove "messaging_service/internal/http_server/handlers/account/remove"
	chataddmember "messaging_service/internal/http_server/handlers/chats/addmember"
	chatcreate "messaging_service/internal/http_server/handlers/chats/create"
	chatjoinself "messaging_service/internal/http_server/handlers/chats/joinself"
	chatlist "messaging_service/internal/http_server/handlers/chats/list"
	chatmembers "messaging_service/internal/http_server/handlers/chats/members"
	chatprivate "messaging_service/internal/http_server/handlers/chats/private"
	chatremove "messaging_service/internal/http_server/handlers/chats/remove"
	chatremovemember "messaging_service/internal/http_server/handlers/chats/removemember"
	contactaccept "messaging_service/internal/http_server/handlers/contacts/accept"
	contactadd "messaging_service/internal/http_server/handlers/contacts/add"
	contactlist "messaging_service/internal/http_server/handlers/contacts/list"
	contactremove "messaging_service/internal/http_server/handlers/contacts/remove"
	locationadd "messaging_service/internal/http_server/handlers/locations/add"
	locationlist "messaging_service/internal/http_server/handlers/locations/list"
	locationremove "messaging_service/internal/http_server/handlers/locations/remove"
	"messaging_service/internal/http_server/handlers/login"
	passchange "messaging_service/internal/http_server/handlers/password/change"
	passcheckflag "messaging_service/internal/http_server/handlers/password/checkflag"
	passconfirm "messaging_service/internal/http_server/handlers/password/confirm"
	passforgot "messaging_service/internal/http_server/handlers/password/forgot"
	passreset "messaging_service/internal/http_server/handlers/password/reset"
	pushregister "messaging_service/internal/http_server/handlers/pushtoken/register"
	pushremove "messaging_service/internal/http_server/handlers/pushtoken/remove"
	"messaging_service/internal/http_server/handlers/register"
	"messaging_service/internal/http_server/handlers/verify"
	weathercoords "messaging_service/internal/http_server/handlers/weather/coords"
	weatherzip "messaging_service/internal/http_server/handlers/weather/zipcode"
	"messaging_service/internal/locations"
	"messaging_service/internal/middleware/authjwt"
	"messaging_service/internal/middleware/ratelimit"
	"messaging_service/internal/notify"
	"messaging_service/internal/rabbitmq"
	"messaging_service/internal/storage/postgres"
	"messaging_service/internal/weather"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting messaging service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer msgBroker.Close()

	notifier := notify.New(log, cfg.Pushy.APIKey, cfg.Pushy.URL)
	weatherClient := weather.New(cfg.OpenWeather.APIKey, cfg.OpenWeather.GeoURL, cfg.OpenWeather.OneCallURL)

	accounts := auth.New(log, storage, storage, cfg.Tokens.Secret, cfg.Tokens.SessionTokenTTL)
	contactsService := contacts.New(log, storage, storage, storage, notifier)
	chatsService := chats.New(log, storage, storage, storage, notifier, cfg.SystemAccount.Email)
	locationsService := locations.New(log, storage, weatherClient)

	router := setupRouter(
		log,
		cfg,
		storage,
		msgBroker,
		accounts,
		contactsService,
		chatsService,
		locationsService,
		weatherClient,
	)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	storage *postgres.PostgresRepo,
	msgBroker *rabbitmq.RabbitMQClient,
	accounts *auth.Accounts,
	contactsService *contacts.Service,
	chatsService *chats.Service,
	locationsService *locations.Service,
	weatherClient *weather.Client,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(ratelimit.Register()).Post("/register",
		register.New(log, validate, accounts, msgBroker, cfg.Tokens.EmailTokenTTL, cfg.Tokens.Secret, cfg.HTTPServer.PublicURL),
	)
	r.With(ratelimit.Login()).Get("/signin",
		login.New(log, accounts),
	)
	r.With(ratelimit.Verify()).Get("/verify/{token}",
		verify.New(log, accounts),
	)

	r.With(ratelimit.ForgotPassword()).Post("/forgot-password/{email}",
		passforgot.New(log, accounts, msgBroker, cfg.Tokens.EmailTokenTTL, cfg.Tokens.Secret, cfg.HTTPServer.PublicURL),
	)
	r.Get("/forgot-password/check-flag/{email}", passcheckflag.New(log, accounts))
	r.Get("/forgot-password/{token}", passconfirm.New(log, accounts))
	r.Put("/forgot-password/new-password", passreset.New(log, validate, accounts))

	r.Get("/weather/zipcode/{zipcode}", weatherzip.New(log, weatherClient))
	r.Get("/weather/lat-lon/{lat}/{lon}", weathercoords.New(log, weatherClient))

	r.Group(func(r chi.Router) {
		r.Use(authjwt.New(log, cfg.Tokens.Secret))

		r.Post("/change-password", passchange.New(log, validate, accounts))
		r.Delete("/account", accountremove.New(log, accounts))
		r.Get("/user-info", accountinfo.New(log, accounts))

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/add", contactadd.New(log, validate, contactsService))
			r.Post("/accept", contactaccept.New(log, validate, contactsService))
			r.Post("/delete", contactremove.New(log, validate, contactsService))
			r.Get("/retrieve", contactlist.New(log, "friends", contactsService.Friends))
			r.Get("/outgoing", contactlist.New(log, "outgoing", contactsService.Outgoing))
			r.Get("/incoming", contactlist.New(log, "incoming", contactsService.Incoming))
			r.Get("/candidates", contactlist.New(log, "candidates", contactsService.Candidates))
		})

		r.Route("/chats", func(r chi.Router) {
			r.Post("/", chatcreate.New(log, validate, chatsService))
			r.Get("/", chatlist.New(log, chatsService))
			r.Put("/addSelf/{chatId}", chatjoinself.New(log, chatsService))
			r.Put("/addOther/{chatId}", chataddmember.New(log, validate, chatsService))
			r.Delete("/removeMember/{chatId}/{email}", chatremovemember.New(log, chatsService))
			r.Get("/members/{chatId}", chatmembers.New(log, chatsService))
			r.Get("/private/{email}", chatprivate.New(log, chatsService))
			r.Delete("/{chatId}", chatremove.New(log, chatsService))
		})

		r.Route("/location", func(r chi.Router) {
			r.Post("/add/{lat}/{lon}", locationadd.New(log, locationsService))
			r.Delete("/delete/{lat}/{lon}", locationremove.New(log, locationsService))
			r.Get("/", locationlist.New(log, locationsService))
		})

		r.Route("/push-token", func(r chi.Router) {
			r.Put("/", pushregister.New(log, validate, storage))
			r.Delete("/", pushremove.New(log, storage))
		})
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
