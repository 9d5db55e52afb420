package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Debashish2005/Shopzi/internal/app"
	"github.com/Debashish2005/Shopzi/internal/app/handlers"
	"github.com/Debashish2005/Shopzi/internal/config"
	"github.com/Debashish2005/Shopzi/internal/jwt/jwtmiddleware"
	"github.com/Debashish2005/Shopzi/internal/lib/logger"
	"github.com/Debashish2005/Shopzi/internal/lib/logger/handlers/urllog"
	"github.com/Debashish2005/Shopzi/internal/mail"
	"github.com/Debashish2005/Shopzi/internal/service"
	"github.com/Debashish2005/Shopzi/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// repositories, one per table
	userRepo := storage.NewUserRepository(application.DB)
	tokenRepo := storage.NewResetTokenRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	addressRepo := storage.NewAddressRepository(application.DB)
	cartRepo := storage.NewCartRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)

	mailer := mail.NewSMTPMailer(cfg.SMTP)

	authService := service.NewAuthService(application.Logger, userRepo, tokenRepo, mailer,
		time.Duration(application.Config.JWT.TokenTTL)*time.Minute, cfg.Frontend.URL)
	profileService := service.NewProfileService(application.Logger, userRepo)
	addressService := service.NewAddressService(application.Logger, addressRepo)
	catalogService := service.NewCatalogService(application.Logger, productRepo)
	cartService := service.NewCartService(application.Logger, cartRepo)
	orderService := service.NewOrderService(application.Logger, application.DB,
		addressRepo, productRepo, orderRepo, cartRepo)

	// public endpoints
	router.Post("/signup", handlers.SignupHandler(application.Logger, authService))
	router.Post("/login", handlers.LoginHandler(application.Logger, authService))
	router.Post("/logout", handlers.LogoutHandler(application.Logger))
	router.Post("/forgot-password", handlers.ForgotPasswordHandler(application.Logger, authService))
	router.Post("/reset-password", handlers.ResetPasswordHandler(application.Logger, authService))
	router.Get("/products", handlers.ListProductsHandler(application.Logger, catalogService))
	router.Get("/product/{id}", handlers.GetProductHandler(application.Logger, catalogService))
	router.Post("/add-product", handlers.AddProductHandler(application.Logger, catalogService))

	// authenticated endpoints
	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)

		r.Post("/change-password", handlers.ChangePasswordHandler(application.Logger, authService))
		r.Get("/me", handlers.MeHandler(application.Logger, profileService))
		r.Put("/me", handlers.UpdateMeHandler(application.Logger, profileService))

		r.Post("/post-address", handlers.CreateAddressHandler(application.Logger, addressService))
		r.Get("/addresses", handlers.ListAddressesHandler(application.Logger, addressService))
		r.Get("/address/{id}", handlers.GetAddressHandler(application.Logger, addressService))
		r.Put("/address/{id}", handlers.UpdateAddressHandler(application.Logger, addressService))
		r.Delete("/addresses/{id}", handlers.DeleteAddressHandler(application.Logger, addressService))

		r.Post("/add-to-cart", handlers.AddToCartHandler(application.Logger, cartService))
		r.Get("/cart", handlers.GetCartHandler(application.Logger, cartService))
		r.Delete("/cart/{cartItemId}", handlers.RemoveCartItemHandler(application.Logger, cartService))

		r.Post("/place-order", handlers.PlaceOrderHandler(application.Logger, orderService))
		r.Get("/orders", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Delete("/orders/{orderId}", handlers.CancelOrderHandler(application.Logger, orderService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
