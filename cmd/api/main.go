package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tamayuz/platform-api/internal/application/auth"
	"github.com/tamayuz/platform-api/internal/application/billing"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
	"github.com/tamayuz/platform-api/internal/application/permission"
	"github.com/tamayuz/platform-api/internal/application/usecase"
	inframail "github.com/tamayuz/platform-api/internal/infrastructure/mail"
	infrapdf "github.com/tamayuz/platform-api/internal/infrastructure/pdf"
	"github.com/tamayuz/platform-api/internal/infrastructure/postgres"
	httpRouter "github.com/tamayuz/platform-api/internal/interfaces/http"
	"github.com/tamayuz/platform-api/pkg/config"
	"github.com/tamayuz/platform-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	featureRepo := postgres.NewFeatureRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	histRepo := postgres.NewSubscriptionHistoryRepository(pool)
	grantRepo := postgres.NewGrantRepository(pool)
	layoutRepo := postgres.NewLayoutRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mailer := inframail.NewGomailSender(cfg.SMTP)
	receiptGen := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)

	authUC := auth.NewAuthUseCase(userRepo, txRunner, mailer, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	checkoutUC := onboarding.NewCheckoutUseCase(txRunner, mailer)
	provisionUC := onboarding.NewProvisionUseCase(txRunner)
	resolver := permission.NewResolver(userRepo, branchRepo, featureRepo, grantRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo, userRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo, contactRepo, userRepo)
	userUC := usecase.NewUserUseCase(userRepo, branchRepo, txRunner)
	featureUC := usecase.NewFeatureUseCase(featureRepo, userRepo)
	subscriptionUC := usecase.NewSubscriptionUseCase(subRepo, histRepo, featureRepo)
	receiptUC := billing.NewReceiptUseCase(histRepo, userRepo, featureRepo, receiptGen)
	layoutUC := usecase.NewLayoutUseCase(layoutRepo, featureRepo, userRepo, branchRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CheckoutUC:     checkoutUC,
		ProvisionUC:    provisionUC,
		Resolver:       resolver,
		CompanyUC:      companyUC,
		BranchUC:       branchUC,
		UserUC:         userUC,
		FeatureUC:      featureUC,
		SubscriptionUC: subscriptionUC,
		ReceiptUC:      receiptUC,
		LayoutUC:       layoutUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
