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
	"github.com/jhoicas/VozDocs-api/internal/application/auth"
	"github.com/jhoicas/VozDocs-api/internal/application/docgen"
	"github.com/jhoicas/VozDocs-api/internal/application/ports"
	"github.com/jhoicas/VozDocs-api/internal/application/usecase"
	infraai "github.com/jhoicas/VozDocs-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/VozDocs-api/internal/infrastructure/pdf"
	"github.com/jhoicas/VozDocs-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/VozDocs-api/internal/interfaces/http"
	"github.com/jhoicas/VozDocs-api/pkg/config"
	"github.com/jhoicas/VozDocs-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	userRepo := postgres.NewUserRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	contractRepo := postgres.NewContractRepository(pool)

	// Proveedor LLM para la extracción. OpenAI además transcribe audio con
	// Whisper; con Gemini el endpoint de transcripción responde 501.
	var llm ports.LLMService
	var transcriber ports.TranscriptionService
	switch cfg.AI.Provider {
	case "gemini":
		llm = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	default:
		openAI := infraai.NewOpenAIService(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel, cfg.AI.WhisperModel)
		llm = openAI
		transcriber = openAI
	}
	log.Info().Str("provider", cfg.AI.Provider).Msg("proveedor de IA configurado")

	invoiceUC := docgen.NewInvoiceUseCase(llm, invoiceRepo, userRepo)
	contractUC := docgen.NewContractUseCase(llm, contractRepo)
	pdfUC := docgen.NewPDFUseCase(
		invoiceRepo, contractRepo,
		infrapdf.NewMarotoInvoiceGenerator(),
		infrapdf.NewMarotoContractGenerator(),
	)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		// Timeouts generosos: la extracción LLM puede tardar decenas de segundos.
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 90,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    26 * 1024 * 1024, // audio de hasta 25 MB + overhead multipart
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VozDocs API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:   invoiceUC,
		ContractUC:  contractUC,
		PDFUC:       pdfUC,
		UserUC:      userUC,
		AuthUC:      authUC,
		Transcriber: transcriber,
		JWTSecret:   cfg.JWT.Secret,
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
