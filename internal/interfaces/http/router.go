package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/VozDocs-api/internal/application/auth"
	"github.com/jhoicas/VozDocs-api/internal/application/docgen"
	"github.com/jhoicas/VozDocs-api/internal/application/ports"
	"github.com/jhoicas/VozDocs-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC   *docgen.InvoiceUseCase
	ContractUC  *docgen.ContractUseCase
	PDFUC       *docgen.PDFUseCase
	UserUC      *usecase.UserUseCase
	AuthUC      *auth.AuthUseCase
	Transcriber ports.TranscriptionService // nil si el proveedor no transcribe
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/generate", invoiceHandler.Generate)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Put("/:id/regenerate", invoiceHandler.Regenerate)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Contracts (protegido)
	contracts := protected.Group("/contracts")
	contractHandler := NewContractHandler(deps.ContractUC, deps.PDFUC)
	contracts.Post("/generate", contractHandler.Generate)
	contracts.Get("/", contractHandler.List)
	contracts.Get("/:id", contractHandler.GetByID)
	contracts.Put("/:id", contractHandler.Update)
	contracts.Put("/:id/regenerate", contractHandler.Regenerate)
	contracts.Delete("/:id", contractHandler.Delete)
	contracts.Get("/:id/pdf", contractHandler.DownloadPDF)
	// Alias histórico del frontend para el PDF de contratos.
	contracts.Get("/:id/download", contractHandler.DownloadPDF)

	// Alias de compatibilidad: las rutas planas apuntan a los mismos
	// handlers que las anidadas, sin lógica duplicada.
	protected.Post("/generate-invoice", invoiceHandler.Generate)
	protected.Post("/generate-contract", contractHandler.Generate)

	// Transcripción de audio (protegido)
	transcribeHandler := NewTranscribeHandler(deps.Transcriber)
	protected.Post("/transcribe-audio", transcribeHandler.Transcribe)

	// Contexto de negocio del usuario (protegido)
	userHandler := NewUserHandler(deps.UserUC)
	biz := protected.Group("/business-context")
	biz.Get("/", userHandler.GetBusinessContext)
	biz.Put("/", userHandler.UpdateBusinessContext)
	biz.Post("/frequent-clients", userHandler.AddFrequentClient)
	biz.Delete("/frequent-clients/:name", userHandler.RemoveFrequentClient)
	biz.Post("/common-services", userHandler.AddCommonService)
	biz.Delete("/common-services/:description", userHandler.RemoveCommonService)
}
