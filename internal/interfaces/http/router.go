package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tamayuz/platform-api/internal/application/auth"
	"github.com/tamayuz/platform-api/internal/application/billing"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
	"github.com/tamayuz/platform-api/internal/application/permission"
	"github.com/tamayuz/platform-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CheckoutUC     *onboarding.CheckoutUseCase
	ProvisionUC    *onboarding.ProvisionUseCase
	Resolver       *permission.Resolver
	CompanyUC      *usecase.CompanyUseCase
	BranchUC       *usecase.BranchUseCase
	UserUC         *usecase.UserUseCase
	FeatureUC      *usecase.FeatureUseCase
	SubscriptionUC *usecase.SubscriptionUseCase
	ReceiptUC      *billing.ReceiptUseCase
	LayoutUC       *usecase.LayoutUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Catálogo de features pagas y paquetes (público, pantalla de compra)
	featureHandler := NewFeatureHandler(deps.FeatureUC)
	api.Get("/features", featureHandler.ListPaid)
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC, deps.ReceiptUC)
	api.Get("/subscriptions", subscriptionHandler.ListPackages)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Onboarding: checkout, activación (staff) y aprovisionamiento
	onboardingHandler := NewOnboardingHandler(deps.CheckoutUC, deps.ProvisionUC)
	onb := protected.Group("/onboarding")
	onb.Post("/checkout", onboardingHandler.Checkout)
	onb.Post("/subscriptions/:id/activate", RequireSuperuser(), onboardingHandler.Activate)
	onb.Post("/verify-token", onboardingHandler.VerifyToken)
	onb.Post("/companies", onboardingHandler.CreateCompany)
	onb.Post("/branches", onboardingHandler.CreateBranch)

	// Historial de suscripciones del actor y recibos
	hist := protected.Group("/subscriptions/history")
	hist.Get("/", subscriptionHandler.ListHistory)
	hist.Get("/:id", subscriptionHandler.GetHistory)
	hist.Get("/:id/receipt", subscriptionHandler.DownloadReceipt)

	// Catálogo completo y alta (solo staff de la plataforma)
	protected.Get("/features/all", featureHandler.ListAll)
	protected.Post("/features", RequireSuperuser(), featureHandler.Create)

	// Permisos: vista propia y comparación lado a lado
	permissionHandler := NewPermissionHandler(deps.Resolver)
	perms := protected.Group("/permissions")
	perms.Get("/", permissionHandler.SelfView)
	perms.Post("/compare", RequireAdmin(), permissionHandler.Comparison)

	// Empresa del actor
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", companyHandler.Update)

	// Sucursales y layouts por sucursal
	branchHandler := NewBranchHandler(deps.BranchUC)
	layoutHandler := NewLayoutHandler(deps.LayoutUC)
	branches := protected.Group("/branches")
	branches.Get("/", branchHandler.List)
	branches.Get("/:id", branchHandler.Get)
	branches.Put("/:id", branchHandler.Update)
	branches.Delete("/:id", branchHandler.Delete)
	branches.Get("/:branch_id/layout", layoutHandler.Get)
	branches.Put("/:branch_id/layout", layoutHandler.Save)

	// Usuarios de la empresa (gestión solo dueño/admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Post("/", RequireAdmin(), userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", RequireAdmin(), userHandler.Delete)

	// Al final: /subscriptions/:id no debe capturar /subscriptions/history.
	api.Get("/subscriptions/:id", subscriptionHandler.GetPackage)
}
