package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/FitnessGH/fitness-gh-backend/internal/account"
	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/config"
	"github.com/FitnessGH/fitness-gh-backend/internal/email"
	"github.com/FitnessGH/fitness-gh-backend/internal/gym"
	"github.com/FitnessGH/fitness-gh-backend/internal/marketplace"
	"github.com/FitnessGH/fitness-gh-backend/internal/otp"
	"github.com/FitnessGH/fitness-gh-backend/internal/payment"
	"github.com/FitnessGH/fitness-gh-backend/internal/subscription"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config, emailService *email.Service) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	accountRepo := account.NewRepository(db)
	otpStore := otp.NewStore(redisClient)
	accountSvc := account.NewService(accountRepo, otpStore, emailService, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	accountHandler := account.NewHandler(accountSvc)

	gymSvc := gym.NewService(gym.NewRepository(db), accountRepo)
	gymHandler := gym.NewHandler(gymSvc)

	subscriptionSvc := subscription.NewService(subscription.NewRepository(db), accountRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionSvc, gymSvc)

	paymentSvc := payment.NewService(payment.NewRepository(db), subscriptionSvc, accountRepo, gymSvc, emailService,
		cfg.CheckoutBaseURL, cfg.DefaultCurrency)
	paymentHandler := payment.NewHandler(paymentSvc, gymSvc)

	marketplaceSvc := marketplace.NewService(marketplace.NewRepository(db), cfg.DefaultCurrency)
	marketplaceHandler := marketplace.NewHandler(marketplaceSvc)

	v1 := router.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Use(RateLimitMiddleware(5, 10))
	{
		authRoutes.POST("/register", accountHandler.Register)
		authRoutes.POST("/login", accountHandler.Login)
		authRoutes.POST("/refresh", accountHandler.Refresh)
		authRoutes.POST("/logout", accountHandler.Logout)
		authRoutes.POST("/verify-email/request", accountHandler.RequestVerification)
		authRoutes.POST("/verify-email", accountHandler.VerifyEmail)
	}

	// Public catalog and lookups.
	{
		v1.GET("/gyms", gymHandler.ListGyms)
		v1.GET("/gyms/slug/:slug", gymHandler.GetGymBySlug)
		v1.GET("/gyms/:id/plans", subscriptionHandler.ListGymPlans)
		v1.GET("/plans/:id", subscriptionHandler.GetPlan)
		v1.GET("/products", marketplaceHandler.ListProducts)
		v1.GET("/products/:id", marketplaceHandler.GetProduct)

		// Gateway callback; authenticated by reference lookup, not by JWT.
		v1.POST("/payments/webhook", paymentHandler.Webhook)
	}

	protected := v1.Group("/")
	protected.Use(auth.AuthMiddleware(cfg.AccessTokenSecret))
	{
		protected.GET("/me", accountHandler.GetMe)
		protected.PATCH("/me/profile", accountHandler.UpdateProfile)

		protected.POST("/gyms", gymHandler.CreateGym)
		protected.GET("/gyms/my", gymHandler.GetMyGyms)
		protected.GET("/gyms/:id", gymHandler.GetGym)
		protected.PATCH("/gyms/:id", gymHandler.UpdateGym)
		protected.DELETE("/gyms/:id", gymHandler.DeleteGym)
		protected.POST("/gyms/:id/employees", gymHandler.AddEmployee)
		protected.GET("/gyms/:id/employees", gymHandler.ListEmployees)
		protected.PATCH("/gyms/:id/employees/:employmentId", gymHandler.UpdateEmployment)

		protected.POST("/gyms/:id/plans", subscriptionHandler.CreatePlan)
		protected.PATCH("/plans/:id", subscriptionHandler.UpdatePlan)
		protected.DELETE("/plans/:id", subscriptionHandler.DeletePlan)

		protected.POST("/memberships", subscriptionHandler.CreateMembership)
		protected.GET("/memberships/my", subscriptionHandler.GetMyMemberships)
		protected.GET("/memberships/:id", subscriptionHandler.GetMembership)
		protected.PATCH("/memberships/:id", subscriptionHandler.UpdateMembership)
		protected.POST("/memberships/:id/activate", subscriptionHandler.ActivateMembership)
		protected.POST("/memberships/:id/cancel", subscriptionHandler.CancelMembership)
		protected.POST("/memberships/:id/visits", subscriptionHandler.RecordVisit)
		protected.POST("/gyms/:id/memberships", subscriptionHandler.StaffCreateMembership)
		protected.GET("/gyms/:id/memberships", subscriptionHandler.ListGymMemberships)

		protected.POST("/payments/initiate", paymentHandler.Initiate)
		protected.GET("/payments/verify/:reference", paymentHandler.Verify)
		protected.GET("/payments/my", paymentHandler.GetMyPayments)
		protected.GET("/payments/gyms/:id", paymentHandler.ListGymPayments)

		protected.POST("/products", marketplaceHandler.CreateProduct)
		protected.GET("/products/my", marketplaceHandler.GetMyProducts)
		protected.PATCH("/products/:id", marketplaceHandler.UpdateProduct)
		protected.DELETE("/products/:id", marketplaceHandler.DeleteProduct)
		protected.POST("/orders", marketplaceHandler.CreateOrder)
		protected.GET("/orders/my", marketplaceHandler.GetMyOrders)
		protected.GET("/orders/:id", marketplaceHandler.GetOrder)
		protected.PATCH("/orders/:id/status", marketplaceHandler.UpdateOrderStatus)
	}

	router.GET("/health", Health(db, redisClient))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.srv = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
