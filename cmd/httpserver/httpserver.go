// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/microlend/internal/accountdelivery"
	"github.com/go-petr/microlend/internal/accountrepo"
	"github.com/go-petr/microlend/internal/accountservice"
	"github.com/go-petr/microlend/internal/contributionrepo"
	"github.com/go-petr/microlend/internal/loandelivery"
	"github.com/go-petr/microlend/internal/loanrepo"
	"github.com/go-petr/microlend/internal/loanrequestdelivery"
	"github.com/go-petr/microlend/internal/loanrequestrepo"
	"github.com/go-petr/microlend/internal/loanrequestservice"
	"github.com/go-petr/microlend/internal/loanservice"
	"github.com/go-petr/microlend/internal/middleware"
	"github.com/go-petr/microlend/internal/pooldelivery"
	"github.com/go-petr/microlend/internal/poolrepo"
	"github.com/go-petr/microlend/internal/poolservice"
	"github.com/go-petr/microlend/internal/sessiondelivery"
	"github.com/go-petr/microlend/internal/sessionrepo"
	"github.com/go-petr/microlend/internal/sessionservice"
	"github.com/go-petr/microlend/internal/userdelivery"
	"github.com/go-petr/microlend/internal/userrepo"
	"github.com/go-petr/microlend/internal/userservice"
	"github.com/go-petr/microlend/pkg/configpkg"
	"github.com/go-petr/microlend/pkg/moneypkg"
	"github.com/go-petr/microlend/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
	// Loans is shared with the accrual job.
	Loans *loanservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)
	poolRepo := poolrepo.NewRepoPGS(conn)
	contributionRepo := contributionrepo.NewRepoPGS(conn)
	loanRequestRepo := loanrequestrepo.NewRepoPGS(conn)
	loanRepo := loanrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewMaker(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	accountService := accountservice.New(accountRepo)
	userService := userservice.New(userRepo, accountService, config.BootstrapManager)
	poolService := poolservice.New(poolRepo, contributionRepo, accountService)
	loanRequestService := loanrequestservice.New(loanRequestRepo, accountService, poolService)
	loanService := loanservice.New(loanRepo)

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	userHandler := userdelivery.NewHandler(userService, sessionService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	poolHandler := pooldelivery.NewHandler(poolService)
	loanRequestHandler := loanrequestdelivery.NewHandler(loanRequestService)
	loanHandler := loandelivery.NewHandler(loanService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("money", moneypkg.ValidMoney)
		if err != nil {
			return nil, errors.New("cannot register money validator")
		}
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.POST("/users", userHandler.SignUp)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/sessions", sessionHandler.RenewAccessToken)

	authRoutes := engine.Group("/",
		middleware.AuthMiddleware(sessionService.TokenMaker),
		middleware.ActorMiddleware(userRepo),
	)

	authRoutes.POST("/sessions/logout", sessionHandler.Logout)

	authRoutes.GET("/users/me", userHandler.GetProfile)
	authRoutes.PUT("/users/me", userHandler.UpdateProfile)
	authRoutes.PUT("/users/me/password", userHandler.ChangePassword)

	authRoutes.POST("/accounts", accountHandler.Open)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.POST("/accounts/:id/funds", accountHandler.AddFunds)

	authRoutes.GET("/pools", poolHandler.List)
	authRoutes.GET("/pools/categories", poolHandler.ListCategories)
	authRoutes.GET("/pools/:id", poolHandler.Get)
	authRoutes.POST("/pools/:id/contributions", poolHandler.Contribute)
	authRoutes.GET("/contributions", poolHandler.ListContributions)

	authRoutes.POST("/pools/:id/loan-requests", loanRequestHandler.Request)
	authRoutes.GET("/loan-requests", loanRequestHandler.ListOwn)

	authRoutes.GET("/loans", loanHandler.List)

	adminRoutes := authRoutes.Group("/admin", middleware.RequireBankManager())

	adminRoutes.POST("/pools", poolHandler.Create)
	adminRoutes.GET("/loan-requests", loanRequestHandler.ListAll)
	adminRoutes.POST("/loan-requests/:id/approve", loanHandler.Approve)
	adminRoutes.POST("/loan-requests/:id/deny", loanRequestHandler.Deny)
	adminRoutes.POST("/users/:id/manager", userHandler.Promote)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
		Loans:  loanService,
	}

	return server, nil
}
