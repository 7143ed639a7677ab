package main

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"agrovision/config"
	"agrovision/pkg/auth/password"
	"agrovision/pkg/auth/token"
	"agrovision/pkg/httpx"
	"agrovision/pkg/logging"
	"agrovision/pkg/middleware"
	"agrovision/router"

	// Auth + users
	authCtrlImp "agrovision/pkg/auth/controllerImp"
	authSvcImp "agrovision/pkg/auth/serviceImp"
	userCtrlImp "agrovision/pkg/user/controllerImp"
	userRepoImp "agrovision/pkg/user/repositoryImp"
	userSvcImp "agrovision/pkg/user/serviceImp"

	// Clients, properties, areas
	areaCtrlImp "agrovision/pkg/area/controllerImp"
	areaRepoImp "agrovision/pkg/area/repositoryImp"
	areaSvcImp "agrovision/pkg/area/serviceImp"
	clientCtrlImp "agrovision/pkg/client/controllerImp"
	clientRepoImp "agrovision/pkg/client/repositoryImp"
	clientSvcImp "agrovision/pkg/client/serviceImp"
	propertyCtrlImp "agrovision/pkg/property/controllerImp"
	propertyRepoImp "agrovision/pkg/property/repositoryImp"
	propertySvcImp "agrovision/pkg/property/serviceImp"

	// Crops, pests, losses
	cropCtrlImp "agrovision/pkg/crop/controllerImp"
	cropRepoImp "agrovision/pkg/crop/repositoryImp"
	cropSvcImp "agrovision/pkg/crop/serviceImp"
	lossCtrlImp "agrovision/pkg/loss/controllerImp"
	lossRepoImp "agrovision/pkg/loss/repositoryImp"
	lossSvcImp "agrovision/pkg/loss/serviceImp"
	pestCtrlImp "agrovision/pkg/pest/controllerImp"
	pestRepoImp "agrovision/pkg/pest/repositoryImp"
	pestSvcImp "agrovision/pkg/pest/serviceImp"

	// Reports + health
	healthCtrlImp "agrovision/pkg/health/controllerImp"
	reportCtrlImp "agrovision/pkg/report/controllerImp"
	reportRepoImp "agrovision/pkg/report/repositoryImp"
	reportSvc "agrovision/pkg/report/service"
	reportSvcImp "agrovision/pkg/report/serviceImp"
)

type server struct {
	e       *echo.Echo
	reports reportSvc.ReportService
}

// newServer wires repositories, services and controllers onto a fresh echo.
// bodyLimit caps every request body; the largest legit payload is a client with its properties.
const bodyLimit = "2M"

func newServer(cfg config.AppConfig, db *gorm.DB, log zerolog.Logger) *server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpx.NewValidator()
	e.HTTPErrorHandler = httpx.ErrorHandler(log)

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	if !cfg.CORSCredentials() {
		log.Warn().Strs("origins", cfg.CORSOrigins).Msg("CORS allows any origin; session cookie will not be sent cross-origin")
	}
	e.Use(echoMiddleware.BodyLimit(bodyLimit))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSCredentials(),
	}))
	e.Use(echoMiddleware.Secure())
	e.Use(logging.RequestLogger(log))

	hasher := password.NewHasher(cfg.BcryptCost)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTExpiration, cfg.JWTIssuer)

	accounts := userRepoImp.New(db)
	clientRepo := clientRepoImp.New(db)

	authSvc := authSvcImp.New(accounts, hasher, tokens, log)
	userSvc := userSvcImp.New(accounts, clientRepo, hasher, log)
	clientSvc := clientSvcImp.New(clientRepo, log)
	propertySvc := propertySvcImp.New(propertyRepoImp.New(db), clientSvc)
	areaSvc := areaSvcImp.NewAreaService(areaRepoImp.New(db), clientSvc)
	cropSvc := cropSvcImp.New(cropRepoImp.New(db), areaSvc)
	pestSvc := pestSvcImp.NewPestService(pestRepoImp.New(db), cropSvc)
	lossSvc := lossSvcImp.NewLossService(lossRepoImp.New(db), cropSvc, pestSvc, log)
	reports := reportSvcImp.NewReportService(reportRepoImp.New(db), log)

	router.New(e, router.Handlers{
		Health:     healthCtrlImp.NewHealthCtrl(db),
		Auth:       authCtrlImp.NewAuthController(authSvc, userSvc, cfg.IsProduction()),
		Users:      userCtrlImp.New(userSvc),
		Clients:    clientCtrlImp.New(clientSvc),
		Properties: propertyCtrlImp.New(propertySvc),
		Areas:      areaCtrlImp.New(areaSvc),
		Crops:      cropCtrlImp.New(cropSvc),
		Pests:      pestCtrlImp.New(pestSvc),
		Losses:     lossCtrlImp.New(lossSvc),
		Reports:    reportCtrlImp.New(reports),

		Authenticate: middleware.Authenticate(authSvc),
		LoginLimit:   middleware.LoginRateLimit(cfg.LoginRatePerMinute, cfg.LoginRateBurst),
		Accounts:     accounts.FindByID,
	})
	return &server{e: e, reports: reports}
}
