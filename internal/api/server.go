package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/confreg/regsvc/docs"
	v1 "github.com/confreg/regsvc/internal/api/handler/v1"
	"github.com/confreg/regsvc/internal/api/middleware"
	"github.com/confreg/regsvc/internal/autosave"
	"github.com/confreg/regsvc/internal/catalog"
	"github.com/confreg/regsvc/internal/config"
	"github.com/confreg/regsvc/internal/repository"
	"github.com/confreg/regsvc/internal/repository/dao"
	"github.com/confreg/regsvc/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, cat *catalog.Catalog, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	registrationHandler := s.initRegistrationHandler(cat, db)
	s.MountHandlers(registrationHandler)

	return s
}

func (s *Server) initRegistrationHandler(cat *catalog.Catalog, db *gorm.DB) *v1.RegistrationHandler {
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))
	draftRepo := repository.NewDraftRepository(dao.NewDraftDAO(db), s.Config.Registration.DraftBuster)
	transactionRepo := repository.NewTransactionRepository(dao.NewTransactionDAO(db))
	svc := service.NewRegistrationService(attendeeRepo, draftRepo, transactionRepo, cat, s.Config.Registration.LaunchTime)
	handler := v1.NewRegistrationHandler(svc, autosave.NewCodec(cat))

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(registrationHandler *v1.RegistrationHandler) {
	const basePath = "/api/v1"

	open := s.Router.Group(basePath)
	{
		open.GET("/countdown", registrationHandler.HandleCountdown)
	}

	registrations := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		registrations.GET("/registrations", registrationHandler.HandleGetRegistration)
		registrations.POST("/registrations", registrationHandler.HandleSubmitRegistration)
		registrations.PUT("/registrations", registrationHandler.HandleUpdateRegistration)
		registrations.GET("/registrations/invoice", registrationHandler.HandleGetInvoice)
		registrations.PUT("/registrations/draft", registrationHandler.HandleSaveDraft)
		registrations.DELETE("/registrations/draft", registrationHandler.HandleDiscardDraft)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Conference Registration API"
	docs.SwaggerInfo.Description = "Registration, autosave and invoicing API for the convention funnel."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
