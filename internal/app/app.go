package app

import (
	"fmt"
	"recruiter/config"
	"recruiter/internal/database"
	"recruiter/internal/logger"
	"recruiter/internal/models"
	"recruiter/internal/oracle"
	"recruiter/internal/repositories"
	"recruiter/internal/scoring"
	"recruiter/internal/services"
	"time"

	candidateController "recruiter/internal/controllers/candidate"
	evaluationController "recruiter/internal/controllers/evaluation"
	tokenController "recruiter/internal/controllers/token"
)

type App struct {
	Database database.DB
	Config   config.Config

	// Services
	TransactionService *services.TransactionService
	Locker             services.CandidateLocker
	Mailer             services.Mailer

	// Repositories
	CandidateRepo repositories.CandidateRepository
	CampaignRepo  repositories.CampaignRepository
	TestRepo      repositories.TestRepository
	AnswerRepo    repositories.AnswerRepository
	TokenRepo     repositories.TokenRepository

	// Controllers
	TokenController      *tokenController.Controller
	EvaluationController *evaluationController.Controller
	CandidateController  *candidateController.Controller
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if err := db.SQL.AutoMigrate(models.All()...); err != nil {
		return &App{}, log.Err("failed to migrate schema", err)
	}

	if err := db.Migrate(); err != nil {
		return &App{}, log.Err("failed to run migrations", err)
	}

	// Initialize services
	passTimeout := time.Duration(config.PassTimeoutSeconds) * time.Second
	transactionService := services.NewTransactionService(db.SQL)
	locker := services.NewValkeyLocker(db.Cache.Lock, passTimeout+5*time.Second)
	mailer := services.NewSMTPMailer(config)

	// Initialize repositories
	candidateRepo := repositories.NewCandidate(db)
	campaignRepo := repositories.NewCampaign(db)
	testRepo := repositories.NewTest(db)
	answerRepo := repositories.NewAnswer(db)
	tokenRepo := repositories.NewToken(db)

	// Initialize scoring
	oracleClient := oracle.NewClient(config.AnthropicAPIKey, config.AnthropicModel)
	grader := scoring.NewGrader(oracleClient)

	// Initialize controllers
	tokens := tokenController.New(tokenRepo, mailer, config.PublicBaseURL)
	engine := evaluationController.New(
		candidateRepo, campaignRepo, testRepo, answerRepo,
		tokens, grader, transactionService, locker,
		passTimeout,
		config.SweepWorkers,
	)
	candidates := candidateController.New(
		candidateRepo, campaignRepo, testRepo, answerRepo, tokens, engine,
	)

	app := &App{
		Database:             db,
		Config:               config,
		TransactionService:   transactionService,
		Locker:               locker,
		Mailer:               mailer,
		CandidateRepo:        candidateRepo,
		CampaignRepo:         campaignRepo,
		TestRepo:             testRepo,
		AnswerRepo:           answerRepo,
		TokenRepo:            tokenRepo,
		TokenController:      tokens,
		EvaluationController: engine,
		CandidateController:  candidates,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.TransactionService,
		a.Locker,
		a.Mailer,
		a.CandidateRepo,
		a.CampaignRepo,
		a.TestRepo,
		a.AnswerRepo,
		a.TokenRepo,
		a.TokenController,
		a.EvaluationController,
		a.CandidateController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Address() string {
	return fmt.Sprintf(":%d", a.Config.ServerPort)
}

func (a *App) Close() error {
	return a.Database.Close()
}
