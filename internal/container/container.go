package container

import (
	"evote/internal/config"
	"evote/internal/repository"
	"evote/internal/service"
	"evote/internal/service/auth"
	"evote/internal/service/face"
	"evote/internal/service/otp"
	"evote/internal/session"
	"evote/pkg/latency"
	"evote/pkg/logger"
	"evote/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Services    *service.Services
	Sessions    *session.Manager
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger.Named("redis"))
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, keeping OTP challenges in memory")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, keeping OTP challenges in memory")
	}

	delay := latency.New(cfg.SimulatedLatency)

	var challenges otp.Store = otp.NewMemoryStore()
	if redisClient != nil {
		challenges = otp.NewRedisStore(redisClient)
	}

	// Initialize services
	authService := auth.NewService(cfg.TokenSecret, delay, logger.Named("auth"))
	otpService := otp.NewService(challenges, cfg.OTPCountdown, logger.Logger.Named("otp"), otp.WithDelay(delay))
	faceService := face.NewService(cfg.FaceScanTick, face.RandomDecider(cfg.FaceSuccessRate), logger.Logger.Named("face"))
	electionService := service.NewElectionService(repository.NewDefaultElectionRepository(), delay, logger.Logger.Named("elections"))

	services := &service.Services{
		Auth:      authService,
		OTP:       otpService,
		Face:      faceService,
		Elections: electionService,
	}

	sessions := session.NewManager(
		session.NewCookieStore(cfg.SessionSecret, cfg.SecureCookies),
		authService,
		logger.Logger.Named("session"),
	)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		Services:    services,
		Sessions:    sessions,
	}, nil
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.Services.Auth
}

// GetOTPService returns the OTP service
func (c *Container) GetOTPService() service.OTPService {
	return c.Services.OTP
}

// GetFaceService returns the face scan service
func (c *Container) GetFaceService() service.FaceService {
	return c.Services.Face
}

// GetElectionService returns the election service
func (c *Container) GetElectionService() *service.ElectionService {
	return c.Services.Elections
}

// GetSessionManager returns the browser session manager
func (c *Container) GetSessionManager() *session.Manager {
	return c.Sessions
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
