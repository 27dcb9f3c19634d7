package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Keshavr57/SmartStock/internal/clients/completion"
	"github.com/Keshavr57/SmartStock/internal/clients/ipocalendar"
	"github.com/Keshavr57/SmartStock/internal/clients/yahoo"
	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/interfaces"
	"github.com/Keshavr57/SmartStock/internal/knowledge"
	"github.com/Keshavr57/SmartStock/internal/services/advisor"
	"github.com/Keshavr57/SmartStock/internal/services/classifier"
	"github.com/Keshavr57/SmartStock/internal/services/ipo"
	"github.com/Keshavr57/SmartStock/internal/services/market"
	"github.com/Keshavr57/SmartStock/internal/services/prompt"
)

// App holds all initialized services, clients, and the MCP server.
// It is the shared core used by both cmd/smartstock-server and cmd/smartstock.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Knowledge     *knowledge.Base
	MarketService *market.Service
	IPOService    *ipo.Service
	Advisor       *advisor.Service
	MCPServer     *server.MCPServer
	StartupTime   time.Time
}

// Deps are the outbound clients. Any of them may be nil: a nil quote or
// calendar client degrades to reference data, a nil completion client makes
// completion-backed queries fail with advisor.ErrNotConfigured.
type Deps struct {
	Quotes     interfaces.QuoteClient
	Calendar   interfaces.IPOCalendarClient
	Completion interfaces.CompletionClient
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, SMARTSTOCK_CONFIG,
// smartstock.toml next to the binary, then config/smartstock.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("SMARTSTOCK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "smartstock.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/smartstock.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp loads configuration, builds the live clients and wires the services.
// configPath may be empty, in which case the default resolution logic is used.
// A missing completion credential is not fatal.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	quotes := yahoo.NewClient(
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithExchangeSuffix(config.Clients.Yahoo.ExchangeSuffix),
	)

	calendar := ipocalendar.NewClient(
		ipocalendar.WithLogger(logger),
		ipocalendar.WithURL(config.Clients.IPOCalendar.URL),
		ipocalendar.WithTimeout(config.Clients.IPOCalendar.GetTimeout()),
		ipocalendar.WithMaxRows(config.Clients.IPOCalendar.MaxRows),
	)

	deps := Deps{Quotes: quotes, Calendar: calendar}

	client, err := completion.New(context.Background(), config, logger)
	switch {
	case err == nil:
		deps.Completion = client
	case errors.Is(err, completion.ErrNoCredential):
		logger.Warn().Str("provider", config.Advisor.Provider).
			Msg("Completion API key not configured - advisor answers will be unavailable")
	default:
		return nil, fmt.Errorf("failed to initialize completion client: %w", err)
	}

	return New(config, logger, deps), nil
}

// New wires the services over the given clients.
func New(config *common.Config, logger *common.Logger, deps Deps) *App {
	startupStart := time.Now()
	if config == nil {
		config = common.NewDefaultConfig()
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	kb := knowledge.Default()
	catalog := ipo.NewCatalog()

	marketService := market.NewService(deps.Quotes, deps.Calendar, logger)
	ipoService := ipo.NewService(catalog, logger)

	assembler := prompt.NewAssembler(kb, marketService, catalog,
		prompt.WithContextLimit(config.Advisor.ContextLimit),
		prompt.WithLogger(logger),
	)

	advisorService := advisor.NewService(
		classifier.NewClassifier(kb, logger),
		assembler,
		ipoService,
		marketService,
		deps.Completion,
		advisor.Options{
			MaxOutputTokens: config.Advisor.MaxOutputTokens,
			Timeout:         config.Advisor.GetTimeout(),
		},
		logger,
	)

	mcpServer := server.NewMCPServer(
		"smartstock",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Knowledge:     kb,
		MarketService: marketService,
		IPOService:    ipoService,
		Advisor:       advisorService,
		MCPServer:     mcpServer,
		StartupTime:   startupStart,
	}

	a.registerTools()

	logger.Info().
		Bool("completion_configured", advisorService.Configured()).
		Int("topics", len(kb.Topics())).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createAskAdvisorTool(), handleAskAdvisor(a.Advisor, a.Logger))
	s.AddTool(createAssessIPOTool(), handleAssessIPO(a.Advisor))
	s.AddTool(createListIPOsTool(), handleListIPOs(a.Advisor))
}
