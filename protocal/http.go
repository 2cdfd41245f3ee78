package protocal

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	gormio "gorm.io/gorm"

	"sehatnama/configs"
	httpAdapter "sehatnama/internal/adapters/input/http"
	"sehatnama/internal/adapters/output/chatcompletion"
	"sehatnama/internal/adapters/output/database"
	"sehatnama/internal/adapters/output/einochat"
	"sehatnama/internal/adapters/output/groq"
	lineAdapter "sehatnama/internal/adapters/output/line"
	"sehatnama/internal/adapters/output/llmagent"
	"sehatnama/internal/adapters/output/memory"
	"sehatnama/internal/adapters/output/offline"
	"sehatnama/internal/adapters/output/translator"
	"sehatnama/internal/adapters/output/upliftai"
	"sehatnama/internal/application"
	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
	"sehatnama/pkg/database_driver/gorm"
	"sehatnama/pkg/logger"
	"sehatnama/pkg/telemetry"
)

const (
	defaultSessionTimeout = 30 * time.Minute
	defaultSweepInterval  = 60 * time.Second
	bodyLimit             = 25 * 1024 * 1024
	serviceVersion        = "1.0.0"
)

type config struct {
	ConfigPath string `mapstructure:"config_path"`
	ENV        string `mapstructure:"env"`
}

// ServeHTTP func
func ServeHTTP() error {
	var cfg config
	flag.StringVar(&cfg.ConfigPath, "config-path", "./configs", "directory holding config.yaml")
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper(cfg.ConfigPath, cfg.ENV)
	conf := configs.GetViper()

	logCloser, err := logger.Setup(logger.Options{
		Level:      conf.Log.Level,
		Format:     conf.Log.Format,
		File:       conf.Log.File,
		MaxSizeMB:  conf.Log.MaxSizeMB,
		MaxBackups: conf.Log.MaxBackups,
		MaxAgeDays: conf.Log.MaxAgeDays,
		Compress:   conf.Log.Compress,
	})
	if err != nil {
		return err
	}
	logrus.Info(conf.App.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        conf.Telemetry.Enabled,
		ServiceName:    conf.Telemetry.ServiceName,
		ServiceVersion: serviceVersion,
		TraceFile:      conf.Telemetry.TraceFile,
		MetricFile:     conf.Telemetry.MetricFile,
		MetricInterval: time.Duration(conf.Telemetry.MetricInterval) * time.Second,
	})
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:     conf.App.Name,
		BodyLimit:   bodyLimit,
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	// Wire up the hexagonal architecture layers
	// Output adapters
	catalog, err := buildCatalog(conf.Interview)
	if err != nil {
		return err
	}
	agent, err := buildAgent(ctx, conf.Agent)
	if err != nil {
		return err
	}
	translate, err := buildTranslator(ctx, conf.Translator)
	if err != nil {
		return err
	}

	sessionTimeout := minutesOr(conf.Session.Timeout, defaultSessionTimeout)
	store := memory.NewMemorySessionStore(sessionTimeout)
	store.Start(ctx, secondsOr(conf.Session.SweepInterval, defaultSweepInterval))

	var (
		dbConGorm *gormio.DB
		archive   output.InterviewArchive
	)
	if conf.Archive.Enabled {
		dbConGorm, err = gorm.Connect(conf.Archive.Driver, gorm.PostgresOptions{
			Host:     conf.Postgres.Host,
			Port:     conf.Postgres.Port,
			Username: conf.Postgres.Username,
			Password: conf.Postgres.Password,
			DbName:   conf.Postgres.DbName,
			SSLMode:  conf.Postgres.SSLMode,
		}, conf.Archive.SQLitePath)
		if err != nil {
			return err
		}
		repo, err := database.NewArchiveRepository(dbConGorm)
		if err != nil {
			return err
		}
		archive = repo
	}

	var transcriber output.Transcriber
	if conf.Transcriber.Enabled {
		transcriber = groq.NewTranscriber(groq.Config{
			BaseURL:  conf.Transcriber.BaseURL,
			APIKey:   conf.Transcriber.APIKey,
			Model:    conf.Transcriber.Model,
			Language: conf.Transcriber.Language,
		})
	}
	var synthesizer output.SpeechSynthesizer
	if conf.Speech.Enabled {
		synthesizer = upliftai.NewSynthesizer(upliftai.Config{
			BaseURL:      conf.Speech.BaseURL,
			APIKey:       conf.Speech.APIKey,
			VoiceID:      conf.Speech.VoiceID,
			OutputFormat: conf.Speech.OutputFormat,
			Timeout:      conf.Speech.Timeout,
		})
	}

	// Application services (use cases)
	controller := application.NewInterviewController(catalog, agent, application.ControllerOptions{
		MaxAgentCalls: conf.Interview.MaxAgentCalls,
		AgentTimeout:  time.Duration(conf.Interview.AgentTimeout) * time.Second,
	})
	renderer := application.NewHistoryRenderer(translate, time.Duration(conf.Translator.Timeout)*time.Second)
	interviews := application.NewInterviewService(store, controller, renderer, archive, sessionTimeout)
	archives := application.NewArchiveService(archive)
	speech := application.NewSpeechService(transcriber, synthesizer)

	// Input adapter (HTTP handler)
	hdl := httpAdapter.New(interviews, archives, speech, dbConGorm, conf.Agent.Provider)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			cancel()
			if err := app.Shutdown(); err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)

	// Routes kept for the existing web front-end
	legacy := app.Group("/api")
	{
		legacy.Post("/start-interview", hdl.LegacyStartInterview)
		legacy.Post("/send-message", hdl.LegacySendMessage)
		legacy.Get("/get-history", hdl.LegacyGetHistory)
	}

	v1 := app.Group("/api/v1")
	{
		v1.Post("/interviews", hdl.StartInterview)
		v1.Get("/interviews/:id", hdl.GetInterview)
		v1.Delete("/interviews/:id", hdl.DeleteInterview)
		v1.Post("/interviews/:id/messages", hdl.SendMessage)
		v1.Post("/interviews/:id/messages/stream", hdl.StreamMessage)
		v1.Get("/interviews/:id/history", hdl.GetHistory)

		v1.Post("/speech/transcribe", hdl.Transcribe)
		v1.Post("/speech/synthesize", hdl.Synthesize)

		v1.Get("/archive", hdl.ListArchive)
		v1.Get("/archive/:session_id", hdl.GetArchive)
	}

	// LINE webhook endpoint
	if conf.Line.Enabled {
		lineClient, err := lineAdapter.NewLineClientAdapter(conf.Line.ChannelToken)
		if err != nil {
			logrus.Fatalf("Failed to create LINE client: %v", err)
		}
		lineWebhookSrv := application.NewLineWebhookService(lineClient, interviews)
		lineWebhookHdl := httpAdapter.NewLineWebhookHandler(lineWebhookSrv, conf.Line.ChannelSecret)

		webhook := app.Group("/webhook")
		{
			webhook.Post("/line", lineWebhookHdl.HandleWebhook)
		}
	}

	logrus.Println("Listerning on port: ", conf.App.Port)
	err = app.Listen(":" + conf.App.Port)

	gorm.Disconnect(dbConGorm)
	shutdownTelemetry()
	logCloser.Close()
	return err
}

// buildCatalog uses the configured sections, or the built-in catalog when none are set
func buildCatalog(conf configs.Interview) (*domain.Catalog, error) {
	if len(conf.Sections) == 0 && conf.BaseInstruction == "" {
		return domain.DefaultCatalog(), nil
	}

	specs := make([]domain.SectionSpec, 0, len(conf.Sections))
	for _, section := range conf.Sections {
		specs = append(specs, domain.SectionSpec{ID: domain.SectionID(section.ID), Guidance: section.Guidance})
	}
	if len(specs) == 0 {
		for _, id := range domain.DefaultSectionOrder {
			specs = append(specs, domain.SectionSpec{ID: id, Guidance: domain.DefaultSectionGuidance[id]})
		}
	}
	catalog, err := domain.NewCatalog(conf.BaseInstruction, specs)
	if err != nil {
		return nil, fmt.Errorf("interview config: %w", err)
	}
	return catalog, nil
}

// buildAgent picks the chat backend: "offline" is scripted, "compatible" talks to a
// local OpenAI-compatible server, anything else goes through the eino OpenAI model.
func buildAgent(ctx context.Context, conf configs.Agent) (output.Agent, error) {
	var client output.ChatCompletionClient
	switch conf.Provider {
	case "offline":
		logrus.Warn("Using the offline agent, replies are scripted")
		return offline.NewAgent(), nil
	case "compatible":
		client = chatcompletion.NewClientAdapter(chatcompletion.Config{
			BaseURL: conf.BaseURL,
			APIKey:  conf.APIKey,
			Model:   conf.Model,
			Timeout: conf.Timeout,
		})
	default:
		c, err := einochat.NewClientAdapter(ctx, einochat.Config{
			BaseURL: conf.BaseURL,
			APIKey:  conf.APIKey,
			Model:   conf.Model,
			Timeout: conf.Timeout,
		})
		if err != nil {
			return nil, err
		}
		client = c
	}
	return llmagent.NewAgent(client, llmagent.Options{
		Model:       conf.Model,
		Temperature: conf.Temperature,
	}), nil
}

// buildTranslator returns nil when the doctor view should keep the original text
func buildTranslator(ctx context.Context, conf configs.Translator) (output.Translator, error) {
	switch conf.Provider {
	case "", "none":
		return nil, nil
	case "offline":
		return offline.NewTranslator(), nil
	default:
		t, err := translator.NewTranslator(ctx, translator.Config{
			BaseURL: conf.BaseURL,
			APIKey:  conf.APIKey,
			Model:   conf.Model,
			Timeout: conf.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

func minutesOr(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Minute
}

func secondsOr(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}
