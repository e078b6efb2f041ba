package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingcontent/videoai-client/internal/client"
	"github.com/kingcontent/videoai-client/internal/engine"
	"github.com/kingcontent/videoai-client/internal/models"
	"github.com/kingcontent/videoai-client/internal/scenes"
	"github.com/kingcontent/videoai-client/internal/session"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	doLogin := flag.Bool("login", false, "Log in and store the session")
	email := flag.String("email", "", "Login email")
	password := flag.String("password", "", "Login password")
	prompt := flag.String("prompt", "", "Submit a generation job with this prompt")
	style := flag.String("style", "", "Optional style prompt")
	imagePath := flag.String("image", "", "Reference image to upload and attach")
	aspect := flag.String("aspect", "16:9", "Aspect ratio: 9:16 or 16:9")
	outputCount := flag.Int("count", 1, "Number of videos to generate (1-5)")
	long := flag.Bool("long", false, "Generate a long multi-scene video")
	sceneCount := flag.Int("scenes", 4, "Scene count for long videos (2-10)")
	watch := flag.Bool("watch", true, "Poll jobs until nothing is in flight")
	flag.Parse()

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	store := session.NewStore(cfg.Session.StatePath, logger)
	api := client.NewAPIClient(cfg.API.URL, store.Token, logger)
	api.SetUnauthorizedHandler(store.Clear)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if *doLogin {
		resp, err := api.Login(ctx, *email, *password)
		if err != nil {
			logger.Fatal().Err(err).Msg("login failed")
		}
		if err := store.SetCredentials(resp.AccessToken, resp.Data); err != nil {
			logger.Fatal().Err(err).Msg("could not persist session")
		}
		logger.Info().Str("email", *email).Msg("logged in")
	}

	if !store.IsAuthenticated() {
		logger.Fatal().Msg("not logged in, run with -login -email ... -password ...")
	}

	eng := engine.New(api, store, cfg, logger)

	if *prompt != "" {
		params := models.GenerationParams{
			Prompt:      *prompt,
			StylePrompt: *style,
			AspectRatio: models.AspectRatio(*aspect),
			OutputCount: *outputCount,
		}

		if *imagePath != "" {
			id, err := eng.UploadImage(ctx, *imagePath)
			if err != nil {
				logger.Fatal().Err(err).Msg("image upload failed")
			}
			params.ImageIDs = []int64{id}
		}

		if *long {
			gen := scenes.NewGenerator(scenes.GroqConfig(cfg.Groq), logger)
			set := scenes.NewSet(*sceneCount)
			set.Replace(gen.Generate(ctx, *prompt, *sceneCount))
			params.EnableLong = true
			params.AutoMerge = true
			params.SceneCount = set.Count()
			params.Scenes = set.Scenes()
		}

		if err := eng.Generate(ctx, params); err != nil {
			logger.Fatal().Err(err).Msg("generation request rejected")
		}
	}

	if !*watch {
		return
	}

	eng.Start(ctx)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		eng.StopPolling()
	case <-eng.Done():
		for _, job := range eng.Jobs() {
			logger.Info().
				Int64("job_id", job.ID).
				Str("status", string(job.DisplayStatus())).
				Str("video_url", job.VideoURL()).
				Msg("job")
		}
		logger.Info().Msg("no jobs in flight")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}
