package scenes

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kingcontent/videoai-client/internal/models"
)

const systemTemplate = `You are an expert at writing shot scripts for AI video generation.
Produce detailed VIDEO scene descriptions usable directly as prompts for a video model.

Rules:
1. Each scene states camera angle (close-up, medium, wide), camera movement, lighting, pacing and mood
2. Describe motion, not still images
3. Scenes connect into one continuous narrative
4. Use professional cinematography terms
5. Return EXACTLY %d scenes, each on ONE line
6. Each scene is 2-4 sentences focused on imagery and movement

Required format:
Scene 1: [detailed video scene description]
Scene 2: [detailed video scene description]
...`

var scenePrefix = regexp.MustCompile(`(?i)^scene\s+\d+:\s*`)

// Generator produces scene descriptions for long-form jobs. It prefers the
// remote text-generation service and always falls back to the deterministic
// local templates, so Generate is total: any valid (prompt, n) yields
// exactly n non-empty strings.
type Generator struct {
	groq *GroqClient
	log  zerolog.Logger
}

// NewGenerator creates a scene generator. cfg.APIKey may be empty; the
// generator then runs purely on the local templates.
func NewGenerator(cfg GroqConfig, log zerolog.Logger) *Generator {
	var gc *GroqClient
	if cfg.APIKey != "" {
		gc = NewGroqClient(cfg)
	}
	return &Generator{groq: gc, log: log}
}

// Generate returns exactly n scene descriptions for the prompt. n is clamped
// to the valid scene count range. Never fails.
func (g *Generator) Generate(ctx context.Context, prompt string, n int) []string {
	if n < models.MinSceneCount {
		n = models.MinSceneCount
	}
	if n > models.MaxSceneCount {
		n = models.MaxSceneCount
	}

	if !g.groq.IsConfigured() {
		return localScenes(prompt, n)
	}

	system := fmt.Sprintf(systemTemplate, n)
	user := fmt.Sprintf("Write %d video scenes for the topic: %q. Cinematic style, smooth motion.", n, prompt)

	text, err := g.groq.ChatCompletion(ctx, system, user)
	if err != nil {
		g.log.Warn().Err(err).Msg("remote scene generation failed, using local templates")
		return localScenes(prompt, n)
	}

	scenes := parseScenes(text, n)
	if len(scenes) < n {
		scenes = append(scenes, localScenes(prompt, n)[len(scenes):]...)
	}
	return scenes[:n]
}

// parseScenes extracts scene lines from the model output. Returns at most n
// scenes; the caller pads any shortfall.
func parseScenes(text string, n int) []string {
	var scenes []string
	for _, line := range strings.Split(text, "\n") {
		cleaned := strings.TrimSpace(scenePrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if cleaned != "" {
			scenes = append(scenes, cleaned)
		}
	}

	if len(scenes) >= n {
		return scenes[:n]
	}

	// Single-block responses: try sentence boundaries before giving up.
	if len(scenes) == 1 {
		var split []string
		for _, s := range strings.SplitAfter(scenes[0], ". ") {
			s = strings.TrimSpace(s)
			if len(s) > 20 {
				split = append(split, s)
			}
		}
		if len(split) >= n {
			return split[:n]
		}
	}

	return scenes
}

var (
	cameraAngles = []string{
		"Low-angle close-up shot",
		"Wide establishing shot",
		"Eye-level medium shot",
		"Top-down bird's eye view",
		"Dynamic dutch angle shot",
		"Tracking shot following the subject",
	}
	lighting = []string{
		"warm golden sunlight",
		"soft diffused light for a gentle atmosphere",
		"high-contrast lighting adding depth",
		"dramatic backlight",
		"golden hour glow",
		"cool blue hour tones",
	}
	movements = []string{
		"the camera glides smoothly with the subject",
		"a slow zoom onto the key detail",
		"a lateral pan following the motion",
		"a gradual tilt upward for a sense of scale",
		"a dolly-in creating intimacy",
		"stabilized gimbal movement",
	}
	moods = []string{
		"a calm and relaxed mood",
		"an energetic and lively mood",
		"a mysterious and intriguing mood",
		"a bright and cheerful mood",
		"a solemn and professional mood",
		"a warm and friendly mood",
	}
)

// localScenes is the deterministic fallback generator. It cycles through
// fixed phrase pools indexed by position and never fails.
func localScenes(prompt string, n int) []string {
	scenes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		scene := fmt.Sprintf("%s focused on %s, %s creating %s, %s, high cinematic quality with sharp detail and vivid color.",
			cameraAngles[i%len(cameraAngles)],
			prompt,
			lighting[i%len(lighting)],
			moods[i%len(moods)],
			movements[i%len(movements)],
		)
		scenes = append(scenes, scene)
	}
	return scenes
}
