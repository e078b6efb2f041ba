package models

import "fmt"

// AspectRatio is the user-facing aspect ratio vocabulary.
type AspectRatio string

const (
	Aspect916 AspectRatio = "9:16"
	Aspect169 AspectRatio = "16:9"
	Aspect11  AspectRatio = "1:1"
)

// Wire aspect ratio enumeration.
const (
	AspectPortrait  = "portrait"
	AspectLandscape = "landscape"
	AspectSquare    = "square"
)

// Wire maps the UI aspect ratio to the backend's enumeration.
func (a AspectRatio) Wire() (string, error) {
	switch a {
	case Aspect916:
		return AspectPortrait, nil
	case Aspect169:
		return AspectLandscape, nil
	case Aspect11:
		return AspectSquare, nil
	}
	return "", fmt.Errorf("unknown aspect ratio %q", string(a))
}

// AspectFromWire maps the backend enumeration back to the UI vocabulary.
// Square is unused by the current UI but must round-trip without error.
func AspectFromWire(s string) (AspectRatio, error) {
	switch s {
	case AspectPortrait:
		return Aspect916, nil
	case AspectLandscape:
		return Aspect169, nil
	case AspectSquare:
		return Aspect11, nil
	}
	return "", fmt.Errorf("unknown wire aspect ratio %q", s)
}

// Scene count bounds for long-form jobs.
const (
	MinSceneCount = 2
	MaxSceneCount = 10
)

// GenerationParams is a user-facing generation request before wire mapping.
type GenerationParams struct {
	Prompt                     string      `validate:"required,min=3"`
	StylePrompt                string      `validate:"-"`
	ImageIDs                   []int64     `validate:"-"`
	AspectRatio                AspectRatio `validate:"required"`
	OutputCount                int         `validate:"min=1,max=5"`
	EnableLong                 bool        `validate:"-"`
	AutoMerge                  bool        `validate:"-"`
	SceneCount                 int         `validate:"omitempty,min=2,max=10"`
	Scenes                     []string    `validate:"-"`
	CharacterName              string      `validate:"-"`
	CharacterDescription       string      `validate:"-"`
	EnableCharacterConsistency bool        `validate:"-"`
}

// ToCreateJobRequest maps the params to the backend's job-creation contract.
func (p *GenerationParams) ToCreateJobRequest() (*CreateJobRequest, error) {
	aspect, err := p.AspectRatio.Wire()
	if err != nil {
		return nil, err
	}

	mode := "short"
	if p.EnableLong {
		mode = "long"
	}

	req := &CreateJobRequest{
		Prompt:                     p.Prompt,
		StylePrompt:                optString(p.StylePrompt),
		SelectedImages:             p.ImageIDs,
		OutputCount:                p.OutputCount,
		AspectRatio:                aspect,
		EnableLong:                 p.EnableLong,
		AutoMerge:                  p.AutoMerge,
		CharacterName:              optString(p.CharacterName),
		CharacterDescription:       optString(p.CharacterDescription),
		EnableCharacterConsistency: p.EnableCharacterConsistency,
		Mode:                       mode,
	}

	if p.EnableLong {
		count := p.SceneCount
		req.SceneCount = &count
		req.Scenes = p.Scenes
	}

	return req, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
