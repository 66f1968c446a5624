// main package for the voice-client CLI, a command-line front end for the
// voice-synthesis HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ngqkhai/voice-synthesis/internal/apiclient"
	"github.com/ngqkhai/voice-synthesis/internal/core"
)

// Flag names.
const (
	flagServer    = "server"
	flagText      = "text"
	flagVoice     = "voice"
	flagLanguage  = "language"
	flagSpeed     = "speed"
	flagCategory  = "category"
	flagLanguages = "languages"
	flagVoices    = "voices"
	flagHealth    = "health"
)

// Flag descriptions.
const (
	flagServerDesc    = "Base URL of the voice-synthesis service"
	flagTextDesc      = "Text to synthesize"
	flagVoiceDesc     = "Voice ID (e.g. en-US-Neural2-A)"
	flagLanguageDesc  = "Language code (e.g. en-US)"
	flagSpeedDesc     = "Speaking rate; 0 uses the voice's default"
	flagCategoryDesc  = "Voice category filter for -voices (kids, scientific, general)"
	flagLanguagesDesc = "List supported languages and exit"
	flagVoicesDesc    = "List voices for -language and exit"
	flagHealthDesc    = "Check service health and exit"
)

const (
	defaultServerURL = "http://localhost:8000"
	requestTimeout   = 60 * time.Second
)

// Error messages.
const (
	errTextRequired = "-text is required unless -languages, -voices or -health is given"
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	server    string
	text      string
	voice     string
	language  string
	speed     float64
	category  string
	languages bool
	voices    bool
	health    bool
}

func main() {
	err := run()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	client := apiclient.New(flags.server, requestTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch {
	case flags.health:
		return handleHealthCheck(ctx, client)
	case flags.languages:
		return handleListLanguages(ctx, client)
	case flags.voices:
		return handleListVoices(ctx, client, flags)
	case flags.text != "":
		return handleSynthesize(ctx, client, flags)
	default:
		flag.Usage()

		return errors.New(errTextRequired)
	}
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.server, flagServer, defaultServerURL, flagServerDesc)
	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.voice, flagVoice, "", flagVoiceDesc)
	flag.StringVar(&flags.language, flagLanguage, "", flagLanguageDesc)
	flag.Float64Var(&flags.speed, flagSpeed, 0, flagSpeedDesc)
	flag.StringVar(&flags.category, flagCategory, "", flagCategoryDesc)
	flag.BoolVar(&flags.languages, flagLanguages, false, flagLanguagesDesc)
	flag.BoolVar(&flags.voices, flagVoices, false, flagVoicesDesc)
	flag.BoolVar(&flags.health, flagHealth, false, flagHealthDesc)
	flag.Parse()

	return flags
}

func handleHealthCheck(ctx context.Context, client *apiclient.Client) error {
	err := client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Println("voice-synthesis service is healthy")

	return nil
}

func handleListLanguages(ctx context.Context, client *apiclient.Client) error {
	languages, err := client.Languages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}

	for code, name := range languages {
		fmt.Printf("%s\t%s\n", code, name)
	}

	return nil
}

func handleListVoices(ctx context.Context, client *apiclient.Client, flags appFlags) error {
	voices, err := client.Voices(ctx, flags.language, flags.category)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	for category, profiles := range voices {
		fmt.Printf("%s:\n", category)

		for _, profile := range profiles {
			fmt.Printf("  %s\t%s\t(default speed %.2f)\n", profile.ID, profile.Name, profile.Speed)
		}
	}

	return nil
}

func handleSynthesize(ctx context.Context, client *apiclient.Client, flags appFlags) error {
	result, err := client.Synthesize(ctx, core.SynthesisRequest{
		Text:     flags.text,
		VoiceID:  flags.voice,
		Language: flags.language,
		Speed:    flags.speed,
	})
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	fmt.Printf("Artifact: %s\n", result.VoiceID)
	fmt.Printf("Local URL: %s\n", result.AudioURL)

	if result.CloudinaryURL != nil {
		fmt.Printf("CDN URL: %s\n", *result.CloudinaryURL)
	}

	fmt.Printf("Duration: %.2fs\n", result.Duration)

	if result.Warning != "" {
		fmt.Printf("Warning: %s\n", result.Warning)
	}

	return nil
}
