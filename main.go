package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mentis/app"
	"mentis/settings"
	"mentis/tui"
	"mentis/version"
)

func main() {
	var (
		debug = flag.Bool("debug", false, "Show debug logging")
		trace = flag.Bool("trace", false, "Show trace logging")
		lang  = flag.String("lang", "", "Force language: "+strings.Join(app.SupportedLanguages(), ", "))
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [MIND_MAP_FILE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s %s - a mind map editor.\n\n", version.Name, version.Version)
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	if *trace {
		level = zerolog.TraceLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	var mindMapFile string
	if args := flag.Args(); len(args) > 0 {
		mindMapFile = args[0]
	}

	prefs, err := settings.Open(settingsDir())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open settings")
	}
	defer prefs.Close()

	if *lang != "" {
		if !app.IsSupportedLanguage(*lang) {
			log.Warn().Str("lang", *lang).Msg("unsupported language, using default")
		} else if err := prefs.SetLanguage(*lang); err != nil {
			log.Warn().Err(err).Msg("failed to store language")
		}
	}

	view, err := tui.New(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize terminal")
	}
	defer view.Close()

	service := app.New(prefs, view, view, log)
	view.SetService(service)

	service.OpenAtLaunch(mindMapFile)
	view.Run()
}

func settingsDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mentis")
	}
	return ".mentis"
}
