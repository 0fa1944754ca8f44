package main

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/criteo/circdown/pkg/circdown"
	"github.com/criteo/circdown/pkg/firmware"
	"github.com/criteo/circdown/pkg/ui"
)

type ListFlags struct {
	Boards struct {
		Search string `arg:"" optional:"" help:"Only show boards containing this string."`
	} `cmd:"" aliases:"board" help:"List the available boards."`
	Languages struct {
		Board  string `arg:"" help:"Board name."`
		Search string `arg:"" optional:"" help:"Only show languages containing this string."`
	} `cmd:"" aliases:"lang,langs" help:"List the languages available for a board."`
	Versions struct {
		Board    string `arg:"" help:"Board name."`
		Language string `arg:"" optional:"" default:"${default_language}" help:"Firmware language."`
		Search   string `arg:"" optional:"" help:"Only show versions containing this string."`
	} `cmd:"" aliases:"ver,vers" help:"List the release versions available for a board and language."`
}

type GetFlags struct {
	Board      string `arg:"" help:"Board name."`
	Language   string `short:"L" default:"${default_language}" help:"Firmware language."`
	Version    string `short:"V" help:"Exact firmware version to download."`
	Type       string `short:"T" help:"Firmware file type, e.g. \"uf2\" or \".bin\"."`
	Prerelease bool   `help:"Allow versions that are not releases."`
	Latest     bool   `help:"Pick the most recent build, whatever its version."`
	OutputDir  string `short:"o" default:"." type:"path" help:"Directory to download the firmware to."`
	DryRun     bool   `help:"Only show the selected firmware, do not download it."`
}

var args struct {
	BucketURL string        `help:"Root URL of the firmware bucket." default:"${bucket_url}" env:"CIRCDOWN_BUCKET_URL"`
	LogLevel  string        `help:"Log level." default:"warn" enum:"debug,info,warn,error" env:"CIRCDOWN_LOG_LEVEL"`
	Timeout   time.Duration `help:"HTTP client timeout, 0 to disable." default:"0s" env:"CIRCDOWN_TIMEOUT"`

	List ListFlags `cmd:"" help:"List boards, languages or versions."`
	Get  GetFlags  `cmd:"" help:"Select and download a firmware image."`
}

func main() {
	os.Exit(run())
}

func run() int {
	// Optional, the environment may also come from the shell
	_ = godotenv.Load()
	defaultLanguage := circdown.DefaultLanguage(os.Getenv("LANG"))

	cli := kong.Parse(&args,
		kong.Name("circdown"),
		kong.Description("Browse and download CircuitPython firmware."),
		kong.Vars{
			"bucket_url":       circdown.DefaultBucketURL,
			"default_language": defaultLanguage,
		},
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(args.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := circdown.New(circdown.CircdownConfig{
		BucketURL: args.BucketURL,
		Language:  defaultLanguage,
	}, &http.Client{Timeout: args.Timeout})
	if err != nil {
		slog.Error("Failed to create catalog", "error", err)
		return 1
	}

	command := strings.Join(strings.Fields(cli.Command())[:2], " ")
	switch command {
	case "list boards":
		search := args.List.Boards.Search
		if search != "" {
			ui.Header(os.Stdout, "Boards containing %q:", search)
		} else {
			ui.Header(os.Stdout, "Boards:")
		}
		return printAll(catalog.ListBoards(ctx, search))

	case "list languages":
		flags := args.List.Languages
		if flags.Search != "" {
			ui.Header(os.Stdout, "Languages for %s containing %q:", flags.Board, flags.Search)
		} else {
			ui.Header(os.Stdout, "Languages for %s:", flags.Board)
		}
		return printAll(catalog.ListLanguages(ctx, flags.Board, flags.Search))

	case "list versions":
		flags := args.List.Versions
		if flags.Search != "" {
			ui.Header(os.Stdout, "Versions for %s (%s) containing %q:", flags.Board, flags.Language, flags.Search)
		} else {
			ui.Header(os.Stdout, "Versions for %s (%s):", flags.Board, flags.Language)
		}
		return printAll(catalog.ListVersions(ctx, flags.Board, flags.Language, flags.Search))

	case "get <board>":
		return get(ctx, catalog, args.Get)

	default:
		panic(cli.Command())
	}
}

func printAll(seq iter.Seq2[string, error]) int {
	for name, err := range seq {
		if err != nil {
			slog.Error("Failed to list catalog", "error", err)
			return 1
		}
		ui.Item(os.Stdout, name)
	}
	return 0
}

func get(ctx context.Context, catalog *circdown.Catalog, flags GetFlags) int {
	criteria := firmware.Criteria{
		Type:       flags.Type,
		Version:    flags.Version,
		Prerelease: flags.Prerelease,
		Latest:     flags.Latest,
	}

	img, ok, err := catalog.Find(ctx, flags.Board, flags.Language, criteria)
	if err != nil {
		slog.Error("Failed to list firmware images", "board", flags.Board, "language", flags.Language, "error", err)
		return 1
	}
	if !ok {
		fmt.Println(ui.StyleError.Render("No images found that match the specified board, language, and/or version."))
		return 1
	}

	fmt.Println(img)
	fmt.Println("\t", img.URL)
	fmt.Println()

	if flags.DryRun {
		return 0
	}

	fmt.Printf("Downloading %q (%s)...\n", img.Name, img.HumanSize())
	path, err := catalog.Download(ctx, img, flags.OutputDir, ui.Progress(os.Stdout))
	fmt.Println()
	if err != nil {
		slog.Error("Failed to download firmware", "firmware", img.Name, "error", err)
		return 1
	}

	fmt.Println(ui.StyleSuccess.Render("Finished."), ui.StyleMuted.Render(path))
	return 0
}
