// Package main 命令行假数据生成工具
//
// 用法:
//
//	datagen-cli -prompt "10 users with email" -format csv -out ./out -copy
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/config"
	"dummy-data-api/internal/domain/entity"
	"dummy-data-api/internal/infrastructure/clipboard"
	"dummy-data-api/internal/infrastructure/llm"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
)

type options struct {
	prompt    string
	format    string
	date      string
	decimals  string
	out       string
	copy      bool
	configDir string
	provider  string
}

func main() {
	var opts options
	flag.StringVar(&opts.prompt, "prompt", "", "description of the data to generate")
	flag.StringVar(&opts.format, "format", "JSON", "output format: JSON, CSV, XML or TXT")
	flag.StringVar(&opts.date, "date", string(entity.DateISO8601), "date format")
	flag.StringVar(&opts.decimals, "decimals", string(entity.DecimalDefault), "decimal places: default or 0-4")
	flag.StringVar(&opts.out, "out", "", "directory to save dummy-data.<ext> into")
	flag.BoolVar(&opts.copy, "copy", false, "copy the result to the system clipboard")
	flag.StringVar(&opts.configDir, "config", "configs", "config directory")
	flag.StringVar(&opts.provider, "provider", "", "llm provider (defaults to llm.default_provider)")
	flag.Parse()

	if opts.prompt == "" && flag.NArg() > 0 {
		opts.prompt = strings.Join(flag.Args(), " ")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	format, ok := entity.ParseFormat(opts.format)
	if !ok {
		return fmt.Errorf("unsupported format: %s", opts.format)
	}
	decimals := entity.DecimalPlaces(opts.decimals)
	if !decimals.IsSelectable() {
		return fmt.Errorf("decimals must be %q or 0-%d", entity.DecimalDefault, entity.MaxDecimalPlaces)
	}
	if err := datagen.ValidatePrompt(opts.prompt); err != nil {
		return errors.New(userMessage(err))
	}

	_ = godotenv.Load()
	cfg, err := config.LoadFrom(opts.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.InitWithWriter(os.Stderr, "warn", "text")

	gen := datagen.NewGenerator(llm.NewEinoFactory(cfg))

	var acc datagen.Accumulator
	err = gen.Generate(ctx, &datagen.GenerateInput{
		Prompt: opts.prompt,
		Format: format,
		Options: entity.GenerationOptions{
			DateFormat:    entity.DateFormat(opts.date),
			DecimalPlaces: decimals,
		},
		Provider: opts.provider,
	}, func(chunk string) {
		acc.Append(chunk)
		fmt.Fprint(os.Stdout, chunk)
	})
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return errors.New(userMessage(err))
	}

	content := acc.String()

	if opts.out != "" {
		if art, ok := datagen.Download(content, format); ok {
			path, err := datagen.SaveFile(opts.out, art)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "saved %s\n", path)
		}
	}

	if opts.copy {
		clip, err := clipboard.NewSystem()
		if err != nil {
			return err
		}
		copied, err := datagen.CopyToClipboard(clip, content)
		if err != nil {
			return err
		}
		if copied {
			fmt.Fprintln(os.Stderr, "Copied!")
		}
	}
	return nil
}

// userMessage 面向用户的提示，附带底层原因便于排查
func userMessage(err error) string {
	appErr := apperrors.AsAppError(err)
	if appErr.Err != nil {
		return appErr.Message + " (" + appErr.Err.Error() + ")"
	}
	return appErr.Message
}
