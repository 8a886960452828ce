// Command quizgen generates a quiz from local PDF files and plays it in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"pdfquiz/internal/adapter/pdf"
	"pdfquiz/internal/config"
	"pdfquiz/internal/domain"
	"pdfquiz/internal/logger"
	"pdfquiz/internal/service"
	"pdfquiz/internal/session"
	"pdfquiz/internal/util"

	"go.uber.org/zap"
)

func main() {
	difficultyFlag := flag.String("difficulty", "", "easy, medium or hard")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-difficulty easy|medium|hard] file.pdf...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	difficulty, err := domain.ParseDifficulty(*difficultyFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, flag.Args(), difficulty); err != nil {
		logger.Get().Error("quizgen failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, paths []string, difficulty domain.Difficulty) error {
	files := make([]pdf.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, pdf.File{Name: filepath.Base(path), Data: data})
	}

	docs, err := pdf.NewExtractor(cfg.Upload.MaxFileBytes).ExtractAll(ctx, files)
	if err != nil {
		return err
	}

	pipeline, err := service.NewQuizPipelineFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	sess := session.New(util.NewULID())
	ticket := sess.BeginGenerate(difficulty)
	fmt.Println("Generating quiz...")

	quiz, err := pipeline.Run(ctx, docs, difficulty)
	if err != nil {
		_ = sess.FailGenerate(ticket, err)
		return err
	}
	if err := sess.CompleteGenerate(ticket, quiz); err != nil {
		return err
	}

	_, err = play(sess, os.Stdin, os.Stdout)
	return err
}

func userMessage(err error) string {
	if domain.IsUnusableResponse(err) {
		return domain.UnusableResponseMessage
	}
	return err.Error()
}
