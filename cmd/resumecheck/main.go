package main

// Analyze a resume file from the command line:
//   go run ./cmd/resumecheck -resume ./cv.pdf -jd ./job.txt -role "Backend Engineer"

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"enhanceme/internal/analyses"
	"enhanceme/internal/extract"
	"enhanceme/internal/llm"
	openai "enhanceme/internal/llm/openai"
	"enhanceme/internal/present"
	"enhanceme/internal/scoring"
	"enhanceme/internal/shared/config"
	"enhanceme/internal/uploads"
)

type output struct {
	Analysis   analyses.Result `json:"analysis"`
	Heuristics scoring.Report  `json:"heuristics"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("resumecheck", flag.ContinueOnError)
	resumePath := fs.String("resume", "", "Path to resume file (pdf, docx or txt)")
	jdPath := fs.String("jd", "", "Path to job description file (optional)")
	role := fs.String("role", "", "Target role (optional)")
	serverURL := fs.String("server", "", "Base URL of a running API to analyze with instead of calling the provider")
	mock := fs.Bool("mock", cfg.UseMockData, "Return the canned analysis without calling the provider")
	model := fs.String("model", cfg.AIModel, "LLM model")
	format := fs.String("format", "text", "Output format: text or json")
	outPath := fs.String("out", "", "Also write the output to this path (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*resumePath) == "" {
		return errors.New("resume path is required")
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("unsupported format: %s", *format)
	}

	mediaType, err := mediaTypeFromExt(*resumePath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*resumePath)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	if err := uploads.Validate(mediaType, int64(len(data))); err != nil {
		return err
	}
	if detected, mismatch := uploads.Detect(data, mediaType); mismatch {
		fmt.Fprintf(os.Stderr, "warning: %s looks like %s\n", filepath.Base(*resumePath), detected)
	}

	text, err := extract.FromBytes(ctx, data, mediaType)
	if err != nil {
		return fmt.Errorf("extract resume text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return analyses.ErrNoText
	}

	jobDescription := ""
	if strings.TrimSpace(*jdPath) != "" {
		jd, err := os.ReadFile(*jdPath)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jobDescription = string(jd)
	}

	analyzer, err := buildAnalyzer(cfg, *serverURL, *model, *mock)
	if err != nil {
		return err
	}
	result, err := analyzer.Analyze(ctx, text)
	if err != nil {
		return fmt.Errorf("%s: %w", analyses.UserMessage(err), err)
	}
	report := scoring.Evaluate(text, *role, jobDescription, &result)

	var b strings.Builder
	if *format == "json" {
		enc := json.NewEncoder(&b)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output{Analysis: result, Heuristics: report}); err != nil {
			return fmt.Errorf("format json: %w", err)
		}
	} else {
		if err := present.RenderReport(&b, result); err != nil {
			return err
		}
		b.WriteString("\n")
		if err := present.RenderHeuristics(&b, report); err != nil {
			return err
		}
		if result.Resume != nil {
			b.WriteString("\nRebuilt Resume Preview\n\n")
			if err := present.RenderResume(&b, *result.Resume); err != nil {
				return err
			}
		}
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	_, err = io.WriteString(stdout, b.String())
	return err
}

func buildAnalyzer(cfg config.Config, serverURL, model string, mock bool) (analyses.Analyzer, error) {
	if strings.TrimSpace(serverURL) != "" {
		return analyses.NewRemoteAnalyzer(serverURL, cfg.AITimeout), nil
	}
	var client llm.Client
	if !mock {
		c, err := openai.NewClient(cfg.AIURL, cfg.AIAPIKey, model, cfg.AITimeout)
		if err != nil {
			return nil, err
		}
		client = c
	}
	return analyses.NewProxy(analyses.ProxyConfig{
		APIKey:      cfg.AIAPIKey,
		Model:       model,
		UseMockData: mock,
	}, client), nil
}

func mediaTypeFromExt(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return uploads.MediaTypePDF, nil
	case ".docx":
		return uploads.MediaTypeDOCX, nil
	case ".txt":
		return uploads.MediaTypeText, nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(path))
	}
}
