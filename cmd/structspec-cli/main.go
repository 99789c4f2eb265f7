package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-structspec/pkg/compiler"
	"github.com/goliatone/go-structspec/pkg/response"
	"github.com/goliatone/go-structspec/pkg/spec"
)

func main() {
	source := flag.String("source", "schemas/output_schema.json", "specification path or URL")
	format := flag.String("format", "jsonschema", "output format: normalized, jsonschema, openai, anthropic")
	root := flag.String("root", "", "projection root (defaults to the specification name)")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid source: %q", *source)
	}

	c := compiler.New(compiler.WithHTTP(true))
	artifacts, err := c.Compile(ctx, compiler.Request{Source: src, Root: *root})
	if err != nil {
		if specErr, ok := spec.AsError(err); ok {
			log.Fatalf("invalid specification (%s): %v", specErr.Kind, err)
		}
		log.Fatalf("compile failed: %v", err)
	}

	var payload any
	switch *format {
	case "normalized":
		payload = artifacts.Normalized
	case "jsonschema":
		payload = artifacts.JSONSchema
	case "openai":
		payload, err = response.OpenAI(artifacts.Model)
	case "anthropic":
		payload, err = response.AnthropicTool(artifacts.Model, "")
	default:
		log.Fatalf("unknown format: %q", *format)
	}
	if err != nil {
		log.Fatalf("render %s output: %v", *format, err)
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, append(encoded, '\n'), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Schema written to %s\n", *output)
	} else {
		fmt.Println(string(encoded))
	}
}

func parseSource(raw string) spec.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return spec.SourceFromURL(path)
	}
	return spec.SourceFromFile(path)
}
