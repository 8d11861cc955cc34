// Command promptshape inspects and exercises YAML schema catalogs from the
// command line.
//
// Usage:
//
//	promptshape names -catalog schemas.yaml
//	promptshape render -catalog schemas.yaml -schema user
//	promptshape validate -catalog schemas.yaml -schema user -input reply.json
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/promptshape/promptshape/catalog"
	"github.com/promptshape/promptshape/render"
	"github.com/promptshape/promptshape/schema"
	"github.com/promptshape/promptshape/validate"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var runErr error
	switch os.Args[1] {
	case "names":
		runErr = runNames(os.Args[2:])
	case "render":
		runErr = runRender(os.Args[2:])
	case "validate":
		runErr = runValidate(os.Args[2:], logger)
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		os.Exit(1)
	}
}

// version is injected at build time via -ldflags.
var version = "dev"

func usage() {
	fmt.Fprintln(os.Stderr, "usage: promptshape <names|render|validate|version> [flags]")
}

func loadSchema(catalogPath, name string) (*schema.Schema, error) {
	src, err := catalog.LoadFile(catalogPath)
	if err != nil {
		return nil, err
	}
	reg := schema.NewRegistry(nil)
	return catalog.Build(context.Background(), reg, src, name)
}

func runNames(args []string) error {
	fs := flag.NewFlagSet("names", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "path to the YAML catalog")
	_ = fs.Parse(args)

	src, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		return err
	}
	for _, name := range src.Names() {
		fmt.Println(name)
	}
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "path to the YAML catalog")
	name := fs.String("schema", "", "schema name to render")
	_ = fs.Parse(args)

	s, err := loadSchema(*catalogPath, *name)
	if err != nil {
		return err
	}
	fmt.Print(render.Render(s))
	return nil
}

func runValidate(args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	catalogPath := fs.String("catalog", "", "path to the YAML catalog")
	name := fs.String("schema", "", "schema name to validate against")
	input := fs.String("input", "", "path to a JSON object file, - for stdin")
	strict := fs.Bool("strict", false, "disable lenient numeric coercion")
	_ = fs.Parse(args)

	s, err := loadSchema(*catalogPath, *name)
	if err != nil {
		return err
	}

	var data []byte
	if *input == "-" || *input == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*input)
	}
	if err != nil {
		return err
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	opts := validate.DefaultOptions()
	if *strict {
		opts.Strictness = validate.Strict
	}
	v := validate.New(validate.WithOptions(opts), validate.WithLogger(logger))
	rec, err := v.Validate(s, raw)
	if err != nil {
		if errs, ok := validate.AsErrors(err); ok {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "%s: [%s] %s\n", e.Path, e.Kind, e.Message)
			}
			return fmt.Errorf("%d validation errors", len(errs))
		}
		return err
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
