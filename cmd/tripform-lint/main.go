package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	internalmodel "github.com/goliatone/go-tripform/internal/model"
	"github.com/goliatone/go-tripform/pkg/model"
	pkgopenapi "github.com/goliatone/go-tripform/pkg/openapi"
	"github.com/goliatone/go-tripform/pkg/uischema"
)

const extensionNamespace = "x-formgen"

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	uiDir := flag.String("ui", "", "directory of UI schema documents to check against each form (embedded defaults when empty)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-ui dir] [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint booking OpenAPI documents for unsupported extensions and fields the form cannot render.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	store, err := loadStore(*uiDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load ui schema: %v\n", err)
		os.Exit(1)
	}

	docs, err := loadDocuments(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	parser := pkgopenapi.NewParser(pkgopenapi.WithDocumentValidation(true))

	var violations []violation
	for _, doc := range docs {
		linted, err := lintDocument(ctx, parser, store, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", doc.Name(), err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func loadStore(dir string) (*uischema.Store, error) {
	if strings.TrimSpace(dir) == "" {
		return uischema.LoadFS(uischema.EmbeddedFS())
	}
	return uischema.LoadFS(os.DirFS(dir))
}

func loadDocuments(paths []string) ([]pkgopenapi.Document, error) {
	if len(paths) == 0 {
		doc, err := pkgopenapi.BookingDocument()
		if err != nil {
			return nil, fmt.Errorf("load embedded document: %w", err)
		}
		return []pkgopenapi.Document{doc}, nil
	}

	docs := make([]pkgopenapi.Document, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		doc, err := pkgopenapi.NewDocument(path, raw)
		if err != nil {
			return nil, fmt.Errorf("construct document %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func lintDocument(ctx context.Context, parser *pkgopenapi.Parser, store *uischema.Store, doc pkgopenapi.Document) ([]violation, error) {
	operations, err := parser.Operations(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parse operations: %w", err)
	}

	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	file := doc.Name()
	builder := model.NewBuilder()
	decorator := uischema.NewDecorator(store)

	var result []violation
	for _, id := range ids {
		op := operations[id]
		base := []string{"operation", id}
		result = append(result, lintExtensions(file, base, op.Extensions)...)
		result = append(result, lintSchema(file, append(base, "requestBody"), op.RequestBody)...)

		form, err := builder.Build(op)
		if err != nil {
			result = append(result, violation{file: file, location: formatLocation(base), message: err.Error()})
			continue
		}
		if err := decorator.Decorate(&form); err != nil {
			result = append(result, violation{file: file, location: formatLocation(base), message: err.Error()})
		}
	}
	return result, nil
}

func lintSchema(file string, path []string, schema pkgopenapi.Schema) []violation {
	var result []violation
	if len(schema.Extensions) > 0 {
		result = append(result, lintExtensions(file, path, schema.Extensions)...)
	}

	keys := make([]string, 0, len(schema.Properties))
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		result = append(result, lintSchema(file, appendPath(path, "properties."+key), schema.Properties[key])...)
	}
	return result
}

func lintExtensions(file string, path []string, extensions map[string]any) []violation {
	sortedKeys := make([]string, 0, len(extensions))
	for key := range extensions {
		sortedKeys = append(sortedKeys, key)
	}
	sort.Strings(sortedKeys)

	var result []violation
	for _, key := range sortedKeys {
		switch {
		case key == extensionNamespace:
			result = append(result, violation{
				file:     file,
				location: formatLocation(path),
				message:  fmt.Sprintf("use flat %s-<key> extensions instead of a %s object", extensionNamespace, extensionNamespace),
			})
		case strings.HasPrefix(key, extensionNamespace+"-"):
			trimmed := strings.TrimPrefix(key, extensionNamespace+"-")
			result = append(result, validateHint(file, path, trimmed, extensions[key])...)
		}
	}
	return result
}

func validateHint(file string, path []string, key string, value any) []violation {
	location := formatLocation(path)
	if !internalmodel.IsAllowedExtensionKey(key) {
		return []violation{{
			file:     file,
			location: location,
			message:  fmt.Sprintf("unsupported extension key %q (supported: %s)", key, strings.Join(internalmodel.AllowedExtensionKeys(), ", ")),
		}}
	}
	if str, ok := value.(string); !ok || strings.TrimSpace(str) == "" {
		return []violation{{
			file:     file,
			location: location,
			message:  fmt.Sprintf("value for %q must be a non-empty string (got %T)", key, value),
		}}
	}
	return nil
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
