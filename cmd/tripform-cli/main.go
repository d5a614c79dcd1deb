package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-tripform"
	"github.com/goliatone/go-tripform/internal/config"
	"github.com/goliatone/go-tripform/internal/logging"
	"github.com/goliatone/go-tripform/pkg/controller"
	"github.com/goliatone/go-tripform/pkg/renderers/tui"
	"github.com/goliatone/go-tripform/pkg/sheets"
)

func main() {
	configFile := flag.String("config", "", "config file (defaults to ./config.yaml or ./config/config.yaml)")
	endpoint := flag.String("endpoint", "", "spreadsheet endpoint override")
	htmlOut := flag.String("html", "", "write the booking page to this file instead of starting a session (- for stdout)")
	collect := flag.String("collect", "", "collect answers without submitting and print them as json or form")
	flag.Parse()

	options := []config.Option{config.WithConfigFile(*configFile)}
	if value := strings.TrimSpace(*endpoint); value != "" {
		options = append(options, config.WithOverride("SHEETS_ENDPOINT", value))
	}
	cfg, err := config.Load(options...)
	if err != nil {
		log.Fatalf("tripform: %v", err)
	}

	logger, err := logging.New(true, "warn")
	if err != nil {
		log.Fatalf("tripform: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *htmlOut != "":
		err = writePage(ctx, *htmlOut)
	case *collect != "":
		err = collectOnly(ctx, tui.OutputFormat(*collect))
	default:
		err = book(ctx, cfg, controller.WithLogger(logger), controller.WithStatusTTL(cfg.StatusTTL))
	}

	switch {
	case errors.Is(err, tui.ErrAborted):
		os.Exit(130)
	case err != nil:
		fmt.Fprintf(os.Stderr, "tripform: %v\n", err)
		os.Exit(1)
	}
}

func book(ctx context.Context, cfg config.Config, options ...controller.Option) error {
	form, err := tripform.BookingForm(ctx)
	if err != nil {
		return err
	}
	client, err := tripform.NewSheetsClient(cfg.SheetsEndpoint,
		sheets.WithAction(cfg.SheetsAction),
		sheets.WithPath(cfg.SheetsPath),
		sheets.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return err
	}
	factory, err := tripform.ControllerFactory(form, client, options...)
	if err != nil {
		return err
	}
	ctrl, err := factory()
	if err != nil {
		return err
	}
	defer ctrl.Close()

	renderer, err := tui.New(tui.WithOutput(os.Stdout))
	if err != nil {
		return err
	}
	status, err := renderer.Run(ctx, ctrl)
	if err != nil {
		return err
	}
	if !status.IsSuccess() {
		return errors.New("booking was not submitted")
	}
	return nil
}

func collectOnly(ctx context.Context, format tui.OutputFormat) error {
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded:
	default:
		return fmt.Errorf("unknown collect format %q (use json or form)", format)
	}
	form, err := tripform.BookingForm(ctx)
	if err != nil {
		return err
	}
	renderer, err := tui.New(tui.WithOutput(os.Stderr), tui.WithOutputFormat(format))
	if err != nil {
		return err
	}
	payload, err := renderer.Render(ctx, form, tripform.RenderOptions{})
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}

func writePage(ctx context.Context, path string) error {
	page, err := tripform.GenerateHTML(ctx, tripform.RenderOptions{})
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = os.Stdout.Write(page)
		return err
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return err
	}
	fmt.Printf("Form written to %s\n", path)
	return nil
}
