package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/noah-isme/yoga-admission/internal/client"
	"github.com/noah-isme/yoga-admission/internal/models"
	"github.com/noah-isme/yoga-admission/internal/service"
	"github.com/noah-isme/yoga-admission/internal/tui"
	"github.com/noah-isme/yoga-admission/pkg/config"
	appErrors "github.com/noah-isme/yoga-admission/pkg/errors"
	"github.com/noah-isme/yoga-admission/pkg/logger"
	"github.com/noah-isme/yoga-admission/pkg/storage"
)

type options struct {
	interactive bool
	receipt     string
	values      map[models.Field]*string
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("enroll", flag.ContinueOnError)
	opts := &options{values: make(map[models.Field]*string)}
	fs.BoolVar(&opts.interactive, "interactive", false, "fill the form in the terminal")
	fs.StringVar(&opts.receipt, "receipt", "", "write a receipt (.pdf or .csv) after a successful enrollment")
	opts.values[models.FieldName] = fs.String("name", "", "full name")
	opts.values[models.FieldDateOfBirth] = fs.String("dob", "", "date of birth (YYYY-MM-DD)")
	opts.values[models.FieldContactNumber] = fs.String("contact", "", "10 digit contact number")
	opts.values[models.FieldEmail] = fs.String("email", "", "email address")
	opts.values[models.FieldBatchID] = fs.String("batch", "", "batch id (1-4) or label, e.g. 7-8AM")
	opts.values[models.FieldMonth] = fs.String("month", "", "month to join (YYYY-MM)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !opts.interactive {
		anySet := false
		fs.Visit(func(f *flag.Flag) {
			if f.Name != "receipt" {
				anySet = true
			}
		})
		opts.interactive = !anySet
	}
	if opts.receipt != "" {
		if _, err := service.FormatFromPath(opts.receipt); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("invalid arguments: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg, "enroll")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submitter, err := client.NewEnrollmentClient(cfg.Enrollment.BaseURL, cfg.Enrollment.SubmitTimeout, client.WithLogger(logr))
	if err != nil {
		logr.Fatal("failed to build enrollment client", zap.Error(err))
	}

	metrics := service.NewMetricsService()
	ctrl := service.NewEnrollmentController(submitter, service.WithLogger(logr), service.WithMetrics(metrics))
	logr.Debug("enrollment form ready", zap.String("endpoint", submitter.Endpoint()), zap.Bool("interactive", opts.interactive))

	var state service.FormState
	if opts.interactive {
		state, err = runInteractive(ctx, ctrl)
		if err != nil {
			logr.Fatal("terminal form failed", zap.Error(err))
		}
	} else {
		state = runScripted(ctx, ctrl, opts, os.Stdout, os.Stderr)
	}

	if state.Phase != service.PhaseSucceeded {
		os.Exit(1)
	}

	if opts.receipt != "" {
		written, err := writeReceipt(state, opts.receipt)
		if err != nil {
			logr.Error("failed to write receipt", zap.String("path", opts.receipt), zap.Error(err))
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "Receipt written to %s\n", written)
	}
}

func runInteractive(ctx context.Context, ctrl *service.EnrollmentController) (service.FormState, error) {
	final, err := tea.NewProgram(tui.New(ctx, ctrl), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return service.FormState{}, err
	}
	if m, ok := final.(tui.Model); ok {
		return m.State(), nil
	}
	return ctrl.State(), nil
}

func runScripted(ctx context.Context, ctrl *service.EnrollmentController, opts *options, stdout, stderr io.Writer) service.FormState {
	for _, field := range models.AllFields {
		ctrl.Edit(field, *opts.values[field])
		ctrl.Blur(field)
	}

	state, err := ctrl.Submit(ctx)
	if err == nil {
		fmt.Fprintln(stdout, "Form Submitted Successfully!!")
		return state
	}

	var subErr *models.SubmissionError
	switch {
	case errors.As(err, &subErr):
		fmt.Fprintln(stderr, state.Notice)
	case errors.Is(err, appErrors.ErrValidation):
		visible := state.VisibleErrors()
		for _, field := range visible.Fields() {
			fmt.Fprintf(stderr, "%s: %s\n", field.Label(), visible[field].Message)
		}
	default:
		fmt.Fprintln(stderr, err)
	}
	return state
}

func writeReceipt(state service.FormState, path string) (string, error) {
	format, err := service.FormatFromPath(path)
	if err != nil {
		return "", err
	}
	out, err := service.NewReceiptService(nil, nil).Render(state, format)
	if err != nil {
		return "", err
	}
	store, err := storage.NewLocalStorage(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return store.Save(filepath.Base(path), out)
}
