package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sanket-telunagi/pyautos/internal/config"
	"github.com/sanket-telunagi/pyautos/internal/diag"
	"github.com/sanket-telunagi/pyautos/internal/env"
	"github.com/sanket-telunagi/pyautos/internal/httpclient"
	"github.com/sanket-telunagi/pyautos/internal/logging"
	"github.com/sanket-telunagi/pyautos/internal/mail"
	"github.com/sanket-telunagi/pyautos/internal/report"
	"github.com/sanket-telunagi/pyautos/internal/runner"
)

// Sentinel errors used by main to decide whether usage help is shown.
var (
	ErrUsage          = errors.New("usage error")
	ErrConfigNotFound = errors.New("configuration file not found")
)

// --- Interfaces for Testability ---

// configLoader loads the two configuration files.
type configLoader interface {
	LoadConfig(filename string) (*config.Config, error)
	LoadSettings(filename string) (*config.Settings, error)
}

// checkRunner executes the step list against a store.
type checkRunner interface {
	Run(ctx context.Context, steps []config.Step, store *env.Store) []runner.Result
}

// checkRunnerFactory creates a runner wired with the run's dependencies.
type checkRunnerFactory interface {
	New(opts runner.Opts) checkRunner
}

// reportMailer delivers the rendered report.
type reportMailer interface {
	Send(reportHTML string) error
}

// mailerFactory creates a mailer from the environment file settings.
type mailerFactory interface {
	New(cfg config.EmailConfig) reportMailer
}

// --- Default Implementations ---

type defaultConfigLoader struct{}

func (defaultConfigLoader) LoadConfig(filename string) (*config.Config, error) {
	return config.LoadConfig(filename)
}

func (defaultConfigLoader) LoadSettings(filename string) (*config.Settings, error) {
	return config.LoadSettings(filename)
}

type defaultCheckRunnerFactory struct{}

func (defaultCheckRunnerFactory) New(opts runner.Opts) checkRunner {
	return runner.NewWithOpts(opts)
}

type defaultMailerFactory struct{}

func (defaultMailerFactory) New(cfg config.EmailConfig) reportMailer {
	return mail.New(cfg)
}

// --- AppRunner ---

// AppRunner encapsulates the application's execution logic and dependencies.
type AppRunner struct {
	configLoader  configLoader
	runnerFactory checkRunnerFactory
	mailerFactory mailerFactory
	stdout        io.Writer
}

// AppRunnerOpts allows configuring the AppRunner's dependencies.
type AppRunnerOpts struct {
	ConfigLoader  configLoader
	RunnerFactory checkRunnerFactory
	MailerFactory mailerFactory
	Stdout        io.Writer
}

// NewAppRunner creates an application runner with default dependencies.
func NewAppRunner() *AppRunner {
	return NewAppRunnerWithOpts(AppRunnerOpts{})
}

// NewAppRunnerWithOpts creates an AppRunner allowing dependency injection.
func NewAppRunnerWithOpts(opts AppRunnerOpts) *AppRunner {
	loader := opts.ConfigLoader
	if loader == nil {
		loader = defaultConfigLoader{}
	}
	runnerFactory := opts.RunnerFactory
	if runnerFactory == nil {
		runnerFactory = defaultCheckRunnerFactory{}
	}
	mailerFactory := opts.MailerFactory
	if mailerFactory == nil {
		mailerFactory = defaultMailerFactory{}
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return &AppRunner{
		configLoader:  loader,
		runnerFactory: runnerFactory,
		mailerFactory: mailerFactory,
		stdout:        stdout,
	}
}

// usageText defines the command-line help information.
const usageText = `Usage:
  pyautos [options]

Options:
  -config string
        YAML file with the ordered list of API checks (default "config.yaml")
  -env string
        YAML environment file seeding the variable store (default "env.yaml")
  -loglevel string
        Logging level (none, error, warn, info, debug) (default "info")
  -email
        Email the generated report using the env file's email settings
  -timeout int
        Per-request timeout in seconds, 0 disables it (default 30)
  -help
        Show help

Examples:
  pyautos
  pyautos -config=checks/prod.yaml -env=checks/env.yaml -loglevel=debug
  pyautos -email
`

// Usage prints the command-line help information to the specified writer.
func (a *AppRunner) Usage(writer io.Writer) {
	fmt.Fprint(writer, usageText)
}

// Run parses command-line arguments and executes one full health-check run:
// load both config files, execute every step, print the summary, write the
// report, and optionally mail it. Step failures never produce a non-nil
// error; only usage problems and fatal config-load failures do.
func (a *AppRunner) Run(args []string) error {
	fs := flag.NewFlagSet("pyautos", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configFile := fs.String("config", "config.yaml", "YAML file with the ordered list of API checks")
	envFile := fs.String("env", "env.yaml", "YAML environment file seeding the variable store")
	logLevelStr := fs.String("loglevel", "info", "Logging level (none, error, warn, info, debug)")
	emailFlag := fs.Bool("email", false, "Email the generated report")
	timeoutSec := fs.Int("timeout", 30, "Per-request timeout in seconds, 0 disables it")
	helpFlag := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			a.Usage(os.Stderr)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *helpFlag {
		a.Usage(os.Stderr)
		return nil
	}

	logging.SetupLogging(*logLevelStr)

	// Stat both files before loading so a missing file gets the distinct
	// not-found error and usage help.
	for _, file := range []string{*configFile, *envFile} {
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				log.Printf("[ERROR] Configuration file '%s' not found.", file)
				return ErrConfigNotFound
			}
			return fmt.Errorf("failed to stat config file '%s': %w", file, err)
		}
	}

	cfg, err := a.configLoader.LoadConfig(*configFile)
	if err != nil {
		log.Printf("[ERROR] Error loading configuration '%s': %v", *configFile, err)
		return err
	}
	settings, err := a.configLoader.LoadSettings(*envFile)
	if err != nil {
		log.Printf("[ERROR] Error loading environment file '%s': %v", *envFile, err)
		return err
	}

	store := env.FromMap(settings.Vars)
	runID := uuid.NewString()

	// The diagnostic log is best effort: an unopenable log never cancels
	// the run.
	var stepLog runner.StepLogger
	if dlog, err := diag.Open(settings.ResultDir, runID); err != nil {
		logging.Logf(logging.Warning, "Diagnostic log unavailable: %v", err)
	} else {
		defer dlog.Close()
		stepLog = dlog
	}

	client := httpclient.New(time.Duration(*timeoutSec) * time.Second)
	checks := a.runnerFactory.New(runner.Opts{
		Client:     client,
		StepLogger: stepLog,
		RunID:      runID,
	})

	results := checks.Run(context.Background(), cfg.APIs, store)
	report.WriteSummary(a.stdout, results)

	writer := report.NewWriter(settings.HTMLTemplateFile, settings.ResultDir)
	reportHTML, err := writer.Render(results)
	if err != nil {
		logging.Logf(logging.Error, "Report generation failed: %v", err)
		return nil
	}
	if path, err := writer.Write(reportHTML); err != nil {
		logging.Logf(logging.Error, "Report write failed: %v", err)
	} else {
		fmt.Fprintf(a.stdout, "Report saved: %s\n", path)
	}

	if *emailFlag {
		mailer := a.mailerFactory.New(settings.Email)
		if err := mailer.Send(reportHTML); err != nil {
			logging.Logf(logging.Error, "Report mail failed: %v", err)
		} else {
			logging.Logf(logging.Info, "Report emailed to %s", settings.Email.Recipient)
		}
	}

	return nil
}
