package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vvka-141/countrysync/internal/config"
	"github.com/vvka-141/countrysync/internal/db"
	"github.com/vvka-141/countrysync/internal/logging"
	"github.com/vvka-141/countrysync/internal/services"
	"github.com/vvka-141/countrysync/internal/soap"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// syncFlags are the command-line overrides of the configuration file.
type syncFlags struct {
	configPath string
	wsdl       string
	timeout    time.Duration
	timeoutSet bool
}

func readSyncFlags(cmd *cobra.Command) (syncFlags, error) {
	var f syncFlags
	var err error

	if f.configPath, err = cmd.Flags().GetString("config"); err != nil {
		return f, err
	}
	if f.wsdl, err = cmd.Flags().GetString("wsdl"); err != nil {
		return f, err
	}
	if f.timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return f, err
	}
	f.timeoutSet = cmd.Flags().Changed("timeout")
	return f, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	flags, err := readSyncFlags(cmd)
	if err != nil {
		return err
	}

	// Missing .env is fine
	_ = godotenv.Load()

	baseDir, err := config.ExecutableDir()
	if err != nil {
		return fmt.Errorf("%w: locating executable: %w", countrysync.ErrConfigNotFound, err)
	}

	syncConfig, err := buildSyncConfig(flags, config.LoadFromEnvironment(), baseDir)
	if err != nil {
		return err
	}
	syncConfig.Verbose = verbose

	if syncConfig.Connection.Password == "" {
		password, err := promptPassword(syncConfig.Connection.Username, syncConfig.Connection.Host)
		if err != nil {
			return fmt.Errorf("%w: reading password: %w", countrysync.ErrConfigMalformed, err)
		}
		syncConfig.Connection.Password = password
	}

	logger.Verbose("Connection: %s", db.MaskPassword(&syncConfig.Connection))
	logger.Verbose("WSDL: %s", syncConfig.WSDL)
	logger.Verbose("Timeout: %s", syncConfig.Timeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling sync...")
			cancel()
		case <-ctx.Done():
		}
	}()

	svc := services.NewSyncService(
		soapFetcherFactory(logger),
		db.NewConnectorFactory(logger),
		logger,
		cmd.OutOrStdout(),
	)
	return svc.Run(ctx, syncConfig)
}

// buildSyncConfig loads the configuration file and applies environment and
// flag overrides. Relative config paths resolve against baseDir.
func buildSyncConfig(flags syncFlags, env *config.EnvVars, baseDir string) (countrysync.SyncConfig, error) {
	path := config.ResolvePath(flags.configPath, baseDir)

	fileCfg, err := config.Load(path)
	if err != nil {
		return countrysync.SyncConfig{}, err
	}

	if flags.wsdl != "" {
		fileCfg.WSDL = flags.wsdl
	}

	syncConfig, err := fileCfg.ToSyncConfig(env)
	if err != nil {
		return countrysync.SyncConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	if flags.timeoutSet {
		syncConfig.Timeout = flags.timeout
		if err := syncConfig.Validate(); err != nil {
			return countrysync.SyncConfig{}, err
		}
	}

	return syncConfig, nil
}

// soapFetcherFactory builds SOAP clients that log through logger.
func soapFetcherFactory(logger countrysync.Logger) countrysync.FetcherFactory {
	return func(wsdlURL string) (countrysync.CountryFetcher, error) {
		u, err := url.Parse(wsdlURL)
		if err != nil {
			return nil, fmt.Errorf("invalid WSDL URL %q: %w", wsdlURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("invalid WSDL URL %q: scheme must be http or https", wsdlURL)
		}
		return soap.NewClient(wsdlURL, soap.WithLogger(logger)), nil
	}
}

// promptPassword asks for the password on the controlling terminal.
// It returns an empty password without prompting when nobody can answer,
// leaving authentication to the server (trust, pg_hba).
func promptPassword(user, host string) (string, error) {
	if !canPrompt() {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", user, host)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
