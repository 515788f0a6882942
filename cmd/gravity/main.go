package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravity-notes/gravity/internal/infrastructure/external/calendar"
	syncgw "github.com/gravity-notes/gravity/internal/infrastructure/external/sync"
	"github.com/gravity-notes/gravity/internal/infrastructure/localstore"
	"github.com/gravity-notes/gravity/internal/usecase/history"
	"github.com/gravity-notes/gravity/pkg/config"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravity",
		Short: "Voice memo companion: sync, review and schedule what you recorded",
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(eventsCmd())
	rootCmd.AddCommand(analyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *localstore.FileStore
	gateway *syncgw.Client
	sync    *history.Synchronizer
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	store, err := localstore.NewFileStore(cfg.Client.DataDir, logger)
	if err != nil {
		return nil, err
	}

	gateway := syncgw.NewClient(cfg.Client.APIBaseURL, logger)
	dispatcher := calendar.NewDispatcher(calendar.NewTerminalNotifier(logger), calendar.BrowserOpener{}, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		gateway: gateway,
		sync:    history.NewSynchronizer(gateway, store, dispatcher, logger),
	}, nil
}

// token returns the stored access token or an instruction to log in
func (a *app) token() (string, error) {
	creds, err := loadCredentials(a.cfg.Client.DataDir)
	if err != nil {
		return "", err
	}
	if creds.AccessToken == "" {
		return "", fmt.Errorf("not logged in, run: gravity login")
	}
	return creds.AccessToken, nil
}
