package cli

import (
	"fmt"

	"github.com/ralt/pacquery/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Mode is the selected operation mode
type Mode int

const (
	ModeNone Mode = iota
	ModeDatabase
	ModeFiles
	ModeQuery
	ModeRemove
	ModeSync
	ModeDeptest
	ModeUpgrade
)

// String returns the string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeDatabase:
		return "database"
	case ModeFiles:
		return "files"
	case ModeQuery:
		return "query"
	case ModeRemove:
		return "remove"
	case ModeSync:
		return "sync"
	case ModeDeptest:
		return "deptest"
	case ModeUpgrade:
		return "upgrade"
	default:
		return "none"
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cfg models.Config

	rootCmd := &cobra.Command{
		Use:   "pacquery [targets...]",
		Short: "Query the pacman local package database",
		Long: `Pacquery reads the on-disk local database of installed pacman
packages and answers lookup, listing and file-ownership queries.

Only query mode (-Q) is functional; the remaining operation modes are
accepted for interface compatibility and report themselves as not
implemented.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(&cfg)
			if err != nil {
				return err
			}
			if mode != ModeQuery {
				return fmt.Errorf("operation %q is not implemented", mode)
			}
			return runQuery(&cfg, args)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Operation modes, mutually exclusive
	rootCmd.Flags().BoolVarP(&cfg.Database, "database", "D", false, "Database mode")
	rootCmd.Flags().BoolVarP(&cfg.Files, "files", "F", false, "Files mode")
	rootCmd.Flags().BoolVarP(&cfg.Query, "query", "Q", false, "Query mode")
	rootCmd.Flags().BoolVarP(&cfg.Remove, "remove", "R", false, "Remove mode")
	rootCmd.Flags().BoolVarP(&cfg.Sync, "sync", "S", false, "Sync mode")
	rootCmd.Flags().BoolVarP(&cfg.Deptest, "deptest", "T", false, "Deptest mode")
	rootCmd.Flags().BoolVarP(&cfg.Upgrade, "upgrade", "U", false, "Upgrade mode")

	// Paths
	rootCmd.Flags().StringVarP(&cfg.DBPath, "dbpath", "b", "/var/lib/pacman", "Package database directory")
	rootCmd.Flags().StringVarP(&cfg.Root, "root", "r", "/", "Filesystem root for file checks")

	// Query options
	rootCmd.Flags().StringVarP(&cfg.Owns, "owns", "o", "", "Query the package that owns a file")
	rootCmd.Flags().StringVarP(&cfg.Search, "search", "s", "", "Search installed packages by substring")
	rootCmd.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "Show less information")
	rootCmd.Flags().BoolVarP(&cfg.List, "list", "l", false, "List files owned by the queried packages")
	rootCmd.Flags().BoolVarP(&cfg.Check, "check", "k", false, "Check that owned files match the manifest on disk")

	return rootCmd
}

// parseMode resolves the mutually exclusive operation flags
func parseMode(cfg *models.Config) (Mode, error) {
	var mode Mode
	for _, m := range []struct {
		set  bool
		mode Mode
	}{
		{cfg.Database, ModeDatabase},
		{cfg.Files, ModeFiles},
		{cfg.Query, ModeQuery},
		{cfg.Remove, ModeRemove},
		{cfg.Sync, ModeSync},
		{cfg.Deptest, ModeDeptest},
		{cfg.Upgrade, ModeUpgrade},
	} {
		if !m.set {
			continue
		}
		if mode != ModeNone {
			return ModeNone, fmt.Errorf("only one operation mode may be used at a time")
		}
		mode = m.mode
	}
	if mode == ModeNone {
		return ModeNone, fmt.Errorf("no operation mode provided")
	}
	return mode, nil
}
