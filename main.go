package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"instafront/config"
	"instafront/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cliVersion = "1.0.0"

// Mock os.Exit in tests
var exit = os.Exit

func main() {
	exit(RealMain(os.Args[1:]))
}

// RealMain runs the command line and returns the exit code.
func RealMain(args []string) int {
	if err := execute(args, os.Stdin, os.Stdout); err != nil {
		return 1
	}
	return 0
}

func execute(args []string, in io.Reader, out io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	return root.Execute()
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "instafront",
		Short:        "Server-rendered front-end for the social media REST API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// loadConfig binds the named flags of cmd over the file and environment.
	loadConfig := func(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
		v := config.New(cfgFile)
		if err := bindFlags(v, cmd, bindings); err != nil {
			return nil, err
		}
		return config.Load(v)
	}

	root.AddCommand(newVersionCmd(), newServeCmd(loadConfig), newSessionsCmd(loadConfig))
	return root
}

type configLoader func(cmd *cobra.Command, bindings map[string]string) (*config.Config, error)

func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "instafront version %s\n", cliVersion)
		},
	}
}

func newServeCmd(loadConfig configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"server.addr":  "addr",
				"api.base_url": "api-url",
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return service.RunAppServer(ctx, cfg)
		},
	}
	cmd.Flags().String("addr", ":3000", "address to listen on")
	cmd.Flags().String("api-url", "http://localhost:8080", "base URL of the remote REST API")
	return cmd
}

func newSessionsCmd(loadConfig configLoader) *cobra.Command {
	var backupDir string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and maintain the session store",
	}
	cmd.PersistentFlags().String("db", "data/sessions", "session store directory")

	dbPath := func(cmd *cobra.Command) (string, error) {
		cfg, err := loadConfig(cmd, map[string]string{"session.db_path": "db"})
		if err != nil {
			return "", err
		}
		return cfg.Session.DBPath, nil
	}

	count := &cobra.Command{
		Use:   "count",
		Short: "Print the number of live sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := dbPath(cmd)
			if err != nil {
				return err
			}
			return service.CountSessions(path, cmd.OutOrStdout())
		},
	}

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Remove every session, logging all users out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := dbPath(cmd)
			if err != nil {
				return err
			}
			return service.CleanSessions(path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	backup := &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the session store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := dbPath(cmd)
			if err != nil {
				return err
			}
			_, err = service.BackupSessions(path, backupDir, cmd.OutOrStdout())
			return err
		},
	}
	backup.Flags().StringVar(&backupDir, "dir", service.DefaultBackupDir, "directory for backup files")

	restore := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the session store with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := dbPath(cmd)
			if err != nil {
				return err
			}
			return service.RestoreSessions(path, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(count, clean, backup, restore)
	return cmd
}
