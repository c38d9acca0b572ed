package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"aw-go/internal/app"
	"aw-go/internal/config"
	"aw-go/internal/model"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config file location: the global --config
// flag when set, otherwise the application default.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}

	defaults, err := app.GetDefaults()
	if err != nil {
		return "", fmt.Errorf("getting defaults: %w", err)
	}
	return defaults["config_path"], nil
}

// newApp reads the config and creates an AWApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Run", "GetHistory").
// workDir is the working tree commands operate against.
func newApp(cmd *cobra.Command, operation string, workDir string) (*app.AWApp, error) {
	path, err := resolveConfigPath(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'aw config init' to create one): %w", err)
	}

	a, err := app.NewAWApp(cfg, workDir, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "aw",
	Short: "Coding agent wrapper that records what changed",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}

		// --force discards an existing config file first
		if force, _ := cmd.Flags().GetBool("force"); force {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing existing config: %w", err)
			}
		}

		// Create config with defaults
		cfg := config.NewConfig(defaults["base_dir"])

		// Initialize config file
		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}

		// Read config
		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Agent:      %s (%s)\n", cfg.Agent.Type, cfg.Agent.Command)
		fmt.Printf("VCS:        %s\n", cfg.VCS.Type)
		fmt.Printf("Database:   %s\n", cfg.Database.Type)
		fmt.Printf("Archive:    %s\n", cfg.Archive.Type)
		fmt.Printf("Staging:    %s\n", cfg.Staging.Type)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		return nil
	},
}

// run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Invoke the agent and record file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")
		contextFiles, _ := cmd.Flags().GetStringArray("context-file")
		dir, _ := cmd.Flags().GetString("dir")
		archiveRun, _ := cmd.Flags().GetBool("archive")
		output, _ := cmd.Flags().GetString("output")

		a, err := newApp(cmd, "Run", dir)
		if err != nil {
			return err
		}
		defer a.Close()

		result, runErr := a.Run(cmd.Context(), prompt, contextFiles, archiveRun)

		// The result document is emitted even for failed runs.
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		if output != "" && output != "-" {
			if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("writing result to %s: %w", output, err)
			}
		} else {
			fmt.Println(string(data))
		}

		if runErr != nil {
			return fmt.Errorf("run failed: %w", runErr)
		}
		if result.OverallStatus != model.StatusSuccess {
			if result.Error != nil {
				return fmt.Errorf("run failed: %s", *result.Error)
			}
			return fmt.Errorf("run failed")
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "GetHistory", ".")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.GetHistory(int64(limit))
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, r := range runs {
			archived := ""
			if r.ArchiveKey != nil {
				archived = "  [archived]"
			}
			duration := (time.Duration(r.DurationMillis) * time.Millisecond).String()
			fmt.Printf("%s  %s  %-7s  %2d change(s)  %-8s  %s%s\n",
				r.ID,
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.OverallStatus,
				r.ChangeCount,
				duration,
				r.Prompt,
				archived,
			)
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log FILENAME",
	Short: "View change history for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "FileLog", ".")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.FileLog(args[0])
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No recorded changes.")
			return nil
		}

		for _, e := range entries {
			var indicator string
			switch {
			case e.HasContent && e.HasDiff:
				indicator = "CD"
			case e.HasContent:
				indicator = "C "
			case e.HasDiff:
				indicator = " D"
			default:
				indicator = "  "
			}
			fmt.Printf("%s  %s  %-8s  %-7s  %s  %s\n",
				indicator,
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.ChangeType,
				e.OverallStatus,
				e.RunID,
				e.Prompt,
			)
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "View the archived report for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "ShowReport", ".")
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.ShowReport(args[0])
		if err != nil {
			return err
		}

		os.Stdout.Write(report)
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file to use instead of the default")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Replace an existing config file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("prompt", "p", "", "Prompt to send to the agent")
	runCmd.Flags().StringArrayP("context-file", "c", nil, "Context file to pass to the agent (repeatable)")
	runCmd.Flags().String("dir", ".", "Working tree the agent operates in")
	runCmd.Flags().Bool("archive", false, "Archive the run report after completion")
	runCmd.Flags().StringP("output", "o", "", "Write the result document to a file instead of stdout (\"-\" means stdout)")
	runCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
}
