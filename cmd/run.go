package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/crew-agents/config"
)

var (
	runFile string
	runEnv  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a crew definition once",
	RunE:  runCrew,
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "crew.yaml", "Crew definition file")
	runCmd.Flags().StringVar(&runEnv, "env", "", "Load credentials from a dotenv file")
}

func runCrew(cmd *cobra.Command, _ []string) error {
	if runEnv != "" {
		if err := godotenv.Load(runEnv); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	cfg, err := config.Load(runFile)
	if err != nil {
		return err
	}
	if v := os.Getenv("SEARXNG_BASE_URL"); v != "" {
		cfg.Search.BaseURL = v
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	team, err := cfg.Build(credentials(cfg.Provider), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := team.Kickoff(ctx)
	if result != nil {
		for _, tr := range result.TaskResults {
			if tr.Failed() {
				fmt.Fprintf(os.Stderr, "[task %d] %s: FAILED: %v\n", tr.TaskIndex, tr.Role, tr.Err)
				continue
			}
			fmt.Printf("[task %d] %s:\n%s\n\n", tr.TaskIndex, tr.Role, tr.Output)
		}
	}
	if err != nil {
		return err
	}
	fmt.Println(result.Raw)
	return nil
}

// credentials reads the provider API key and endpoint override from the
// environment, e.g. OPENAI_API_KEY and OPENAI_API_BASE_URL.
func credentials(provider string) config.Credentials {
	prefix := strings.ToUpper(provider)
	return config.Credentials{
		APIKey:  os.Getenv(prefix + "_API_KEY"),
		BaseURL: os.Getenv(prefix + "_API_BASE_URL"),
	}
}
