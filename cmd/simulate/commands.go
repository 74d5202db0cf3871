package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/pumpbrain/pumpbrain/internal/app"
	"github.com/pumpbrain/pumpbrain/internal/config"
	"github.com/pumpbrain/pumpbrain/internal/core/service"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/pumpbrain/pumpbrain/pkg/version"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// services is what the commands run against. stop releases them.
type services struct {
	tokens  *service.TokenService
	txs     *service.TransactionService
	wallets *service.WalletService
	stop    func()
}

// servicesFunc builds the services from the command's global flags.
type servicesFunc func(cmd *cobra.Command) (*services, error)

// defaultServices loads .env and config, then assembles the app module.
func defaultServices(cmd *cobra.Command) (*services, error) {
	_ = godotenv.Load()

	configDir, _ := cmd.Flags().GetString("config")
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	log, err := commandLogger(cmd)
	if err != nil {
		return nil, err
	}
	return buildServices(cmd.Context(), cfg, log)
}

// commandLogger discards logs unless --debug is set, in which case they go to
// stderr in console form. stdout carries only the JSON result.
func commandLogger(cmd *cobra.Command) (*logger.Logger, error) {
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		return logger.NewNop(), nil
	}
	return logger.New(logger.Options{Level: "debug", Format: logger.FormatConsole})
}

func buildServices(ctx context.Context, cfg *config.Config, log *logger.Logger) (*services, error) {
	s := &services{}
	application := fx.New(
		fx.Supply(cfg, log),
		app.Module,
		fx.Populate(&s.tokens, &s.txs, &s.wallets),
		fx.NopLogger,
	)
	if err := application.Start(ctx); err != nil {
		return nil, err
	}
	s.stop = func() { _ = application.Stop(context.Background()) }
	return s, nil
}

// newRootCmd creates the root command
func newRootCmd(build servicesFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run PumpBrain analyses from the command line",
		Long: `simulate runs the same token, transaction and wallet analyses as the HTTP API
and prints the result as JSON. Use --context-only to print the context record
that would be sent to the model without calling it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newTokenCmd(build))
	rootCmd.AddCommand(newTxCmd(build))
	rootCmd.AddCommand(newWalletCmd(build))
	rootCmd.AddCommand(newSignaturesCmd(build))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Directory containing config.yaml")
	rootCmd.PersistentFlags().Bool("context-only", false, "Print the context record without calling the model")

	return rootCmd
}

func newTokenCmd(build servicesFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "token ADDRESS",
		Short: "Analyze a token from its first DexScreener pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, build, func(ctx context.Context, s *services, contextOnly bool) (any, error) {
				if contextOnly {
					return s.tokens.BuildContext(ctx, args[0])
				}
				return s.tokens.Analyze(ctx, args[0])
			})
		},
	}
}

func newTxCmd(build servicesFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx HASH",
		Short: "Explain a transaction",
		Example: `  simulate tx 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW
  simulate tx 0x5c50...2060 --chain eth`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, _ := cmd.Flags().GetString("chain")
			return withServices(cmd, build, func(ctx context.Context, s *services, contextOnly bool) (any, error) {
				if contextOnly {
					return s.txs.BuildContext(ctx, args[0], chain)
				}
				return s.txs.Analyze(ctx, args[0], chain)
			})
		},
	}
	cmd.Flags().String("chain", "solana", "Chain identifier (solana or a Moralis chain such as eth, base, bsc)")
	return cmd
}

func newWalletCmd(build servicesFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet ADDRESS",
		Short: "Profile a wallet from its recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, _ := cmd.Flags().GetString("chain")
			return withServices(cmd, build, func(ctx context.Context, s *services, contextOnly bool) (any, error) {
				if contextOnly {
					return s.wallets.BuildContext(ctx, args[0], chain)
				}
				return s.wallets.Analyze(ctx, args[0], chain)
			})
		},
	}
	cmd.Flags().String("chain", "solana", "Chain identifier (solana or a Moralis chain such as eth, base, bsc)")
	return cmd
}

func newSignaturesCmd(build servicesFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signatures ADDRESS",
		Short: "List the most recent transactions of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, _ := cmd.Flags().GetString("chain")
			return withServices(cmd, build, func(ctx context.Context, s *services, _ bool) (any, error) {
				return s.wallets.RecentSignatures(ctx, args[0], chain)
			})
		},
	}
	cmd.Flags().String("chain", "solana", "Chain identifier")
	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersionString())
		},
	}
}

func withServices(cmd *cobra.Command, build servicesFunc, run func(context.Context, *services, bool) (any, error)) error {
	s, err := build(cmd)
	if err != nil {
		return err
	}
	if s.stop != nil {
		defer s.stop()
	}

	contextOnly, _ := cmd.Flags().GetBool("context-only")
	result, err := run(cmd.Context(), s, contextOnly)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
