package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Wheelcalc/internal/auth"
	"Wheelcalc/internal/calc/importer"
	"Wheelcalc/internal/calc/report"
	"Wheelcalc/internal/calc/request"
	"Wheelcalc/internal/config"
	"Wheelcalc/internal/logging"
	"Wheelcalc/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc <file>",
		Short: "Evaluate a calculation request",
		Long: `Evaluate a calculation request read from a JSON or YAML file ("-" reads
JSON from stdin) and print the response as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.Request
			if err := readInput(cmd.InOrStdin(), args[0], &req); err != nil {
				return err
			}
			resp, err := request.NewEvaluator(a.log).Evaluate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Render a calculation request as a PDF report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in report.Input
			if err := readInput(cmd.InOrStdin(), args[0], &in); err != nil {
				return err
			}
			pdf, err := report.Generate(cmd.Context(), request.NewEvaluator(a.log), in)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			a.log.Info("report written", zap.String("path", out), zap.Int("bytes", len(pdf)))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "wheel_report.pdf", "Output PDF path")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <xlsx>",
		Short: "Evaluate every wheel listed in a spreadsheet",
		Long: fmt.Sprintf(`Evaluate the wheels of an xlsx workbook, one per row of the first sheet
after a header row. Columns: %v.`, importer.Columns),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := importer.Import(f)
			if err != nil {
				return err
			}
			a.log.Info("workbook evaluated", zap.String("path", args[0]), zap.Int("rows", res.Count))
			return printJSON(cmd, res)
		},
	}
}

func (a *app) tokenCmd() *cobra.Command {
	var (
		key     string
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the calculation API",
		Long: `Issue an HS256 bearer token. The signing key defaults to
WHEELCALC_TOKEN_KEY (from the environment or .env).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				key = cfg.TokenKey
			}
			if key == "" {
				return errors.New("no signing key: set --key or WHEELCALC_TOKEN_KEY")
			}
			tokens := &auth.Tokens{Key: []byte(key)}
			token, err := tokens.Issue(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Signing key")
	cmd.Flags().StringVar(&subject, "subject", "wheelcalc", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var (
		addr     string
		envFiles []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			log := a.log
			if !a.verbose && !cmd.Flags().Changed("log-level") {
				if log, err = logging.New(cfg.LogLevel); err != nil {
					return err
				}
				defer log.Sync()
			}
			zap.ReplaceGlobals(log)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return server.Run(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides WHEELCALC_ADDR)")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Environment files to load (default .env)")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
