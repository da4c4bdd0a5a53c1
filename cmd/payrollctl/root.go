package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"paysuite/internal/domain/payroll"
)

type cli struct {
	regimeFile string
	strict     bool
	verbose    bool

	logger *zap.Logger
	calc   *payroll.Calculator
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Gross-to-net payroll calculator",
		Long:          "payrollctl computes monthly salary breakdowns, renders payslips and lists sprint windows without a running server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			config := zap.NewProductionConfig()
			if c.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger

			regime, err := payroll.LoadRegime(c.regimeFile)
			if err != nil {
				return err
			}
			var opts []payroll.Option
			if c.strict {
				opts = append(opts, payroll.WithStrictInput())
			}
			c.calc = payroll.NewCalculator(regime, opts...)
			c.logger.Debug("regime loaded",
				zap.String("jurisdiction", regime.Jurisdiction),
				zap.String("taxYear", regime.TaxYear),
				zap.Bool("strict", c.strict))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&c.regimeFile, "regime", "", "statutory regime YAML file (default: built-in IN-MH FY2025-26)")
	root.PersistentFlags().BoolVar(&c.strict, "strict", true, "reject negative salaries")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.computeCmd())
	root.AddCommand(c.payslipCmd())
	root.AddCommand(c.regimeCmd())
	root.AddCommand(c.sprintsCmd())
	return root
}
