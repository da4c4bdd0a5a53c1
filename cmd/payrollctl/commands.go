package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paysuite/internal/domain/payroll"
	"paysuite/internal/domain/sprint"
)

func parseSalary(raw string) (decimal.Decimal, error) {
	salary, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("annual salary %q is not a number", raw)
	}
	return salary, nil
}

func (c *cli) computeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "compute <annual-salary>",
		Short:   "Print the monthly breakdown of an annual salary",
		Example: "  payrollctl compute 600000\n  payrollctl compute 1200000 --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := parseSalary(args[0])
			if err != nil {
				return err
			}
			b, err := c.calc.Compute(salary)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			return writeBreakdown(cmd.OutOrStdout(), b)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeBreakdown(out io.Writer, b payroll.Breakdown) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Annual salary\t%s\t\n", b.AnnualSalary.String())
	fmt.Fprintf(tw, "Monthly salary\t%s\t\n", payroll.FormatINR(b.MonthlySalary))
	fmt.Fprintln(tw, "\t\t")
	for _, line := range b.Earnings() {
		fmt.Fprintf(tw, "%s\t%s\t\n", line.Label, payroll.FormatINR(line.Amount))
	}
	fmt.Fprintf(tw, "Gross salary\t%s\t\n", payroll.FormatINR(b.GrossSalary))
	fmt.Fprintln(tw, "\t\t")
	for _, line := range b.Deductions() {
		fmt.Fprintf(tw, "%s\t%s\t\n", line.Label, payroll.FormatINR(line.Amount))
	}
	fmt.Fprintf(tw, "Total deductions\t%s\t\n", payroll.FormatINR(b.TotalDeductions))
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintf(tw, "Net salary\t%s\t\n", payroll.FormatINR(b.NetSalary))
	return tw.Flush()
}

func (c *cli) payslipCmd() *cobra.Command {
	var name, period, out, company string
	cmd := &cobra.Command{
		Use:   "payslip <annual-salary>",
		Short: "Render a payslip PDF for an annual salary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := parseSalary(args[0])
			if err != nil {
				return err
			}
			if _, err := payroll.ParsePeriod(period); err != nil {
				return err
			}
			b, err := c.calc.Compute(salary)
			if err != nil {
				return err
			}
			pdf, err := payroll.RenderPayslip(payroll.PayslipDocument{
				Company:     company,
				Employee:    payroll.Employee{FirstName: name},
				Period:      period,
				Breakdown:   b,
				GeneratedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			if out == "" {
				out = "payslip-" + period + ".pdf"
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			c.logger.Debug("payslip written", zap.String("path", out), zap.Int("bytes", len(pdf)))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (net %s)\n", out, payroll.FormatINR(b.NetSalary))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Employee", "employee name printed on the payslip")
	cmd.Flags().StringVar(&period, "period", time.Now().UTC().Format(payroll.PeriodLayout), "pay period as YYYY-MM")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default payslip-<period>.pdf)")
	cmd.Flags().StringVar(&company, "company", "Company", "company name printed on the payslip")
	return cmd
}

func (c *cli) regimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regime",
		Short: "Print the active statutory regime as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.calc.Regime().YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *cli) sprintsCmd() *cobra.Command {
	var anchor string
	var count int
	var current bool
	cmd := &cobra.Command{
		Use:   "sprints",
		Short: "List weekly sprint windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := sprint.ParseAnchor(anchor)
			if err != nil {
				return err
			}
			windows := sprint.Generate(start, count)
			if current {
				w, err := sprint.Current(start, time.Now())
				if err != nil {
					return err
				}
				windows = []sprint.Window{w}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, w := range windows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", w.Name, w.Start.Format(sprint.DateLayout), w.End.Format(sprint.DateLayout))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "2026-01-05", "first sprint start date (YYYY-MM-DD, normalized to Monday)")
	cmd.Flags().IntVar(&count, "count", 12, "number of sprints to list")
	cmd.Flags().BoolVar(&current, "current", false, "print only the sprint containing today")
	return cmd
}
