package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clinicstats/internal/department"
	"clinicstats/internal/export"
	"clinicstats/internal/stats"
)

func reportCmd(a *app) *cobra.Command {
	var specialization string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Ingest the sources and print catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}
			out := cmd.OutOrStdout()
			printReport(out, stats.BuildReport(res.Catalog, a.cfg.TopN))
			if specialization != "" {
				printDetail(out, stats.DetailFor(res.Catalog, specialization))
			}
			printWarningSummary(out, res.Warnings)
			return nil
		},
	}
	cmd.Flags().StringVar(&specialization, "specialization", "", "also print details for one specialization")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var outDir, pgDSN string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Ingest the sources and write Parquet exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.ExportDir
			}
			res, err := a.run(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}
			report := stats.BuildReport(res.Catalog, a.cfg.TopN)
			counts, err := export.WriteAll(outDir, res.Catalog, report)
			if err != nil {
				return a.fail(cmd, err)
			}
			for _, name := range []string{export.PricesFile, export.CoverageFile, export.DepartmentsFile, export.DeltasFile} {
				a.log.Info().Str("file", name).Int("rows", counts[name]).Str("dir", outDir).Msg("exported")
			}

			if pgDSN == "" {
				pgDSN = a.cfg.ExportDSN
			}
			if pgDSN == "" {
				return nil
			}
			sink, err := export.NewPostgresSink(cmd.Context(), pgDSN)
			if err != nil {
				return a.fail(cmd, err)
			}
			defer sink.Close()
			pc, err := sink.Write(cmd.Context(), res.Catalog, report)
			if err != nil {
				return a.fail(cmd, err)
			}
			a.log.Info().
				Str("pass_id", res.Catalog.PassID().String()).
				Int64("prices", pc.Prices).
				Int64("coverage", pc.Coverage).
				Msg("stored in postgres")
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&pgDSN, "pg", "", "also store the pass in PostgreSQL (default from config)")
	return cmd
}

func checkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Ingest the sources and list every row-level warning",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}
			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				fmt.Fprintln(out, w.String())
			}
			printWarningSummary(out, res.Warnings)
			return nil
		},
	}
}

func searchCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find priced services by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.run(cmd.Context())
			if err != nil {
				return a.fail(cmd, err)
			}
			entries := stats.SearchPrices(res.Catalog, category, args[0])
			printEntries(cmd.OutOrStdout(), res.Catalog.Locations(), entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "limit to one category")
	return cmd
}

// classifyCmd needs no sources.
func classifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <specialization>...",
		Short: "Print the department of each specialization",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, spec := range args {
				fmt.Fprintf(out, "%s\t%s\n", strings.TrimSpace(spec), department.Classify(spec))
			}
			return nil
		},
	}
}
