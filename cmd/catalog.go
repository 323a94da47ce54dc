package cmd

import (
	"variant-manager/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// catalogCmd groups the attribute catalog commands.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Import and export the attribute catalog",
}

var importCmd = &cobra.Command{
	Use:   "import [OBJECT]",
	Short: "Import attributes and templates from a catalog document in storage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, rt, err := catalogService(cmd)
		if err != nil {
			return err
		}

		report, err := svc.Import(cmd.Context(), firstArg(args))
		if err != nil {
			return err
		}
		rt.log.Info("Catalog imported",
			zap.String("object", report.Object),
			zap.Int("attributes", report.Attributes),
			zap.Int("values", report.Values),
			zap.Int("templates_created", report.TemplatesCreated),
			zap.Int("templates_updated", report.TemplatesUpdated),
		)
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [OBJECT]",
	Short: "Write the current attributes and templates to storage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := catalogService(cmd)
		if err != nil {
			return err
		}

		report, err := svc.Export(cmd.Context(), firstArg(args))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog and item counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := catalogService(cmd)
		if err != nil {
			return err
		}

		if _, err := svc.Refresh(cmd.Context()); err != nil {
			return err
		}
		status, err := svc.Status(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff [OBJECT]",
	Short: "Compare a catalog document with the database without writing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, rt, err := catalogService(cmd)
		if err != nil {
			return err
		}

		report, err := svc.Diff(cmd.Context(), firstArg(args))
		if err != nil {
			return err
		}
		rt.log.Info("Catalog diff completed",
			zap.String("object", report.Object),
			zap.Bool("in_sync", report.InSync),
			zap.Int("attribute_issues", len(report.Attributes.Issues())),
			zap.Int("template_issues", len(report.Templates.Issues())),
		)
		if issuesOnly {
			report.Attributes.Results = report.Attributes.Issues()
			report.Templates.Results = report.Templates.Issues()
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var issuesOnly bool

func init() {
	RootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(importCmd, exportCmd, statusCmd, diffCmd)

	diffCmd.Flags().BoolVar(&issuesOnly, "issues", false, "Only list entities that differ")
}

func catalogService(cmd *cobra.Command) (*catalog.Service, *runtime, error) {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	client, err := rt.storage()
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewService(client, rt.cfg.Storage, rt.cfg.Variant.CatalogObject, rt.store, rt.cache, rt.log), rt, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
