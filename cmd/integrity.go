package cmd

import (
	"variant-manager/core/storage"
	"variant-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd runs every check.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and the item database",
	Long:  `Checks the catalog bucket layout, the catalog document and the variant table schema.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, true, true)
	},
}

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the catalog bucket folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, false, false)
	},
}

var catalogDocCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Check that the catalog document exists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, true, false)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the variant tables against their models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, catalogDocCmd, schemaCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}

func runIntegrityChecks(cmd *cobra.Command, runStructure, runCatalog, runSchema bool) error {
	ctx := cmd.Context()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	logg := rt.log

	// the schema check alone needs no storage
	var client storage.Client
	if runStructure || runCatalog {
		if client, err = rt.storage(); err != nil {
			return err
		}
	}
	svc := integrity.NewService(client, rt.cfg.Storage.Bucket, rt.cfg.Variant.CatalogObject, rt.db, logg)

	if runStructure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return err
		}

		switch {
		case len(missing) == 0:
			logg.Info("Structure is intact.")
		case fixFlag:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			logg.Info("Fixing missing folders...")
			if err := svc.FixStructure(ctx, missing); err != nil {
				return err
			}
			logg.Info("Structure fixed successfully.")
		default:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			logg.Info("Run with --fix to create missing folders.")
		}
	}

	if runCatalog {
		logg.Info("Checking catalog document...", zap.String("object", rt.cfg.Variant.CatalogObject))
		missing, err := svc.CheckCatalog(ctx)
		if err != nil {
			return err
		}
		if len(missing) == 0 {
			logg.Info("Catalog document is present.")
		} else {
			logg.Warn("Catalog document is missing", zap.Strings("missing", missing))
		}
	}

	if runSchema {
		logg.Info("Checking database schema integrity...", zap.String("driver", rt.cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			return err
		}
		if report.Matched {
			logg.Info("Database schema matches the item models.")
			return nil
		}

		logg.Warn("Database schema mismatches found")
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}
	return nil
}
