package cmd

import (
	"fmt"
	"strings"

	"variant-manager/feature/variant"
	"variant-manager/feature/variant/combination"
	"variant-manager/feature/variant/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	excludeFlag      string
	manufacturerFlag string
	partNoFlag       string
)

// variantsCmd groups the variant commands.
var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Generate, match and build item variants",
}

var generateCmd = &cobra.Command{
	Use:   "generate TEMPLATE Attribute=v1,v2 [Attribute=v1,v2 ...]",
	Short: "Create every missing variant for a cartesian product of attribute values",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := combination.ParseSpec(args[1:])
		if err != nil {
			return err
		}

		svc, rt, err := variantService(cmd)
		if err != nil {
			return err
		}

		ok, report, err := svc.GenerateAllCombinations(cmd.Context(), args[0], spec)
		if err != nil {
			return err
		}
		rt.log.Info("Variant generation completed",
			zap.String("template", args[0]),
			zap.Bool("ok", ok),
			zap.Int("created", report.Created),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed),
		)
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var findCmd = &cobra.Command{
	Use:   "find TEMPLATE Attribute=value [Attribute=value ...]",
	Short: "Find the variant carrying exactly the given attributes",
	Long: `Looks up an existing variant of TEMPLATE. When none matches and
--manufacturer is set, an unsaved manufacturer variant is printed instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignment, err := parseAssignment(args[1:])
		if err != nil {
			return err
		}

		svc, _, err := variantService(cmd)
		if err != nil {
			return err
		}

		res, err := svc.ResolveOrBuildVariant(cmd.Context(), args[0], assignment, excludeFlag, manufacturerFlag, partNoFlag)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build TEMPLATE Attribute=value [Attribute=value ...]",
	Short: "Print the variant that would be created, without saving it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignment, err := parseAssignment(args[1:])
		if err != nil {
			return err
		}

		svc, _, err := variantService(cmd)
		if err != nil {
			return err
		}

		item, err := svc.BuildVariant(cmd.Context(), args[0], assignment)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), item)
	},
}

var createCmd = &cobra.Command{
	Use:   "create TEMPLATE Attribute=value [Attribute=value ...]",
	Short: "Build, validate and save a single variant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignment, err := parseAssignment(args[1:])
		if err != nil {
			return err
		}

		svc, rt, err := variantService(cmd)
		if err != nil {
			return err
		}

		item, err := svc.CreateVariant(cmd.Context(), args[0], assignment)
		if err != nil {
			return err
		}
		rt.log.Info("Variant created", zap.String("item_code", item.ItemCode))
		return printJSON(cmd.OutOrStdout(), item)
	},
}

var listCmd = &cobra.Command{
	Use:   "list TEMPLATE",
	Short: "List the variants of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := variantService(cmd)
		if err != nil {
			return err
		}

		items, err := svc.ListVariants(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), items)
	},
}

func init() {
	RootCmd.AddCommand(variantsCmd)
	variantsCmd.AddCommand(generateCmd, findCmd, buildCmd, createCmd, listCmd)

	findCmd.Flags().StringVar(&excludeFlag, "exclude", "", "Variant id to ignore while matching")
	findCmd.Flags().StringVar(&manufacturerFlag, "manufacturer", "", "Build a manufacturer variant when none matches")
	findCmd.Flags().StringVar(&partNoFlag, "part-no", "", "Manufacturer part number for the built variant")
}

func variantService(cmd *cobra.Command) (*variant.Service, *runtime, error) {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return variant.NewService(rt.store, rt.cache, rt.log), rt, nil
}

// parseAssignment reads Attribute=value arguments. A repeated attribute is
// an error since a variant carries one value per attribute.
func parseAssignment(args []string) (models.Assignment, error) {
	assignment := make(models.Assignment, len(args))
	for _, arg := range args {
		attribute, value, ok := strings.Cut(arg, "=")
		attribute = strings.TrimSpace(attribute)
		if !ok || attribute == "" {
			return nil, fmt.Errorf("invalid attribute %q, expected Attribute=value", arg)
		}
		if _, dup := assignment[attribute]; dup {
			return nil, fmt.Errorf("attribute %s given more than once", attribute)
		}
		assignment[attribute] = strings.TrimSpace(value)
	}
	return assignment, nil
}
