package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	coremetrics "github.com/kilianp07/hmcmod/core/metrics"
	inframetrics "github.com/kilianp07/hmcmod/infra/metrics"
	cfgreader "github.com/kilianp07/hmcmod/infra/reader"
	"github.com/kilianp07/hmcmod/qcd/modules"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the registered module identifiers per product type",
	Args:  cobra.NoArgs,
	RunE:  listModules,
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}

type listing interface {
	ProductType() string
	Names() []string
}

func listModules(cmd *cobra.Command, args []string) error {
	modules.Register()
	inframetrics.Register()
	for _, reg := range []listing{
		modules.Actions[*cfgreader.Koanf](),
		modules.Operators[*cfgreader.Koanf](),
		modules.Solvers[*cfgreader.Koanf](),
		coremetrics.Recorders[*cfgreader.Koanf](),
	} {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", reg.ProductType(), strings.Join(reg.Names(), ", ")); err != nil {
			return err
		}
	}
	return nil
}
