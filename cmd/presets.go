package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sorbentlab/breakthrough/internal/presets"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List and materialize bundled starter configurations",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled preset names",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := presets.List()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name> <path>",
	Short: "Materialize a bundled preset into a plaintext input file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return presets.Save(afero.NewOsFs(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd, presetsSaveCmd)
}
