package cmd

import (
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/service"
	"github.com/spf13/cobra"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements [level]",
	Short: "List the requirements that apply at a trust level",
	Long: `List the requirements a user at the given trust level is measured against.
The level defaults to 0.

Levels 2 and 3 share the TL3 requirements, whose posts read and topics entered
thresholds depend on recent forum activity, so those levels contact the forum.`,
	Example: `  tlprogress requirements 1
  tlprogress requirements tl2 --forum https://meta.discourse.org`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := 0
		if len(args) == 1 {
			l, err := service.ParseLevel(args[0])
			if err != nil {
				return err
			}
			level = l
		}
		return service.NewRequirementsService().Show(cmd.Context(), level)
	},
}
