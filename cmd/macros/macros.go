package macros

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/pkg/config"
	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/macros"
)

// New creates a new `macros` command.
func New() *cobra.Command {
	var deploy string
	cobraCmd := &cobra.Command{
		Use:   "macros",
		Short: "Merge macro definitions across all users",
		Long: "Merge every user's macro file with latest-timestamp-wins\n" +
			"semantics and write the merged set back to each user.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(deploy); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cobraCmd.Flags().StringVar(&deploy, "deploy", "",
		"Deploy root. Overrides the user config.")
	return cobraCmd
}

func run(deployFlag string) error {
	// The merge operates solely over the deploy root; the source root isn't
	// consulted at all.
	deploy := deployFlag
	if deploy == "" {
		cfg, err := config.ParseUser()
		if err != nil {
			return errors.WithContext(err, "parse user config")
		}
		deploy = cfg.Deploy
	}
	if deploy == "" {
		return errors.NewFriendlyError("The deploy root is required. Set it " +
			"with `scriptsync config`, or pass --deploy.")
	}

	result, err := macros.Sync(deploy)
	if err != nil {
		return errors.WithContext(err, "sync macros")
	}

	fmt.Printf("Merged %d macros across %d users.\n", result.Merged, result.Users)
	return nil
}
