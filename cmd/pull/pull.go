package pull

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/pkg/sync"
)

// New creates a new `pull` command.
func New() *cobra.Command {
	var source, deploy string
	cobraCmd := &cobra.Command{
		Use:   "pull user.name",
		Short: "Copy a deployed script back into the source tree",
		Long: "Copy the deployed script `name` of `user` back into the user's\n" +
			"source directory, where it becomes a private override.",
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			if err := run(source, deploy, args[0]); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cobraCmd.Flags().StringVar(&source, "source", "",
		"Source root. Overrides the user config.")
	cobraCmd.Flags().StringVar(&deploy, "deploy", "",
		"Deploy root. Overrides the user config.")
	return cobraCmd
}

func run(sourceFlag, deployFlag, target string) error {
	source, deploy, err := util.ResolveRoots(sourceFlag, deployFlag)
	if err != nil {
		return err
	}

	syncer := sync.Syncer{SourceRoot: source, DeployRoot: deploy}
	if err := syncer.Pull(target); err != nil {
		return err
	}

	fmt.Printf("Pulled %s.\n", target)
	return nil
}
