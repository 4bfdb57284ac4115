package push

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/sync"
	"github.com/hollisdev/scriptsync/pkg/transform"
)

type pushCmd struct {
	source  string
	deploy  string
	users   []string
	scripts []string
}

// New creates a new `push` command.
func New() *cobra.Command {
	var cmd pushCmd
	cobraCmd := &cobra.Command{
		Use:   "push",
		Short: "Deploy every script to its target users",
		Long: "Transform and deploy the full source tree. Global scripts go to\n" +
			"every known user that doesn't hold a private override of the same\n" +
			"name; private scripts go to their owning user only.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := cmd.run(); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cobraCmd.Flags().StringVar(&cmd.source, "source", "",
		"Source root. Overrides the user config.")
	cobraCmd.Flags().StringVar(&cmd.deploy, "deploy", "",
		"Deploy root. Overrides the user config.")
	cobraCmd.Flags().StringSliceVar(&cmd.users, "users", nil,
		"Only sync to these users. Defaults to every user with a key file.")
	cobraCmd.Flags().StringSliceVar(&cmd.scripts, "scripts", nil,
		"Only sync scripts with these logical names.")
	return cobraCmd
}

func (cmd pushCmd) run() error {
	source, deploy, err := util.ResolveRoots(cmd.source, cmd.deploy)
	if err != nil {
		return err
	}

	syncer := sync.Syncer{
		Transformer: transform.NewMinifier(),
		SourceRoot:  source,
		DeployRoot:  deploy,
		Users:       cmd.users,
		Scripts:     cmd.scripts,
	}

	infos, err := syncer.Push(util.PrintInfo)
	if err != nil {
		return errors.WithContext(err, "push")
	}

	var failed int
	for _, info := range infos {
		if info.Error != nil {
			failed++
		}
	}

	if failed > 0 {
		return errors.NewFriendlyError("%d of %d scripts failed to sync.",
			failed, len(infos))
	}

	fmt.Printf("Synced %d scripts.\n", len(infos))
	return nil
}
