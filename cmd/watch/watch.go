package watch

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/sync"
	"github.com/hollisdev/scriptsync/pkg/transform"
)

type watchCmd struct {
	source  string
	deploy  string
	users   []string
	scripts []string
}

// New creates a new `watch` command.
func New() *cobra.Command {
	var cmd watchCmd
	cobraCmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously sync scripts as they change",
		Long: "Watch the source tree and incrementally deploy each changed\n" +
			"script. Runs until interrupted.",
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

func (cmd watchCmd) run() error {
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

	log.WithField("source", source).Info("Watching for changes. Ctrl-C to stop.")
	if err := syncer.Watch(util.PrintInfo); err != nil {
		return errors.WithContext(err, "watch")
	}
	return nil
}
