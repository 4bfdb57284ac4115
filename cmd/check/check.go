package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/pkg/config"
	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/sync"
	"github.com/hollisdev/scriptsync/pkg/transform"
)

// New creates a new `test` command.
func New() *cobra.Command {
	var source string
	cobraCmd := &cobra.Command{
		Use:   "test",
		Short: "Transform every script without deploying anything",
		Long: "Run the transformer over every source file and report the ones\n" +
			"that fail. Nothing is written, so it's safe to run in CI.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(source); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cobraCmd.Flags().StringVar(&source, "source", "",
		"Source root. Overrides the user config.")
	return cobraCmd
}

func run(sourceFlag string) error {
	source := sourceFlag
	if source == "" {
		cfg, err := config.ParseUser()
		if err != nil {
			return errors.WithContext(err, "parse user config")
		}
		source = cfg.Source
	}
	if source == "" {
		return errors.NewFriendlyError("The source root is required. Set it " +
			"with `scriptsync config`, or pass --source.")
	}

	syncer := sync.Syncer{
		Transformer: transform.NewMinifier(),
		SourceRoot:  source,
	}

	failures, err := syncer.Check()
	if err != nil {
		return errors.WithContext(err, "check")
	}

	for _, failure := range failures {
		fmt.Printf("%s: %s\n", failure.Path, failure.Err)
	}

	if len(failures) > 0 {
		return errors.NewFriendlyError("%d scripts failed to transform.", len(failures))
	}

	fmt.Println("All scripts transformed cleanly.")
	return nil
}
