package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/check"
	configCmd "github.com/hollisdev/scriptsync/cmd/config"
	macrosCmd "github.com/hollisdev/scriptsync/cmd/macros"
	"github.com/hollisdev/scriptsync/cmd/pull"
	"github.com/hollisdev/scriptsync/cmd/push"
	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/cmd/version"
	"github.com/hollisdev/scriptsync/cmd/watch"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "SCRIPTSYNC_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:          "scriptsync",
		Short:        "Sync script sources to the scripting host's user directories",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		check.New(),
		configCmd.New(),
		macrosCmd.New(),
		pull.New(),
		push.New(),
		version.New(),
		watch.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
