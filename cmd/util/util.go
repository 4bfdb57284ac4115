package util

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/buger/goterm"
	log "github.com/sirupsen/logrus"

	"github.com/hollisdev/scriptsync/pkg/config"
	"github.com/hollisdev/scriptsync/pkg/errors"
	"github.com/hollisdev/scriptsync/pkg/sync"
)

// friendlier is implemented by errors that carry a message meant to be shown
// to the user without any wrapping context.
type friendlier interface {
	FriendlyMessage() string
}

// HandleFatalError prints the given error and exits the process.
func HandleFatalError(err error) {
	if friendly, ok := errors.RootCause(err).(friendlier); ok {
		fmt.Fprintln(os.Stderr, friendly.FriendlyMessage())
	} else {
		log.WithError(err).Error("Fatal error")
	}
	os.Exit(1)
}

// HandlePanic recovers from panics in goroutines so that we can log them
// before crashing.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	log.WithField("stack", string(debug.Stack())).Errorf("Panicked: %v", r)
	os.Exit(1)
}

// ResolveRoots returns the source and deploy roots for a command, preferring
// the flag values over the user config. The config is only read when a flag
// is missing, so commands run with both flags work without a config file.
func ResolveRoots(sourceFlag, deployFlag string) (source, deploy string, err error) {
	source, deploy = sourceFlag, deployFlag
	if source == "" || deploy == "" {
		cfg, err := config.ParseUser()
		if err != nil {
			return "", "", errors.WithContext(err, "parse user config")
		}

		if source == "" {
			source = cfg.Source
		}
		if deploy == "" {
			deploy = cfg.Deploy
		}
	}

	if source == "" || deploy == "" {
		return "", "", errors.NewFriendlyError(
			"Both the source and deploy roots are required. Set them with "+
				"`scriptsync config`, or pass --source and --deploy.")
	}
	return source, deploy, nil
}

// PrintInfo prints a one-line colored result for a synced script.
func PrintInfo(info sync.Info) {
	name := info.Source.Name
	if !info.Source.IsGlobal() {
		name = info.Source.Owner + "." + name
	}

	if info.Error != nil {
		fmt.Printf("%s  %s: %s\n", goterm.Color("fail", goterm.RED), name, info.Error)
		return
	}

	fmt.Printf("%s    %s -> [%s] (%d bytes)\n", goterm.Color("ok", goterm.GREEN),
		name, strings.Join(info.Users, ", "), info.MinifiedLength)
}
