package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hollisdev/scriptsync/cmd/util"
	"github.com/hollisdev/scriptsync/pkg/config"
	"github.com/hollisdev/scriptsync/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout              io.Writer = os.Stdout
	stdin               io.Reader = os.Stdin
	guessDefaults                 = guessDefaultsImpl
	parseUserConfig               = config.ParseUser
	getWorkingDirectory           = os.Getwd
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the scriptsync user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Source, "source", "",
		"Set the source root in the config. "+
			"Optional: If not set, `scriptsync config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Deploy, "deploy", "",
		"Set the deploy root in the config. "+
			"Optional: If not set, `scriptsync config` will interactively prompt.")

	// Setup the commands for querying the contents of the user config.
	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-source",
			short: "Get the currently configured source root",
			fn:    func(cfg config.User) string { return cfg.Source },
		},
		{
			use:   "get-deploy",
			short: "Get the currently configured deploy root",
			fn:    func(cfg config.User) string { return cfg.Deploy },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

// SetupConfig interactively builds the user config and writes it to disk.
func SetupConfig(cliOpts config.User) error {
	cfg, err := generateConfig(cliOpts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := config.WriteUser(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	fmt.Printf("Wrote config to %s\n", path)
	return nil
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
}

// generateConfig interacts with the user to decide what the user's desired
// configuration is.
// It makes best guesses at reasonable defaults, and allows users to
// explicitly override them if desired.
func generateConfig(cliOpts config.User) (config.User, error) {
	defaults := guessDefaults()
	currConfig, err := parseUserConfig()
	if err != nil {
		currConfig = config.User{}
		log.WithError(err).Debug("Failed to read current config")
	}

	cfg := cliOpts
	var prompts []prompt
	if cliOpts.Source == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the path to the script source tree.\n" +
				"Global scripts live directly under it, and per-user overrides\n" +
				"live in user-named subdirectories.",
			prompt:        "Source root",
			defaultAnswer: defaults.Source,
			currAnswer:    currConfig.Source,
			field:         &cfg.Source,
		})
	}

	if cliOpts.Deploy == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the path to the scripting host's deployment root.\n" +
				"It contains the per-user key files and scripts directories.",
			prompt:        "Deploy root",
			defaultAnswer: defaults.Deploy,
			currAnswer:    currConfig.Deploy,
			field:         &cfg.Deploy,
		})
	}

	for _, prompt := range prompts {
		resp, err := promptUser(prompt.helpString, prompt.prompt,
			prompt.defaultAnswer, prompt.currAnswer)
		if err != nil {
			return config.User{}, errors.WithContext(err, "read response")
		}

		*prompt.field = resp
	}

	return cfg, nil
}

// guessDefaultsImpl tries to guess reasonable defaults for the fields in the
// user config.
func guessDefaultsImpl() (cfg config.User) {
	currDir, err := getWorkingDirectory()
	if err != nil {
		log.WithError(err).Info("Failed to guess source root")
		return cfg
	}

	// The current directory is the most likely source tree: `scriptsync
	// config` is usually run from the directory being set up.
	cfg.Source = currDir
	cfg.Deploy = filepath.Join(currDir, "deploy")
	return cfg
}

func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Display a new line at the end to separate different fields to make it
	// look clearer.
	defer fmt.Fprintln(stdout)

	options := []string{}
	if defaultAnswer != "" {
		options = append(options, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		options = append(options, currAnswer)
	}
	options = append(options, "(Enter manually)")

	fmt.Fprintln(stdout, helpString+"\n"+prompt+":")

	stdinReader := bufio.NewReader(stdin)

	if nOptions := len(options); nOptions > 1 {
		// defaultAnswer or currAnswer exists.
		fmt.Fprintln(stdout)
		for i, option := range options {
			if i == 0 {
				option = fmt.Sprintf("%s (recommended)", option)
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, option)
		}
		fmt.Fprintln(stdout)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", nOptions)
			choiceStr, err := stdinReader.ReadString('\n')
			if err != nil {
				return "", err
			}

			var choice int
			choiceStr = strings.TrimRight(choiceStr, "\n")

			// Default to the first choice if user doesn't enter anything.
			if choiceStr == "" {
				choice = 1
			} else {
				choice, err = strconv.Atoi(choiceStr)
				if err != nil || choice < 1 || choice > nOptions {
					// Try again if the input is invalid.
					continue
				}
			}

			if choice == nOptions {
				// Enter manually.
				break
			}

			return options[choice-1], nil
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	resp, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(resp, "\n"), nil
}
