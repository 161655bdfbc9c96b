package main

import (
	"os"
	"strings"

	"github.com/MarkoPoloResearchLab/file_mirror/internal/logging"
	"github.com/MarkoPoloResearchLab/file_mirror/internal/mirror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	logger  *zap.Logger
	rootCmd = &cobra.Command{
		Use:   "filez-mirror [flags] <src> <dst>",
		Short: "Mirror a source directory tree into a destination tree",
		Long: `Make the files under <dst> match the files under <src>.

In subdirs mode (the default) each top-level directory of <dst> is mirrored from
the directory with the same name under <src>; destination directories without a
source counterpart are left alone. In pair mode <src> and <dst> are mirrored
directly.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := optionsFromConfig(args[0], args[1])
			if err != nil {
				logger.Error("invalid configuration", zap.Error(err))
				return err
			}
			options.Report = cmd.OutOrStdout()

			if _, err := mirror.RunMirror(options, logger); err != nil {
				logger.Error("mirror failed", zap.Error(err))
				return err
			}
			return nil
		},
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.String("mode", string(mirror.ModeSubdirs), "subdirs: mirror each top-level directory of dst; pair: mirror src into dst directly")
	flags.String("parents", string(mirror.ParentsCreate), "missing destination parents: create or skip")
	flags.String("enumeration", string(mirror.EnumerationLenient), "unreadable entries while listing: lenient (skip) or strict (fail)")
	flags.String("on-pair-error", string(mirror.FailAbort), "after a pair fails: abort or continue")
	flags.String("clone", string(mirror.CloneAuto), "copy-on-write clones: auto or never")
	flags.StringSlice("exclude", nil, "gitignore-style pattern to leave out of both trees (repeatable)")
	flags.String("ignore-file", "", "path to .gitignore-style file with exclude patterns")
	flags.Int("jobs", 1, "top-level pairs to mirror concurrently")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "console", "log format: console or json")

	bindConfig()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewLogger()
		if err != nil {
			return err
		}
		return nil
	}
}

// bindConfig wires every flag to viper with FILEZ_MIRROR_* environment overrides.
func bindConfig() {
	viper.SetEnvPrefix("FILEZ_MIRROR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for _, name := range []string{
		"mode", "parents", "enumeration", "on-pair-error", "clone",
		"exclude", "ignore-file", "jobs", "log-level", "log-format",
	} {
		viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

func optionsFromConfig(source, destination string) (mirror.Options, error) {
	mode, err := mirror.ParseMode(viper.GetString("mode"))
	if err != nil {
		return mirror.Options{}, err
	}
	parents, err := mirror.ParseParentPolicy(viper.GetString("parents"))
	if err != nil {
		return mirror.Options{}, err
	}
	enumeration, err := mirror.ParseEnumerationPolicy(viper.GetString("enumeration"))
	if err != nil {
		return mirror.Options{}, err
	}
	onPairError, err := mirror.ParseFailurePolicy(viper.GetString("on-pair-error"))
	if err != nil {
		return mirror.Options{}, err
	}
	clone, err := mirror.ParseClonePolicy(viper.GetString("clone"))
	if err != nil {
		return mirror.Options{}, err
	}
	ignoreFile := viper.GetString("ignore-file")
	ignoreMatcher, err := mirror.LoadIgnoreMatcher(ignoreFile, viper.GetStringSlice("exclude")...)
	if err != nil {
		logger.Error("read ignore file", zap.String("path", ignoreFile), zap.Error(err))
		return mirror.Options{}, err
	}

	return mirror.Options{
		SourceRoot:      source,
		DestinationRoot: destination,
		Mode:            mode,
		Parents:         parents,
		Enumeration:     enumeration,
		OnPairError:     onPairError,
		Clone:           clone,
		IgnoreMatcher:   ignoreMatcher,
		Jobs:            viper.GetInt("jobs"),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			_ = logger.Sync()
		} else {
			os.Stderr.WriteString(err.Error() + "\n")
		}
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
