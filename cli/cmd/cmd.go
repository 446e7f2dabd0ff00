package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/unitechio/tsdate"
	"github.com/unitechio/tsdate/common"
	"github.com/unitechio/tsdate/input"
	"github.com/unitechio/tsdate/zone"
)

const (
	configName = ".tsdate"
	envPrefix  = "tsdate"
)

type rootConfig struct {
	Debug     bool   `mapstructure:"debug"`
	Verbose   bool   `mapstructure:"verbose"`
	LogFormat string `mapstructure:"log-format"`
	LogDir    string `mapstructure:"log-dir"`
}

type formatConfig struct {
	Timezone  string `mapstructure:"timezone"`
	File      string `mapstructure:"file"`
	Echo      bool   `mapstructure:"echo"`
	KeepGoing bool   `mapstructure:"keep-going"`
}

type nowConfig struct {
	Timezone string `mapstructure:"timezone"`
	Unix     bool   `mapstructure:"unix"`
}

// cli carries the state of one command tree so that trees built by tests
// do not share configuration.
type cli struct {
	v       *viper.Viper
	cfgFile string
	zone    zone.Zone
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tsdate",
		Short: "Converts Unix timestamps into readable dates.",
		Long: `tsdate renders Unix timestamps, seconds since 1970-01-01T00:00:00Z with an
optional fraction, as "YYYY-MM-DD HH:MM:SS" in a chosen time zone.

The zone defaults to the local zone of the process and can be set with the
--timezone flag, the TSDATE_TIMEZONE variable or the "timezone" key of the
config file.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.initialize,
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Defines debug mode")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose information of the run")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format, console or json")
	rootCmd.PersistentFlags().String("log-dir", "", "Directory of the rotated log file, stderr when empty")
	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.tsdate.yaml)")

	formatCmd := &cobra.Command{
		Use:   "format [timestamp...]",
		Short: "Formats the provided timestamps, or the ones read from a file or stdin.",
		Long: `Formats every timestamp given as an argument. Without arguments the
timestamps are read from --file, or from stdin, separated by white space.
Text following '#' on a line is ignored.`,
		RunE:    c.runFormat,
		Example: "format 1702621996.4947057 --timezone Asia/Shanghai",
	}
	formatCmd.Flags().VarP(&c.zone, "timezone", "z", "Time zone: local, UTC, an IANA name or an offset like +08:00")
	formatCmd.Flags().StringP("file", "f", "", "Read timestamps from the file, '-' for stdin")
	formatCmd.Flags().BoolP("echo", "e", false, "Print the input next to every date")
	formatCmd.Flags().BoolP("keep-going", "k", false, "Report invalid timestamps and continue")

	nowCmd := &cobra.Command{
		Use:   "now",
		Short: "Prints the current time.",
		Args:  cobra.NoArgs,
		RunE:  c.runNow,
	}
	nowCmd.Flags().VarP(&c.zone, "timezone", "z", "Time zone: local, UTC, an IANA name or an offset like +08:00")
	nowCmd.Flags().BoolP("unix", "u", false, "Print the Unix timestamp before the date")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tsdate %s, released %s\n",
				common.Version, common.UtcTimeFormat(common.ReleasedAt))
		},
	}

	rootCmd.AddCommand(formatCmd, nowCmd, versionCmd)
	return rootCmd
}

func (c *cli) initialize(cmd *cobra.Command, args []string) error {
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "binding flags failed")
	}
	if err := c.initConfig(); err != nil {
		return err
	}

	var cfg rootConfig
	if err := c.v.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "decoding configuration failed")
	}
	if err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if used := c.v.ConfigFileUsed(); used != "" {
		common.Log.Info("using config file", zap.String("path", used))
	}
	return nil
}

func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "locating home directory failed")
		}
		c.v.AddConfigPath(home)
		c.v.SetConfigName(configName)
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && c.cfgFile == "" {
			return nil
		}
		return errors.Wrap(err, "reading config file failed")
	}
	return nil
}

func setupLogging(cfg rootConfig, stderr io.Writer) error {
	level := "warn"
	if cfg.Verbose {
		level = "info"
	}
	if cfg.Debug {
		level = "debug"
	}
	err := common.SetupLogging(common.LogConfig{
		Format: cfg.LogFormat,
		Level:  level,
		Dir:    cfg.LogDir,
	}, stderr)
	return errors.Wrap(err, "setting up logging failed")
}

func newFormatter(name string) (*tsdate.Formatter, zone.Zone, error) {
	z, err := zone.Parse(name)
	if err != nil {
		return nil, zone.Zone{}, err
	}
	return tsdate.NewFormatter(z.Location()), z, nil
}

func openSource(cmd *cobra.Command, file string, args []string) (input.Source, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, errors.New("timestamps given both as arguments and with --file")
	case len(args) > 0:
		return input.NewArgs(args), nil
	case file == "" || file == "-":
		return input.NewReader("stdin", cmd.InOrStdin()), nil
	default:
		return input.NewFile(file)
	}
}

func position(src input.Source) string {
	if src.Line() == 0 {
		return src.Name()
	}
	return fmt.Sprintf("%s:%d", src.Name(), src.Line())
}

func (c *cli) runFormat(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var cfg formatConfig
	if err := c.v.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "decoding configuration failed")
	}
	formatter, z, err := newFormatter(cfg.Timezone)
	if err != nil {
		return err
	}

	src, err := openSource(cmd, cfg.File, args)
	if err != nil {
		return err
	}
	defer src.Close()

	out := cmd.OutOrStdout()
	warn := color.New(color.FgRed)
	var done, failed int
	for src.Scan() {
		raw := src.Token()
		date, err := formatter.FormatString(raw)
		if err != nil {
			common.Log.Debug("rejected timestamp",
				zap.String("source", src.Name()),
				zap.Int("line", src.Line()),
				zap.String("input", raw),
				zap.Error(err))
			if !cfg.KeepGoing {
				return errors.Wrap(err, position(src))
			}
			warn.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", position(src), err)
			failed++
			continue
		}
		if cfg.Echo {
			fmt.Fprintf(out, "%s\t%s\n", raw, date)
		} else {
			fmt.Fprintln(out, date)
		}
		done++
	}
	if err := src.Err(); err != nil {
		return err
	}

	common.Log.Info("formatted timestamps",
		zap.String("zone", z.String()),
		zap.Int("formatted", done),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))
	if failed > 0 {
		return fmt.Errorf("%d of %d timestamps were invalid", failed, done+failed)
	}
	return nil
}

func (c *cli) runNow(cmd *cobra.Command, args []string) error {
	var cfg nowConfig
	if err := c.v.Unmarshal(&cfg); err != nil {
		return errors.Wrap(err, "decoding configuration failed")
	}
	formatter, _, err := newFormatter(cfg.Timezone)
	if err != nil {
		return err
	}

	ts := tsdate.Now()
	date, err := formatter.Format(ts)
	if err != nil {
		return err
	}
	if cfg.Unix {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ts, date)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), date)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Err:", err)
		os.Exit(1)
	}
}
