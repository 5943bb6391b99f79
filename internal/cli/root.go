package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/warisan/internal/cache"
	"github.com/ppiankov/warisan/internal/logging"
	"github.com/ppiankov/warisan/internal/model"
	"github.com/ppiankov/warisan/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "warisan v0.1.0"

var (
	cfgFile string
	verbose bool

	appConfig = model.DefaultConfig()
	logger    = logging.Nop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "warisan",
	Short: "Warisan - estate allocation among heirs (faraidh)",
	Long: `Warisan distributes an estate among heirs under a simplified
fixed-share inheritance rule set:

- Fixed shares (1/2, 1/3, 1/4, 1/6, 1/8, 2/3) for parents, spouse and daughters
- Proportional reduction (awl) when fixed shares exceed the estate
- Residue (ashabah) to sons and daughters at 2:1, or to the father
- Every computation is kept in a session history that can be exported

Results are arithmetic under the rules above, not a legal opinion.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.warisan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show rule basis for every share")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file, .env and ENV variables
func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".warisan"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match WARISAN_*, e.g. WARISAN_OUTPUT_LOCALE
	viper.SetEnvPrefix("WARISAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment overrides apply to it
func setDefaults(v *viper.Viper, cfg *model.Config) {
	var walk func(prefix string, val reflect.Value)
	walk = func(prefix string, val reflect.Value) {
		typ := val.Type()
		for i := 0; i < typ.NumField(); i++ {
			key := typ.Field(i).Tag.Get("mapstructure")
			if prefix != "" {
				key = prefix + "." + key
			}
			field := val.Field(i)
			if field.Kind() == reflect.Struct {
				walk(key, field)
				continue
			}
			v.SetDefault(key, field.Interface())
		}
	}
	walk("", reflect.ValueOf(cfg).Elem())
}

// loadConfig decodes the effective configuration from v
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads configuration and builds the logger before any command runs
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	appConfig = cfg

	l, err := logging.New(logging.Config{
		Environment: logging.Environment(cfg.Log.Environment),
		Level:       cfg.Log.Level,
	})
	if err != nil {
		return err
	}
	logger = l.With(zap.String("command", cmd.Name()))
	return nil
}

// newSession creates a calculation session from the effective configuration
func newSession(cfg *model.Config, l *zap.Logger) (*session.Session, error) {
	opts := []session.Option{
		session.WithLogger(l),
		session.WithLocale(cfg.Output.Locale),
	}
	if cfg.Cache.Enabled {
		opts = append(opts, session.WithCache(cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)))
	}
	return session.New(opts...)
}
