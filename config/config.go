package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bionotebook/seeddata/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Endpoints holds the base URLs of the public repositories.
type Endpoints struct {
	Entrez  string `mapstructure:"entrez"`
	UniProt string `mapstructure:"uniprot"`
	RCSB    string `mapstructure:"rcsb"`
	TenX    string `mapstructure:"tenx"`
}

// S3Config describes the optional bucket used by `seeddata publish`.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	Prefix          string `mapstructure:"prefix"`
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// Config represents the structure of the configuration file
type Config struct {
	Version       string        `mapstructure:"version"`
	DataDir       string        `mapstructure:"data_dir"`
	UserAgent     string        `mapstructure:"user_agent"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	StreamTimeout time.Duration `mapstructure:"stream_timeout"`
	EntrezDelay   time.Duration `mapstructure:"entrez_delay"`
	Seed          uint64        `mapstructure:"seed"`
	Debug         bool          `mapstructure:"debug"`
	Endpoints     Endpoints     `mapstructure:"endpoints"`
	S3            S3Config      `mapstructure:"s3"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:       "1.0.0",
	DataDir:       "data",
	UserAgent:     "BioNotebook/1.0",
	HTTPTimeout:   60 * time.Second,
	StreamTimeout: 120 * time.Second,
	EntrezDelay:   500 * time.Millisecond,
	Seed:          42,
	Debug:         false,
	Endpoints: Endpoints{
		Entrez:  "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		UniProt: "https://rest.uniprot.org",
		RCSB:    "https://files.rcsb.org",
		TenX:    "https://cf.10xgenomics.com",
	},
	S3: S3Config{
		Region: "us-east-1",
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if t := GetConfigFileType(cfgFile); t != "" {
			v.SetConfigType(t)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("seeddata-config")
		v.AddConfigPath(cwd)

		// Support both JSON and YAML formats
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Gray.Render("No configuration file found, using defaults"))
			}
		}
	}

	if rootCmd != nil {
		bindFlags(v, rootCmd)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if !filepath.IsAbs(config.DataDir) {
		config.DataDir = filepath.Join(cwd, config.DataDir)
	}

	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("data_dir", DefaultConfig.DataDir)
	v.SetDefault("user_agent", DefaultConfig.UserAgent)
	v.SetDefault("http_timeout", DefaultConfig.HTTPTimeout)
	v.SetDefault("stream_timeout", DefaultConfig.StreamTimeout)
	v.SetDefault("entrez_delay", DefaultConfig.EntrezDelay)
	v.SetDefault("seed", DefaultConfig.Seed)
	v.SetDefault("debug", DefaultConfig.Debug)
	v.SetDefault("endpoints.entrez", DefaultConfig.Endpoints.Entrez)
	v.SetDefault("endpoints.uniprot", DefaultConfig.Endpoints.UniProt)
	v.SetDefault("endpoints.rcsb", DefaultConfig.Endpoints.RCSB)
	v.SetDefault("endpoints.tenx", DefaultConfig.Endpoints.TenX)
	v.SetDefault("s3.bucket", DefaultConfig.S3.Bucket)
	v.SetDefault("s3.region", DefaultConfig.S3.Region)
	v.SetDefault("s3.endpoint", DefaultConfig.S3.Endpoint)
	v.SetDefault("s3.prefix", DefaultConfig.S3.Prefix)
	v.SetDefault("s3.path_style", DefaultConfig.S3.PathStyle)
	v.SetDefault("s3.access_key_id", DefaultConfig.S3.AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultConfig.S3.SecretAccessKey)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("data_dir", "SEEDDATA_DATA_DIR")
	_ = v.BindEnv("user_agent", "SEEDDATA_USER_AGENT")
	_ = v.BindEnv("http_timeout", "SEEDDATA_HTTP_TIMEOUT")
	_ = v.BindEnv("stream_timeout", "SEEDDATA_STREAM_TIMEOUT")
	_ = v.BindEnv("entrez_delay", "SEEDDATA_ENTREZ_DELAY")
	_ = v.BindEnv("seed", "SEEDDATA_SEED")
	_ = v.BindEnv("debug", "SEEDDATA_DEBUG")
	_ = v.BindEnv("endpoints.entrez", "SEEDDATA_ENDPOINTS_ENTREZ")
	_ = v.BindEnv("endpoints.uniprot", "SEEDDATA_ENDPOINTS_UNIPROT")
	_ = v.BindEnv("endpoints.rcsb", "SEEDDATA_ENDPOINTS_RCSB")
	_ = v.BindEnv("endpoints.tenx", "SEEDDATA_ENDPOINTS_TENX")
	_ = v.BindEnv("s3.bucket", "SEEDDATA_S3_BUCKET")
	_ = v.BindEnv("s3.region", "SEEDDATA_S3_REGION")
	_ = v.BindEnv("s3.endpoint", "SEEDDATA_S3_ENDPOINT")
	_ = v.BindEnv("s3.prefix", "SEEDDATA_S3_PREFIX")
	_ = v.BindEnv("s3.path_style", "SEEDDATA_S3_PATH_STYLE")
	_ = v.BindEnv("s3.access_key_id", "SEEDDATA_S3_ACCESS_KEY_ID")
	_ = v.BindEnv("s3.secret_access_key", "SEEDDATA_S3_SECRET_ACCESS_KEY")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	bind := func(key, flag string) {
		if f := flags.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	bind("data_dir", "data_dir")
	bind("user_agent", "user_agent")
	bind("http_timeout", "http_timeout")
	bind("seed", "seed")
	bind("debug", "debug")
	bind("s3.bucket", "bucket")
	bind("s3.prefix", "prefix")
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().StringP("data_dir", "d", DefaultConfig.DataDir, "Root directory for notebook datasets (one sub-directory per notebook).")
	rootCmd.PersistentFlags().String("user_agent", DefaultConfig.UserAgent, "User-Agent header sent to every remote repository.")
	rootCmd.PersistentFlags().Duration("http_timeout", DefaultConfig.HTTPTimeout, "Timeout for a single remote fetch.")
	rootCmd.PersistentFlags().Uint64("seed", DefaultConfig.Seed, "Seed for the synthetic data generators.")
	rootCmd.PersistentFlags().Bool("debug", DefaultConfig.Debug, "Enable debug logging.")
	rootCmd.PersistentFlags().String("bucket", DefaultConfig.S3.Bucket, "S3 bucket used by the publish command.")
	rootCmd.PersistentFlags().String("prefix", DefaultConfig.S3.Prefix, "Object key prefix used by the publish command.")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// ConfigFilePath returns the configuration file that LoadConfigs would read, or "" if none.
func ConfigFilePath(cwd string) string {
	if cfgFile != "" {
		return cfgFile
	}
	for _, name := range []string{"seeddata-config.yaml", "seeddata-config.yml", "seeddata-config.json"} {
		p := filepath.Join(cwd, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
