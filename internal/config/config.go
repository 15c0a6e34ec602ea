package config

import (
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ZilDuck/elysium-marketplace/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Env             string
	Network         string
	Index           string
	Debug           bool
	LogPath         string
	Reindex         bool
	ApiPort         string
	HealthPort      string
	PersistInterval int

	Marketplace   MarketplaceConfig
	ElasticSearch ElasticSearchConfig
	Aws           AwsConfig
	Amqp          AmqpConfig
	Metadata      MetadataConfig
}

type MarketplaceConfig struct {
	Owner          string
	Address        string
	FactoryAddress string
	PlatformFee    string
	LockStripes    int
}

type ElasticSearchConfig struct {
	Enabled          bool
	Aws              bool
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
	QueryCacheTtl    int
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Token     string
	Region    string
}

type AmqpConfig struct {
	Uri string
}

type MetadataConfig struct {
	IpfsHosts   []string
	IpfsTimeout int
	Retries     int
}

var ipfsHosts = []string{
	"https://gateway.pinata.cloud",
	"https://cloudflare-ipfs.com",
	"https://gateway.ipfs.io",
}

// Init loads .env and the optional CONFIG_FILE, then installs the global logger.
// Environment variables take precedence over the config file.
func Init() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		zap.L().With(zap.Error(err)).Warn("Config: Unable to load .env")
	}

	viper.AutomaticEnv()
	if file, ok := os.LookupEnv("CONFIG_FILE"); ok && file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			zap.L().With(zap.Error(err), zap.String("file", file)).Fatal("Config: Unable to read config file")
		}
	}

	initLogger()
}

func initLogger() {
	log.NewLogger(Get().LogPath, Get().Debug)
}

func Get() *Config {
	return &Config{
		Env:             getString("ENV", "dev"),
		Network:         getString("NETWORK", "zilliqa"),
		Index:           getString("INDEX_NAME", "elysium"),
		Debug:           getBool("DEBUG", false),
		LogPath:         getString("LOG_PATH", ""),
		Reindex:         getBool("REINDEX", false),
		ApiPort:         getString("API_PORT", "8080"),
		HealthPort:      getString("HEALTH_PORT", "8081"),
		PersistInterval: getInt("PERSIST_INTERVAL", 5),
		Marketplace: MarketplaceConfig{
			Owner:          getString("MARKETPLACE_OWNER", ""),
			Address:        getString("MARKETPLACE_ADDRESS", ""),
			FactoryAddress: getString("FACTORY_ADDRESS", ""),
			PlatformFee:    getString("PLATFORM_FEE", "10"),
			LockStripes:    getInt("LOCK_STRIPES", 256),
		},
		ElasticSearch: ElasticSearchConfig{
			Enabled:          getBool("ELASTIC_SEARCH_ENABLED", true),
			Aws:              getBool("ELASTIC_SEARCH_AWS", false),
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", []string{"http://localhost:9200"}, ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", false),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "./mappings"),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
			QueryCacheTtl:    getInt("ELASTIC_SEARCH_QUERY_CACHE_TTL", 10),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Token:     getString("AWS_SESSION_TOKEN", ""),
			Region:    getString("AWS_REGION", ""),
		},
		Amqp: AmqpConfig{
			Uri: getString("AMQP_URI", ""),
		},
		Metadata: MetadataConfig{
			IpfsHosts:   getSlice("IPFS_HOSTS", ipfsHosts, ","),
			IpfsTimeout: getInt("IPFS_TIMEOUT", 10),
			Retries:     getInt("METADATA_RETRIES", 3),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	values := make([]string, 0)
	for _, v := range strings.Split(valStr, sep) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return values
}
