package config

import (
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	DbName string `mapstructure:"POSTGRES_DB"`
	DbHost string `mapstructure:"POSTGRES_HOST"`
	DbPort string `mapstructure:"POSTGRES_PORT"`
	DbUser string `mapstructure:"POSTGRES_USER"`
	DbPas  string `mapstructure:"POSTGRES_PASSWORD"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"` // 逗號分隔
	KafkaTopic   string `mapstructure:"KAFKA_PURCHASE_TOPIC"`

	VnpPayURL     string `mapstructure:"VNP_PAY_URL"`
	VnpTmnCode    string `mapstructure:"VNP_TMN_CODE"`
	VnpHashSecret string `mapstructure:"VNP_HASH_SECRET"`
	VnpReturnURL  string `mapstructure:"VNP_RETURN_URL"`
}

// LoadConfig 讀取 .env 與環境變數。
// 設定載入一次後以值傳遞注入，不走 process-wide singleton。
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// .env 不存在時允許全部從環境變數來
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	if cf.ServerPort == "" {
		cf.ServerPort = "8080"
	}
	return cf, nil
}
