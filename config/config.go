package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	ApiServer    ServerConfigs
	Database     DatabaseConfigs
	Auth         AuthConfigs
	Session      SessionConfigs
	Redis        RedisConfigs
	Storage      S3Configs
	File         FileConfigs
	Metadata     MetadataConfigs
	Notification NotificationConfigs
	Crypto       CryptoConfigs
	Chain        ChainConfigs
}

type ServerConfigs struct {
	Host         string
	Port         string
	AllowCORS    []string
	MaxLimit     int
	DefaultLimit int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs

	Google OAuth2Config
	Kakao  OAuth2Config
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type OAuth2Config struct {
	Name         string
	Issuer       string
	ClientID     string
	ClientSecret string
	IDField      string
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type RedisConfigs struct {
	Addr     string
	Password string

	// AuthCodeExpiration bounds how long an email/sms verification code
	// stays valid.
	AuthCodeExpiration time.Duration
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type FileConfigs struct {
	MaxSize          int64
	AvatarCropWidth  uint
	AvatarCropHeight uint
}

type MetadataConfigs struct {
	Endpoint       string
	GatewayBaseURL string
	ProjectID      string
	ProjectSecret  string
}

type NotificationConfigs struct {
	Endpoint  string
	AppKey    string
	SecretKey string
	SenderKey string
	SenderNo  string
}

type CryptoConfigs struct {
	// Key is the hex-encoded AES-256 key used for email verification
	// payloads.
	Key string
}

// ChainConfigs maps a chain name to its connection and contract setup. The
// set of keys defines which networks the server accepts in chain_type
// fields.
type ChainConfigs struct {
	Evm   map[string]EvmChainConfig
	Aptos AptosChainConfig
}

type EvmChainConfig struct {
	Chain              string
	RPC                string
	ChainID            int64
	UseEip1559         bool
	WalletPrivateKey   string
	WalletAddress      string
	FactoryAddress     string
	MarketplaceAddress string

	// BlockTime drives the receipt polling interval.
	BlockTime time.Duration
}

type AptosChainConfig struct {
	NodeURL          string
	WalletAddress    string
	WalletPrivateKey string
	CollectionName   string
}
