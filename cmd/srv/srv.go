package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/yours-lab/backend/config"
	"github.com/yours-lab/backend/internal/chain"
	"github.com/yours-lab/backend/internal/chain/aptos"
	"github.com/yours-lab/backend/internal/chain/evm"
	"github.com/yours-lab/backend/internal/client"
	"github.com/yours-lab/backend/internal/domain"
	"github.com/yours-lab/backend/internal/domain/settle"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/api/ipfs"
	"github.com/yours-lab/backend/pkg/authenticator"
	"github.com/yours-lab/backend/pkg/code"
	"github.com/yours-lab/backend/pkg/logger"
	"github.com/yours-lab/backend/pkg/router"
	"github.com/yours-lab/backend/pkg/storage"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	userRepo       repository.UserRepository
	walletRepo     repository.UserWalletRepository
	nftRepo        repository.NftRepository
	benefitRepo    repository.BenefitRepository
	ownedRepo      repository.OwnedNftRepository
	integratedRepo repository.IntegratedNftRepository
	orderRepo      repository.MarketOrderRepository
	likedRepo      repository.LikedOrderRepository
	pointRepo      repository.PointRepository
	verifyRepo     repository.VerifyRequestRepository
	approvalRepo   repository.SellApprovalRepository
	taskRepo       repository.ChainTaskRepository

	chains      *chain.Manager
	metadata    ipfs.IEndpoint
	fileStorage storage.Storage
	codeStore   code.Store
	notifier    client.Notifier
	mailSender  client.MailSender

	authDomain   domain.AuthDomain
	userDomain   domain.UserDomain
	nftDomain    domain.NftDomain
	marketDomain domain.MarketDomain
	adminDomain  domain.AdminDomain
	searchDomain domain.SearchDomain
	smsDomain    domain.SmsDomain
	fileDomain   domain.FileDomain

	settleWorker *settle.Worker

	router *router.Router
	server *http.Server
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			AllowCORS:    strings.Split(getEnv("ALLOW_CORS", "http://localhost:3000"), ","),
			MaxLimit:     getEnvInt("API_MAX_LIMIT", 50),
			DefaultLimit: getEnvInt("API_DEFAULT_LIMIT", 10),
		},
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			Database: getEnv("MYSQL_DATABASE", "yours"),
			User:     getEnv("MYSQL_USER", "yours"),
			Password: getEnv("MYSQL_PASSWORD", "secret"),
		},
		Auth: config.AuthConfigs{
			TokenSecret: getEnv("TOKEN_SECRET", "token_secret"),
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: getEnvDuration("ACCESS_TOKEN_DURATION", 24*time.Hour),
			},
			Google: config.OAuth2Config{
				Name:     "google",
				Issuer:   "https://accounts.google.com",
				ClientID: getEnv("OAUTH2_GOOGLE_CLIENT_ID", ""),
			},
			Kakao: config.OAuth2Config{
				Name:     "kakao",
				Issuer:   "https://kauth.kakao.com",
				ClientID: getEnv("OAUTH2_KAKAO_CLIENT_ID", ""),
			},
		},
		Session: config.SessionConfigs{
			Secret: getEnv("SESSION_SECRET", "session_secret"),
			Name:   "yours_session",
		},
		Redis: config.RedisConfigs{
			Addr:               getEnv("REDIS_ADDR", "localhost:6379"),
			Password:           getEnv("REDIS_PASSWORD", ""),
			AuthCodeExpiration: getEnvDuration("AUTH_CODE_DURATION", 5*time.Minute),
		},
		Storage: config.S3Configs{
			Region:         getEnv("STORAGE_REGION", "auto"),
			Endpoint:       getEnv("STORAGE_ENDPOINT", "http://localhost:9000"),
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", "http://localhost:9000"),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:         getEnv("STORAGE_BUCKET", "yours"),
			SSLDisabled:    getEnv("STORAGE_SSL_DISABLED", "false") == "true",
		},
		File: config.FileConfigs{
			MaxSize:          int64(getEnvInt("MAX_UPLOAD_SIZE", 2)) << 20,
			AvatarCropWidth:  uint(getEnvInt("AVATAR_CROP_WIDTH", 512)),
			AvatarCropHeight: uint(getEnvInt("AVATAR_CROP_HEIGHT", 512)),
		},
		Metadata: config.MetadataConfigs{
			Endpoint:       getEnv("IPFS_ENDPOINT", "https://ipfs.infura.io:5001"),
			GatewayBaseURL: getEnv("IPFS_GATEWAY", "https://ipfs.io/ipfs"),
			ProjectID:      getEnv("IPFS_PROJECT_ID", ""),
			ProjectSecret:  getEnv("IPFS_PROJECT_SECRET", ""),
		},
		Notification: config.NotificationConfigs{
			Endpoint:  getEnv("NOTIFICATION_ENDPOINT", "https://api-alimtalk.cloud.toast.com"),
			AppKey:    getEnv("NOTIFICATION_APP_KEY", ""),
			SecretKey: getEnv("NOTIFICATION_SECRET_KEY", ""),
			SenderKey: getEnv("NOTIFICATION_SENDER_KEY", ""),
			SenderNo:  getEnv("NOTIFICATION_SENDER_NO", ""),
		},
		Crypto: config.CryptoConfigs{
			Key: getEnv("AES_KEY", ""),
		},
		Chain: config.ChainConfigs{
			Evm:   loadEvmChains(),
			Aptos: loadAptosChain(),
		},
	}
}

// loadEvmChains reads one config block per chain name listed in
// EVM_CHAINS, e.g. EVM_CHAINS=ethereum,polygon with ETHEREUM_RPC,
// ETHEREUM_CHAIN_ID and so on.
func loadEvmChains() map[string]config.EvmChainConfig {
	chains := map[string]config.EvmChainConfig{}
	for _, name := range strings.Split(os.Getenv("EVM_CHAINS"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		prefix := strings.ToUpper(name)
		chains[name] = config.EvmChainConfig{
			Chain:              name,
			RPC:                os.Getenv(prefix + "_RPC"),
			ChainID:            int64(getEnvInt(prefix+"_CHAIN_ID", 0)),
			UseEip1559:         os.Getenv(prefix+"_USE_EIP1559") == "true",
			WalletPrivateKey:   os.Getenv(prefix + "_WALLET_PRIVATE_KEY"),
			WalletAddress:      os.Getenv(prefix + "_WALLET_ADDRESS"),
			FactoryAddress:     os.Getenv(prefix + "_FACTORY_ADDRESS"),
			MarketplaceAddress: os.Getenv(prefix + "_MARKETPLACE_ADDRESS"),
			BlockTime:          getEnvDuration(prefix+"_BLOCK_TIME", 3*time.Second),
		}
	}

	return chains
}

func loadAptosChain() config.AptosChainConfig {
	return config.AptosChainConfig{
		NodeURL:          getEnv("APTOS_NODE_URL", ""),
		WalletAddress:    getEnv("APTOS_WALLET_ADDRESS", ""),
		WalletPrivateKey: getEnv("APTOS_WALLET_PRIVATE_KEY", ""),
		CollectionName:   getEnv("APTOS_COLLECTION_NAME", "yours"),
	}
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(getEnv("LOG_LEVEL", "INFO")))
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadEndpoint() {
	s.metadata = ipfs.New(s.configs.Metadata)
	s.notifier = client.NewNotifier(s.configs.Notification)
	s.mailSender = client.NewMailSender(s.configs.Notification)
	s.codeStore = code.NewRedisStore(s.configs.Redis)
}

func (s *srv) loadStorage() {
	s.fileStorage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadChains() {
	adapters := []chain.Adapter{}
	for _, cfg := range s.configs.Chain.Evm {
		adapter, err := evm.NewAdapter(cfg)
		if err != nil {
			panic(err)
		}

		adapters = append(adapters, adapter)
	}

	if s.configs.Chain.Aptos.NodeURL != "" {
		adapter, err := aptos.NewAdapter(s.configs.Chain.Aptos)
		if err != nil {
			panic(err)
		}

		adapters = append(adapters, adapter)
	}

	s.chains = chain.NewManager(adapters...)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.walletRepo = repository.NewUserWalletRepository()
	s.nftRepo = repository.NewNftRepository()
	s.benefitRepo = repository.NewBenefitRepository()
	s.ownedRepo = repository.NewOwnedNftRepository()
	s.integratedRepo = repository.NewIntegratedNftRepository()
	s.orderRepo = repository.NewMarketOrderRepository()
	s.likedRepo = repository.NewLikedOrderRepository()
	s.pointRepo = repository.NewPointRepository()
	s.verifyRepo = repository.NewVerifyRequestRepository()
	s.approvalRepo = repository.NewSellApprovalRepository()
	s.taskRepo = repository.NewChainTaskRepository()
}

func (s *srv) loadDomains(ctx context.Context) {
	oauth2Services := []authenticator.IOAuth2Service{}
	for _, cfg := range []config.OAuth2Config{s.configs.Auth.Google, s.configs.Auth.Kakao} {
		if cfg.ClientID == "" {
			continue
		}

		service, err := authenticator.NewOAuth2Service(ctx, cfg)
		if err != nil {
			panic(err)
		}

		oauth2Services = append(oauth2Services, service)
	}

	s.authDomain = domain.NewAuthDomain(s.userRepo, oauth2Services)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.walletRepo, s.pointRepo)
	s.nftDomain = domain.NewNftDomain(
		s.nftRepo, s.benefitRepo, s.ownedRepo, s.integratedRepo, s.verifyRepo,
		s.walletRepo, s.userRepo, s.chains, s.metadata, s.notifier, s.mailSender,
		s.codeStore,
	)
	s.marketDomain = domain.NewMarketDomain(
		s.orderRepo, s.likedRepo, s.nftRepo, s.benefitRepo, s.ownedRepo,
		s.walletRepo, s.pointRepo, s.approvalRepo, s.taskRepo, s.chains,
	)
	s.adminDomain = domain.NewAdminDomain(
		s.verifyRepo, s.nftRepo, s.userRepo, s.walletRepo, s.ownedRepo,
		s.benefitRepo, s.chains, s.notifier,
	)
	s.searchDomain = domain.NewSearchDomain(s.nftRepo, s.userRepo)
	s.smsDomain = domain.NewSmsDomain(s.codeStore, s.notifier)
	s.fileDomain = domain.NewFileDomain(s.fileStorage)

	s.settleWorker = settle.NewWorker(s.taskRepo, s.orderRepo, s.ownedRepo, s.pointRepo, s.chains)
}
