package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"github.com/yours-lab/backend/internal/middleware"
	"github.com/yours-lab/backend/pkg/router"
	"github.com/yours-lab/backend/pkg/xcontext"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadEndpoint()
	s.loadStorage()
	s.loadChains()
	s.loadRepos()
	s.loadDomains(ct.Context)
	s.loadRouter()

	workerCtx, stopWorker := context.WithCancel(ct.Context)
	defer stopWorker()
	go s.settleWorker.Start(s.workerContext(workerCtx))

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

// workerContext carries the same db, configs and logger the request
// contexts do, for code running outside a request.
func (s *srv) workerContext(ctx context.Context) context.Context {
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithSnowFlake(ctx, s.router.SnowFlake())
	return ctx
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Login is the only call that works without a token.
	router.POST(s.router, "/api/auth", s.authDomain.Login)

	// Optional auth: a token personalizes the result when present.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.ParseToken())
	{
		router.GET(publicRouter, "/api/nft/detail", s.nftDomain.GetDetail)
		router.GET(publicRouter, "/api/nft/owners", s.nftDomain.GetOwners)
		router.GET(publicRouter, "/api/nft/reward/detail", s.nftDomain.GetBenefitDetail)
		router.GET(publicRouter, "/api/market/list", s.marketDomain.GetList)
		router.GET(publicRouter, "/api/market/detail", s.marketDomain.GetDetail)
		router.GET(publicRouter, "/api/market/others", s.marketDomain.GetOthers)
		router.GET(publicRouter, "/api/search", s.searchDomain.Search)
	}

	authRouter := s.router.Branch()
	authRouter.Before(middleware.ParseToken())
	authRouter.Before(middleware.Authenticate())
	{
		router.GET(authRouter, "/api/auth/token", s.authDomain.VerifyToken)

		// SMS verification API
		router.POST(authRouter, "/api/sms/send", s.smsDomain.SendCode)
		router.POST(authRouter, "/api/sms/verify", s.smsDomain.VerifyCode)

		// User API
		router.GET(authRouter, "/api/user/profile", s.userDomain.GetProfile)
		router.PATCH(authRouter, "/api/user/profile", s.userDomain.UpdateProfile)
		router.GET(authRouter, "/api/user/wallet", s.userDomain.GetWallets)
		router.POST(authRouter, "/api/user/wallet", s.userDomain.RegisterWallet)
		router.POST(authRouter, "/api/user/yrp/charge", s.userDomain.ChargeYrp)
		router.GET(authRouter, "/api/user/yrp/ledger", s.userDomain.GetYrpLedger)
		router.GET(authRouter, "/api/user/yrp/detail", s.userDomain.GetYrpDetail)

		// NFT API
		router.POST(authRouter, "/api/nft", s.nftDomain.Create)
		router.GET(authRouter, "/api/nft", s.nftDomain.GetList)
		router.POST(authRouter, "/api/nft/publish", s.nftDomain.Publish)
		router.PATCH(authRouter, "/api/nft/benefit", s.nftDomain.UpdateBenefitURI)
		router.POST(authRouter, "/api/nft/reward", s.nftDomain.CreateBenefit)
		router.PATCH(authRouter, "/api/nft/reward", s.nftDomain.UpdateBenefit)
		router.DELETE(authRouter, "/api/nft/reward", s.nftDomain.DeleteBenefit)
		router.POST(authRouter, "/api/nft/email", s.nftDomain.SendAuthMail)
		router.POST(authRouter, "/api/nft/verify-email", s.nftDomain.VerifyMail)
		router.POST(authRouter, "/api/nft/verification", s.nftDomain.RequestVerification)
		router.POST(authRouter, "/api/nft/transfer", s.nftDomain.Transfer)

		// Integrated NFT API
		router.GET(authRouter, "/api/nft/integrated", s.nftDomain.GetIntegratedList)
		router.GET(authRouter, "/api/nft/integrated/detail", s.nftDomain.GetIntegratedDetail)
		router.POST(authRouter, "/api/nft/integrated", s.nftDomain.CreateIntegrated)
		router.PATCH(authRouter, "/api/nft/integrated", s.nftDomain.UpdateIntegrated)
		router.DELETE(authRouter, "/api/nft/integrated", s.nftDomain.DeleteIntegrated)

		// External NFT API
		router.POST(authRouter, "/api/nft/external", s.nftDomain.TakeExternal)
		router.POST(authRouter, "/api/nft/external/mint", s.nftDomain.MintExternal)

		// Market API
		router.POST(authRouter, "/api/market/sell", s.marketDomain.Sell)
		router.POST(authRouter, "/api/market/buy", s.marketDomain.Buy)
		router.POST(authRouter, "/api/market/like", s.marketDomain.Like)
		router.DELETE(authRouter, "/api/market/like", s.marketDomain.Unlike)

		// File API
		router.POST(authRouter, "/api/upload", s.fileDomain.UploadImage)
	}

	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.ParseToken())
	adminRouter.Before(middleware.Authenticate())
	adminRouter.Before(middleware.OnlyAdmin(s.userRepo))
	{
		router.GET(adminRouter, "/api/admin/request", s.adminDomain.GetVerifyRequests)
		router.PUT(adminRouter, "/api/admin/request", s.adminDomain.ResolveVerifyRequest)
		router.GET(adminRouter, "/api/admin/reward", s.adminDomain.GetDraftBenefits)
		router.GET(adminRouter, "/api/admin/reward/detail", s.adminDomain.GetDraftBenefitDetail)
	}
}
