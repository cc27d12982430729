package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yours-lab/backend/internal/model"
	"github.com/yours-lab/backend/internal/repository"
	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/testutil"
)

func Test_searchDomain_Search(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := NewSearchDomain(repository.NewNftRepository(), repository.NewUserRepository())

	resp, err := domain.Search(ctx, &model.SearchRequest{Keyword: "Membership"})
	require.NoError(t, err)
	require.Len(t, resp.Nfts, 1)
	require.Equal(t, testutil.DeployedNft.Name, resp.Nfts[0].Name)
	require.Empty(t, resp.Users)

	resp, err = domain.Search(ctx, &model.SearchRequest{Keyword: "collector"})
	require.NoError(t, err)
	require.Empty(t, resp.Nfts)
	require.Len(t, resp.Users, 1)
	require.Equal(t, testutil.User2.ID, resp.Users[0].ID)
}

func Test_searchDomain_Search_emptyKeyword(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := NewSearchDomain(repository.NewNftRepository(), repository.NewUserRepository())
	_, err := domain.Search(ctx, &model.SearchRequest{Keyword: "   "})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_searchDomain_Search_limit(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	domain := NewSearchDomain(repository.NewNftRepository(), repository.NewUserRepository())
	_, err := domain.Search(ctx, &model.SearchRequest{Keyword: "card", Limit: 1000})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}
