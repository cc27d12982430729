package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Hand-bound ABIs of the platform contracts. Only the entry points the
// backend actually submits are declared.
const factoryABIJSON = `[
	{"type":"function","name":"deployNFT","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"metadataURI","type":"string"},{"name":"benefitURI","type":"string"}],"outputs":[]},
	{"type":"function","name":"deployWrappedNFT","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"origin","type":"address"}],"outputs":[]},
	{"type":"function","name":"mintIntegratedNFT","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"collections","type":"address[]"},{"name":"tokenIds","type":"uint256[]"}],"outputs":[]},
	{"type":"function","name":"updateIntegratedNFT","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"collections","type":"address[]"},{"name":"tokenIds","type":"uint256[]"}],"outputs":[]},
	{"type":"function","name":"burnIntegratedNFT","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"DeployNFT","anonymous":false,"inputs":[{"name":"nftAddress","type":"address","indexed":false}]},
	{"type":"event","name":"MintIntegratedNFT","anonymous":false,"inputs":[{"name":"tokenId","type":"uint256","indexed":false}]}
]`

const collectionABIJSON = `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"}],"outputs":[]},
	{"type":"function","name":"mintWrapped","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"originTokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setBenefitsURI","stateMutability":"nonpayable","inputs":[{"name":"benefitURI","type":"string"}],"outputs":[]},
	{"type":"function","name":"transferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable","inputs":[{"name":"operator","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"event","name":"Mint","anonymous":false,"inputs":[{"name":"mintId","type":"uint256","indexed":false}]},
	{"type":"event","name":"ChangeBenefitsURI","anonymous":false,"inputs":[{"name":"benefitURI","type":"string","indexed":false}]}
]`

const marketplaceABIJSON = `[
	{"type":"function","name":"registerSale","stateMutability":"nonpayable","inputs":[{"name":"collection","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"buyNFT","stateMutability":"nonpayable","inputs":[{"name":"collection","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"to","type":"address"}],"outputs":[]}
]`

var (
	factoryABI     abi.ABI
	collectionABI  abi.ABI
	marketplaceABI abi.ABI
)

func init() {
	var err error
	if factoryABI, err = abi.JSON(strings.NewReader(factoryABIJSON)); err != nil {
		panic(err)
	}
	if collectionABI, err = abi.JSON(strings.NewReader(collectionABIJSON)); err != nil {
		panic(err)
	}
	if marketplaceABI, err = abi.JSON(strings.NewReader(marketplaceABIJSON)); err != nil {
		panic(err)
	}
}
