package app

import (
	"encoding/json"

	"github.com/iov-one/testament/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Genesis is the part of the tendermint genesis file the application reads.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads a tendermint genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	doc, err := tmtypes.GenesisDocFromFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &Genesis{ChainID: doc.ChainID, AppState: doc.AppState}, nil
}

// InitChainRequest returns the request tendermint sends on the first start
// of the chain.
func (g *Genesis) InitChainRequest() abci.RequestInitChain {
	return abci.RequestInitChain{
		ChainId:       g.ChainID,
		AppStateBytes: g.AppState,
	}
}
