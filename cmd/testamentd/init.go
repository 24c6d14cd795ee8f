package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// InitCmd writes the application state into the genesis file of a
// tendermint home directory. The genesis file must already exist, it is
// created by "tendermint init".
func InitCmd(logger log.Logger, home string, args []string) error {
	fl := flag.NewFlagSet("init", flag.ExitOnError)
	ownerFl := fl.String("owner", "", "Owner of the router and whitelist configuration. A new key is generated if empty.")
	chainFl := fl.Uint64("chain", 1, "Chain id signed into will attestations.")
	amountFl := fl.Uint64("amount", 1000000, "Native funds given to the owner.")
	if err := fl.Parse(args); err != nil {
		return err
	}

	var owner testament.Address
	if *ownerFl == "" {
		key, err := crypto.GenerateKey()
		if err != nil {
			return err
		}
		owner = key.Address()
		logger.Info("Generated owner key", "address", owner, "secret", key.Hex())
	} else {
		addr, err := testament.ParseAddress(*ownerFl)
		if err != nil {
			return errors.Wrap(err, "owner")
		}
		owner = addr
	}

	opts, err := GenInitOptions(owner, *chainFl, *amountFl)
	if err != nil {
		return err
	}
	genFile := filepath.Join(home, "config", "genesis.json")
	if err := addGenesisOptions(genFile, opts); err != nil {
		return err
	}
	logger.Info("Genesis file updated", "path", genFile)
	return nil
}

// GenInitOptions returns the application state of a development chain with
// one funded account that owns every configuration.
func GenInitOptions(owner testament.Address, chainID, amount uint64) (json.RawMessage, error) {
	opts := fmt.Sprintf(`
	{
	  "conf": {
	    "router": {"owner": %q, "fee_receiver": %q, "chain_id": %d},
	    "whitelist": {"owner": %q}
	  },
	  "bank": {
	    "balances": [
	      {"asset": "native", "holder": %q, "amount": "%d"}
	    ]
	  },
	  "whitelist": {"assets": []}
	}`, owner, owner, chainID, owner, owner, amount)
	return []byte(opts), nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filename, out, 0600)
}
