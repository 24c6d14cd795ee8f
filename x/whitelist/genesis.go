package whitelist

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
)

// Initializer loads the configuration and the initial whitelist:
//
//   "conf": {"whitelist": {"owner": "0x..."}},
//   "whitelist": {"assets": ["0x..."]}
type Initializer struct{}

var _ testament.Initializer = Initializer{}

func (Initializer) FromGenesis(opts testament.Options, db testament.KVStore) error {
	if err := gconf.InitConfig(db, opts, PackageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	var genesis struct {
		Assets []testament.Address `json:"assets"`
	}
	if err := opts.ReadOptions(PackageName, &genesis); err != nil {
		return err
	}
	for i, a := range genesis.Assets {
		if err := setAllowed(db, a, true); err != nil {
			return errors.Wrapf(err, "asset #%d", i)
		}
	}
	return nil
}
