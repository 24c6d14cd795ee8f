package router

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
)

// Initializer loads the router configuration from the genesis:
//
//   "conf": {"router": {"owner": "0x...", "will_limit": 10, "chain_id": 1}}
type Initializer struct{}

var _ testament.Initializer = Initializer{}

func (Initializer) FromGenesis(opts testament.Options, db testament.KVStore) error {
	if err := gconf.InitConfig(db, opts, PackageName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}
	return nil
}
