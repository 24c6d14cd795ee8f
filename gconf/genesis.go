package gconf

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// Initializer loads configurations of all registered packages from the
// genesis "conf" section.
type Initializer struct {
	// Confs maps a package name to a constructor of its configuration.
	Confs map[string]func() Configuration
	// Optional lists packages that may be missing from the genesis.
	Optional map[string]bool
}

var _ testament.Initializer = Initializer{}

// FromGenesis will parse and save every declared configuration.
func (i Initializer) FromGenesis(opts testament.Options, db testament.KVStore) error {
	for pkg, newConf := range i.Confs {
		err := InitConfig(db, opts, pkg, newConf())
		switch {
		case err == nil:
		case errors.ErrNotFound.Is(err) && i.Optional[pkg]:
		default:
			return err
		}
	}
	return nil
}
