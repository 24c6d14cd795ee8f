/*
Package whitelist keeps the admin curated set of fungible assets that can be
part of a will distribution. The native asset is always eligible and never
stored.
*/
package whitelist

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x/bank"
)

// PackageName is the configuration and route prefix of this extension.
const PackageName = "whitelist"

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	return errors.AppendField(nil, "Owner", c.Owner.Validate())
}

func (c *Configuration) GetOwner() testament.Address {
	return c.Owner
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

var _ orm.Model = (*Asset)(nil)

func (a *Asset) Validate() error {
	if err := a.Address.Validate(); err != nil {
		return errors.Field("Address", err, "")
	}
	if bank.IsNative(a.Address) {
		return errors.Field("Address", errors.ErrInput, "native asset is always allowed")
	}
	return nil
}

// NewBucket returns the bucket of whitelisted assets.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("wlasset", &Asset{})
}

// IsWhitelisted returns true if the asset can be used in a distribution.
func IsWhitelisted(db testament.ReadOnlyKVStore, asset testament.Address) (bool, error) {
	if bank.IsNative(asset) {
		return true, nil
	}
	switch err := NewBucket().Has(db, asset); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Checker is the read side of the whitelist used by other extensions.
type Checker interface {
	IsWhitelisted(db testament.ReadOnlyKVStore, asset testament.Address) (bool, error)
}

// StoreChecker reads the whitelist bucket.
type StoreChecker struct{}

var _ Checker = StoreChecker{}

func (StoreChecker) IsWhitelisted(db testament.ReadOnlyKVStore, asset testament.Address) (bool, error) {
	return IsWhitelisted(db, asset)
}

func setAllowed(db testament.KVStore, asset testament.Address, allowed bool) error {
	b := NewBucket()
	if allowed {
		_, err := b.Put(db, asset, &Asset{Address: asset})
		return err
	}
	if err := b.Delete(db, asset); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
