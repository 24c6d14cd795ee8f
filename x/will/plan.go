package will

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/samber/lo"
)

// plan is a validated distribution plan, ready to replace the plan of a
// will.
type plan struct {
	entries       []*DistributionEntry
	beneficiaries []testament.Address
	assets        []testament.Address
}

// buildPlan validates configuration rows against the current plan of the
// will. For a repeated (asset, user) pair the last value wins. A zero
// percent clears a pair and is accepted only if that pair is part of the
// current plan or was set earlier in the rows.
func (c *Controller) buildPlan(db testament.ReadOnlyKVStore, w *Will, rows []*Distribution) (*plan, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrEmptyArray, "no distributions")
	}

	var (
		entries []*DistributionEntry
		users   []testament.Address
		assets  []testament.Address
	)
	for i, row := range rows {
		if len(row.Assets) != len(row.Percents) {
			return nil, errors.Wrapf(ErrTwoArraysLengthMismatch, "distribution %d: %d assets, %d percents", i, len(row.Assets), len(row.Percents))
		}
		if len(row.Assets) == 0 {
			return nil, errors.Wrapf(ErrEmptyArray, "distribution %d has no assets", i)
		}
		if err := c.checkBeneficiary(db, w, row.User); err != nil {
			return nil, err
		}
		if !containsAddress(users, row.User) {
			users = append(users, row.User)
		}

		for j, asset := range row.Assets {
			if err := c.checkAsset(db, asset); err != nil {
				return nil, err
			}
			if !containsAddress(assets, asset) {
				assets = append(assets, asset)
			}

			percent := row.Percents[j]
			if percent > 100 {
				return nil, errors.Wrapf(ErrInvalidPercent, "%d%% of %s for %s", percent, asset, row.User)
			}
			_, idx, found := lo.FindIndexOf(entries, func(e *DistributionEntry) bool {
				return e.Asset.Equals(asset) && e.Beneficiary.Equals(row.User)
			})
			switch {
			case percent == 0 && found:
				entries = append(entries[:idx], entries[idx+1:]...)
			case percent == 0 && w.Percent(asset, row.User) > 0:
				// Not carried over from the current plan.
			case percent == 0:
				return nil, errors.Wrapf(ErrInvalidPercent, "zero percent of %s for %s", asset, row.User)
			case found:
				entries[idx].Percent = percent
			default:
				entries = append(entries, &DistributionEntry{
					Asset:       asset,
					Beneficiary: row.User,
					Percent:     percent,
				})
			}
		}
	}

	p := plan{
		entries: entries,
		beneficiaries: lo.Filter(users, func(u testament.Address, _ int) bool {
			return lo.ContainsBy(entries, func(e *DistributionEntry) bool { return e.Beneficiary.Equals(u) })
		}),
		assets: lo.Filter(assets, func(a testament.Address, _ int) bool {
			return lo.ContainsBy(entries, func(e *DistributionEntry) bool { return e.Asset.Equals(a) })
		}),
	}
	if len(p.beneficiaries) == 0 {
		return nil, errors.Wrap(ErrEmptyArray, "no beneficiaries")
	}

	for _, asset := range p.assets {
		total := lo.SumBy(entries, func(e *DistributionEntry) uint32 {
			if e.Asset.Equals(asset) {
				return e.Percent
			}
			return 0
		})
		if total > 100 {
			return nil, errors.Wrapf(ErrInvalidPercent, "%s distributed at %d%%", asset, total)
		}
		if w.Kind == Forwarding && total != 100 {
			return nil, errors.Wrapf(ErrTotalPercentInvalid, "%s distributed at %d%%", asset, total)
		}
	}
	return &p, nil
}

func (c *Controller) checkBeneficiary(db testament.ReadOnlyKVStore, w *Will, user testament.Address) error {
	if err := user.Validate(); err != nil || user.IsZero() {
		return errors.Wrap(ErrBeneficiaryInvalid, "invalid address")
	}
	if user.Equals(w.Owner) {
		return errors.Wrapf(ErrBeneficiaryInvalid, "%s is the owner", user)
	}
	// The will and its guard are registered as contracts only after the
	// plan is built.
	if user.Equals(w.Address) || user.Equals(w.Guard) || user.Equals(w.Safe) {
		return errors.Wrapf(ErrBeneficiaryInvalid, "%s belongs to the will", user)
	}
	isContract, err := c.bank.IsContract(db, user)
	if err != nil {
		return err
	}
	if isContract {
		return errors.Wrapf(ErrBeneficiaryInvalid, "%s is a contract", user)
	}
	if w.Kind == Forwarding {
		isOwner, err := c.wallets.IsOwner(db, w.Safe, user)
		if err != nil {
			return err
		}
		if isOwner {
			return errors.Wrapf(ErrBeneficiaryInvalid, "%s is a signer of the wallet", user)
		}
	}
	return nil
}

func (c *Controller) checkAsset(db testament.ReadOnlyKVStore, asset testament.Address) error {
	if err := asset.Validate(); err != nil {
		return errors.Wrap(ErrERC20NotInWhitelist, "invalid asset address")
	}
	ok, err := c.whitelist.IsWhitelisted(db, asset)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(ErrERC20NotInWhitelist, "%s", asset)
	}
	return nil
}

// checkExtra validates the activation conditions against the number of
// beneficiaries. A zero limit means no limit.
func checkExtra(extra *ExtraConfig, beneficiaries int, limit uint32) error {
	if limit > 0 && beneficiaries > int(limit) {
		return errors.Wrapf(ErrBeneficiaryLimitExceeded, "%d beneficiaries, limit %d", beneficiaries, limit)
	}
	if min := extra.GetMinRequiredSignatures(); min == 0 || int(min) > beneficiaries {
		return errors.Wrapf(ErrMinRequiredSignaturesInvalid, "%d of %d beneficiaries", min, beneficiaries)
	}
	if extra.GetLackOfOutgoingTxRange() <= 0 {
		return errors.Wrap(ErrActivationTriggerInvalid, "dormancy window must be positive")
	}
	return nil
}

// apply replaces the plan of the will. Attestations of users that are no
// longer beneficiaries are dropped.
func (p *plan) apply(w *Will) {
	w.Entries = p.entries
	w.Beneficiaries = p.beneficiaries
	w.Assets = p.assets
	w.Signers = lo.Filter(w.Signers, func(s testament.Address, _ int) bool {
		return containsAddress(p.beneficiaries, s)
	})
}

// EqualSplit returns configuration rows giving every beneficiary an equal
// part of each asset. Each beneficiary receives floor(100/n) percent and
// the first 100 mod n beneficiaries one percent more, so that every asset
// is distributed at exactly 100%. Repeated beneficiaries are collapsed.
func EqualSplit(beneficiaries, assets []testament.Address) []*Distribution {
	beneficiaries = lo.UniqBy(beneficiaries, addressKey)
	n := uint32(len(beneficiaries))
	if n == 0 {
		return nil
	}
	rows := make([]*Distribution, 0, n)
	for i, b := range beneficiaries {
		percent := 100 / n
		if uint32(i) < 100%n {
			percent++
		}
		rows = append(rows, &Distribution{
			User:     b,
			Assets:   assets,
			Percents: lo.Times(len(assets), func(int) uint32 { return percent }),
		})
	}
	return rows
}
