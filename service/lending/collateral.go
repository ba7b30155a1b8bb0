package lending

import (
	"context"

	"lendpool/core"
)

// SetUserUseAsCollateral count the caller's deposit of the asset as collateral or not.
// Disabling requires the account to stay healthy.
func (e *Engine) SetUserUseAsCollateral(ctx context.Context, assetID string, use bool) (err error) {
	op, ctx, err := e.begin(ctx, core.ActionTypeSetCollateral)
	if err != nil {
		return err
	}
	defer op.end(ctx, &err)

	user, err := op.user()
	if err != nil {
		return err
	}

	pool, err := op.pool(assetID)
	if err != nil {
		return err
	}

	if err := op.accrue(ctx, pool); err != nil {
		return err
	}

	pos := op.position(user, assetID)
	pos.CollateralDisabled = !use

	if !use {
		if err := op.requireHealthy(ctx, user); err != nil {
			return err
		}
	}

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyUseAsCollateral, use)
	op.emit(core.ActionTypeSetCollateral, user, assetID, nil, extra)
	return nil
}
