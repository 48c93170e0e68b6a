package types

import (
	"cosmossdk.io/errors"
)

// Vault sentinel errors
var (
	ErrInvalidParams = errors.Register(ModuleName, 2, "invalid vault params")
	ErrInvalidState  = errors.Register(ModuleName, 3, "invalid vault state")
	ErrUnauthorized  = errors.Register(ModuleName, 4, "unauthorized")

	ErrExistingVault                 = errors.Register(ModuleName, 10, "vault already exists")
	ErrNonExistentVault              = errors.Register(ModuleName, 11, "vault does not exist")
	ErrAssetMismatch                 = errors.Register(ModuleName, 12, "asset does not match the vault")
	ErrInvalidVaultCreationFee       = errors.Register(ModuleName, 13, "invalid vault creation fee")
	ErrInvalidFees                   = errors.Register(ModuleName, 14, "invalid vault fees")
	ErrInvalidInitialLiquidityAmount = errors.Register(ModuleName, 15, "initial liquidity must exceed the minimum liquidity amount")
	ErrInsufficientAssetBalance      = errors.Register(ModuleName, 16, "insufficient vault asset balance")
	ErrFlashLoanNotRepaid            = errors.Register(ModuleName, 17, "flash loan not repaid")
	ErrFlashLoanLoss                 = errors.Register(ModuleName, 18, "vault balances decreased during flash loan")
	ErrFlashLoanOngoing              = errors.Register(ModuleName, 19, "a flash loan is in progress")
	ErrDepositsDisabled              = errors.Register(ModuleName, 20, "deposits are disabled")
	ErrWithdrawalsDisabled           = errors.Register(ModuleName, 21, "withdrawals are disabled")
	ErrFlashLoansDisabled            = errors.Register(ModuleName, 22, "flash loans are disabled")
	ErrInvalidAmount                 = errors.Register(ModuleName, 23, "invalid amount")
	ErrInvalidIdentifier             = errors.Register(ModuleName, 24, "invalid vault identifier")
)
