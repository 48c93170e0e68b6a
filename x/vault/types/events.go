package types

// Event types for the vault module
const (
	EventTypeCreateVault   = "create_vault"
	EventTypeDeposit       = "vault_deposit"
	EventTypeWithdraw      = "vault_withdraw"
	EventTypeFlashLoan     = "flash_loan"
	EventTypeFeesCollected = "vault_fees_collected"
)

// Attribute keys for the vault module
const (
	AttributeKeyIdentifier   = "vault_identifier"
	AttributeKeyAddress      = "address"
	AttributeKeyAsset        = "asset"
	AttributeKeyLpDenom      = "lp_denom"
	AttributeKeyShares       = "shares"
	AttributeKeyAmount       = "amount"
	AttributeKeyProtocolFee  = "protocol_fee"
	AttributeKeyFlashLoanFee = "flash_loan_fee"
)
