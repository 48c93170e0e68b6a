// Package simapp drives an in-memory liquidity hub through a scenario of random user
// operations, epoch after epoch, and reports what happened.
package simapp

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	"github.com/google/uuid"

	"github.com/paw-chain/liquidityhub/app"
	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	feecollectortypes "github.com/paw-chain/liquidityhub/x/feecollector/types"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
	vaulttypes "github.com/paw-chain/liquidityhub/x/vault/types"
)

// VaultIdentifier is the vault created at the start of every run
const VaultIdentifier = "sim"

// OpStats counts the outcomes of one operation
type OpStats struct {
	OK        int    `json:"ok"`
	Failed    int    `json:"failed"`
	LastError string `json:"last_error,omitempty"`
}

// Summary reports a finished run
type Summary struct {
	RunID         string              `json:"run_id"`
	Seed          int64               `json:"seed"`
	ChainID       string              `json:"chain_id"`
	Accounts      int                 `json:"accounts"`
	Height        int64               `json:"height"`
	Epoch         uint64              `json:"epoch"`
	GenesisTime   time.Time           `json:"genesis_time"`
	LastBlockTime time.Time           `json:"last_block_time"`
	Operations    map[string]*OpStats `json:"operations"`
	Flows         int                 `json:"flows"`
	Treasury      sdk.Coins           `json:"treasury"`
	Elapsed       string              `json:"elapsed"`
}

// Runner runs a scenario against its own application
type Runner struct {
	logger   log.Logger
	scenario Scenario
	app      *app.App
	rand     *rand.Rand
	accounts []simtypes.Account

	runID       string
	genesisTime time.Time
	blockTime   time.Time
	vaultShares string
	stats       map[string]*OpStats
}

// NewRunner initializes an application at the scenario genesis, commits the genesis
// block and creates the simulation vault.
func NewRunner(logger log.Logger, s Scenario, opts ...app.Option) (*Runner, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	app.SetConfig()

	genesisTime := s.GenesisTime.UTC()
	if s.GenesisTime.IsZero() {
		genesisTime = time.Now().UTC().Add(-s.Span()).Truncate(time.Second)
	}

	opts = append(opts, app.WithInvariantCheckPeriod(s.InvariantCheckPeriod))
	lhApp, err := app.New(logger, dbm.NewMemDB(), opts...)
	if err != nil {
		return nil, err
	}

	r := rand.New(rand.NewSource(s.Seed))
	accs := simtypes.RandomAccounts(r, s.Accounts)
	if err := lhApp.InitChain(app.NewGenesisStateFromConfig(GenesisConfig(r, s, accs, genesisTime)), genesisTime); err != nil {
		return nil, fmt.Errorf("init chain: %w", err)
	}

	runner := &Runner{
		logger:      logger.With("module", "simapp"),
		scenario:    s,
		app:         lhApp,
		rand:        r,
		accounts:    accs,
		runID:       uuid.NewString(),
		genesisTime: genesisTime,
		stats:       make(map[string]*OpStats),
	}

	if _, err := lhApp.BeginBlock(genesisTime); err != nil {
		return nil, err
	}
	if err := runner.createVault(); err != nil {
		return nil, fmt.Errorf("create vault: %w", err)
	}
	lhApp.Commit()
	runner.blockTime = genesisTime
	return runner, nil
}

// App returns the application driven by the runner
func (r *Runner) App() *app.App {
	return r.app
}

// RunID identifies this run in logs and summaries
func (r *Runner) RunID() string {
	return r.runID
}

// Run produces every block of the scenario and returns the summary
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	interval := r.scenario.BlockInterval()
	blocks := int(r.scenario.Epochs) * r.scenario.BlocksPerEpoch

	r.logger.Info("starting simulation", "run_id", r.runID, "seed", r.scenario.Seed, "blocks", blocks)
	for i := 1; i <= blocks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.Step(r.genesisTime.Add(time.Duration(i) * interval)); err != nil {
			return nil, fmt.Errorf("block %d: %w", r.app.LastBlockHeight()+1, err)
		}
		if i%r.scenario.BlocksPerEpoch == 0 {
			r.logger.Info("epoch simulated", "run_id", r.runID, "height", r.app.LastBlockHeight())
		}
	}

	summary, err := r.Summary()
	if err != nil {
		return nil, err
	}
	summary.Elapsed = time.Since(started).String()
	return summary, nil
}

// Step commits one block at blockTime carrying the scenario operations per block
func (r *Runner) Step(blockTime time.Time) error {
	if !blockTime.After(r.blockTime) {
		return fmt.Errorf("block time %s is not after %s", blockTime, r.blockTime)
	}
	if _, err := r.app.BeginBlock(blockTime); err != nil {
		return err
	}
	for i := 0; i < r.scenario.OpsPerBlock; i++ {
		op, ok := r.scenario.Operations.pick(r.rand)
		if !ok {
			break
		}
		r.record(op, r.runOperation(op))
	}
	r.app.Commit()
	r.blockTime = blockTime
	return nil
}

// Summary reports the state of the run so far
func (r *Runner) Summary() (*Summary, error) {
	epoch, _, err := r.app.CurrentEpoch()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:         r.runID,
		Seed:          r.scenario.Seed,
		ChainID:       r.app.ChainID(),
		Accounts:      len(r.accounts),
		Height:        r.app.LastBlockHeight(),
		Epoch:         epoch.ID,
		GenesisTime:   r.genesisTime,
		LastBlockTime: r.app.LastBlockTime(),
		Operations:    make(map[string]*OpStats, len(r.stats)),
	}
	for name, stats := range r.stats {
		copied := *stats
		summary.Operations[name] = &copied
	}

	err = r.app.Query(func(ctx sdk.Context) error {
		err := r.app.IncentiveKeeper.IterateFlows(ctx, func(incentivetypes.Flow) (bool, error) {
			summary.Flows++
			return false, nil
		})
		if err != nil {
			return err
		}

		treasury, err := r.app.Queries.FeeCollector.Treasury(ctx, &feecollectortypes.QueryTreasuryRequest{})
		if err != nil {
			return err
		}
		summary.Treasury = treasury.Balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (r *Runner) record(op string, err error) {
	stats, ok := r.stats[op]
	if !ok {
		stats = &OpStats{}
		r.stats[op] = stats
	}
	if err != nil {
		stats.Failed++
		stats.LastError = err.Error()
		r.logger.Debug("operation failed", "op", op, "error", err)
		return
	}
	stats.OK++
}

func (r *Runner) runOperation(op string) error {
	sender := r.randomAccount()
	switch op {
	case OpOpenFlow:
		return r.openFlow(sender)
	case OpExpandFlow:
		return r.expandFlow(sender)
	case OpFillPosition:
		return r.fillPosition(sender)
	case OpClosePosition:
		return r.closePosition(sender)
	case OpWithdrawPosition:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Incentive.WithdrawPosition(ctx, &incentivetypes.MsgWithdrawPosition{Sender: sender})
			return err
		})
	case OpEmergencyUnlock:
		return r.emergencyUnlock(sender)
	case OpClaimIncentives:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Incentive.Claim(ctx, &incentivetypes.MsgClaim{Sender: sender})
			return err
		})
	case OpBond:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Bonding.Bond(ctx, &bondingtypes.MsgBond{Sender: sender, Amount: r.randomCoin(ctx, sender, r.scenario.BondDenom)})
			return err
		})
	case OpUnbond:
		return r.unbond(sender)
	case OpWithdrawBond:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Bonding.Withdraw(ctx, &bondingtypes.MsgWithdraw{Sender: sender, Denom: r.scenario.BondDenom})
			return err
		})
	case OpClaimBonding:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Bonding.Claim(ctx, &bondingtypes.MsgClaim{Sender: sender})
			return err
		})
	case OpVaultDeposit:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Vault.Deposit(ctx, &vaulttypes.MsgDeposit{
				Sender:     sender,
				Identifier: VaultIdentifier,
				Amount:     r.randomCoin(ctx, sender, r.scenario.VaultDenom),
			})
			return err
		})
	case OpVaultWithdraw:
		return r.deliver(func(ctx sdk.Context) error {
			_, err := r.app.Msgs.Vault.Withdraw(ctx, &vaulttypes.MsgWithdraw{
				Sender: sender,
				Shares: r.randomCoin(ctx, sender, r.vaultShares),
			})
			return err
		})
	case OpFlashLoan:
		return r.flashLoan(sender)
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func (r *Runner) deliver(fn func(ctx sdk.Context) error) error {
	_, err := r.app.Deliver(fn)
	return err
}

func (r *Runner) randomAccount() string {
	return r.accounts[r.rand.Intn(len(r.accounts))].Address.String()
}

// randomCoin picks a positive amount up to a tenth of the holder balance. An empty
// balance yields one unit, which the operation then rejects.
func (r *Runner) randomCoin(ctx sdk.Context, holder, denom string) sdk.Coin {
	addr := sdk.MustAccAddressFromBech32(holder)
	balance := r.app.BankKeeper.GetBalance(ctx, addr, denom).Amount.QuoRaw(10)
	if !balance.IsPositive() {
		return sdk.NewCoin(denom, math.OneInt())
	}
	return sdk.NewCoin(denom, r.randomUpTo(balance))
}

// randomUpTo returns an amount in [1, max]
func (r *Runner) randomUpTo(max math.Int) math.Int {
	if max.LTE(math.OneInt()) {
		return math.OneInt()
	}
	return simtypes.RandomAmount(r.rand, max.SubRaw(1)).AddRaw(1)
}

func (r *Runner) createVault() error {
	creator := r.accounts[0].Address.String()
	return r.deliver(func(ctx sdk.Context) error {
		params, err := r.app.Queries.Vault.Params(ctx, &vaulttypes.QueryParamsRequest{})
		if err != nil {
			return err
		}
		res, err := r.app.Msgs.Vault.CreateVault(ctx, &vaulttypes.MsgCreateVault{
			Sender:     creator,
			AssetDenom: r.scenario.VaultDenom,
			Identifier: VaultIdentifier,
			Fees: vaulttypes.Fees{
				ProtocolFee:  math.LegacyNewDecWithPrec(1, 3),
				FlashLoanFee: math.LegacyNewDecWithPrec(2, 3),
			},
			Funds: sdk.NewCoins(params.Params.VaultCreationFee),
		})
		if err != nil {
			return err
		}
		r.vaultShares = res.LpDenom
		return nil
	})
}

func (r *Runner) openFlow(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		params, err := r.app.Queries.Incentive.Params(ctx, &incentivetypes.QueryParamsRequest{})
		if err != nil {
			return err
		}
		asset := r.randomCoin(ctx, sender, r.scenario.RewardDenom)
		if asset.Amount.LT(params.Params.MinFlowAmount) {
			asset.Amount = params.Params.MinFlowAmount
		}
		_, err = r.app.Msgs.Incentive.OpenFlow(ctx, &incentivetypes.MsgOpenFlow{
			Creator: sender,
			LpDenom: r.scenario.LpDenom,
			Asset:   asset,
			Curve:   incentivetypes.CurveLinear,
			Funds:   sdk.NewCoins(asset).Add(params.Params.FlowCreationFee),
		})
		return err
	})
}

// expandFlow tops up one of the sender's flows through ManageFlow and pushes its end back
// by up to three epochs.
func (r *Runner) expandFlow(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		res, err := r.app.Queries.Incentive.Flows(ctx, &incentivetypes.QueryFlowsRequest{LpDenom: r.scenario.LpDenom})
		if err != nil {
			return err
		}
		var owned []incentivetypes.Flow
		for _, f := range res.Flows {
			if f.Creator == sender {
				owned = append(owned, f)
			}
		}
		if len(owned) == 0 {
			return incentivetypes.ErrNonExistentFlow.Wrapf("no flow created by %s", sender)
		}
		flow := owned[r.rand.Intn(len(owned))]

		asset := r.randomCoin(ctx, sender, flow.Asset.Denom)
		end := flow.EndEpoch + uint64(r.rand.Intn(4))
		_, err = r.app.Msgs.Incentive.ManageFlow(ctx, &incentivetypes.MsgManageFlow{
			Sender:         sender,
			Action:         incentivetypes.FlowActionFill,
			FlowIdentifier: flow.Identifier(),
			Asset:          asset,
			EndEpoch:       &end,
			Funds:          sdk.NewCoins(asset),
		})
		return err
	})
}

func (r *Runner) fillPosition(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		lp := r.randomCoin(ctx, sender, r.scenario.LpDenom)
		duration := incentivetypes.MinUnbondingDuration +
			uint64(r.rand.Int63n(int64(incentivetypes.MaxUnbondingDuration-incentivetypes.MinUnbondingDuration)))
		_, err := r.app.Msgs.Incentive.FillPosition(ctx, &incentivetypes.MsgFillPosition{
			Sender:            sender,
			LpAsset:           lp,
			UnbondingDuration: duration,
			Funds:             sdk.NewCoins(lp),
		})
		return err
	})
}

// openPosition returns a random open position of owner
func (r *Runner) openPosition(ctx sdk.Context, owner string) (incentivetypes.Position, error) {
	res, err := r.app.Queries.Incentive.Positions(ctx, &incentivetypes.QueryPositionsRequest{Owner: owner, OpenOnly: true})
	if err != nil {
		return incentivetypes.Position{}, err
	}
	if len(res.Positions) == 0 {
		return incentivetypes.Position{}, incentivetypes.ErrNoOpenPositions.Wrap(owner)
	}
	sort.Slice(res.Positions, func(i, j int) bool { return res.Positions[i].Identifier < res.Positions[j].Identifier })
	return res.Positions[r.rand.Intn(len(res.Positions))], nil
}

func (r *Runner) closePosition(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		position, err := r.openPosition(ctx, sender)
		if err != nil {
			return err
		}
		msg := &incentivetypes.MsgClosePosition{Sender: sender, Identifier: position.Identifier}
		// close half of the time partially
		if half := position.LpAsset.Amount.QuoRaw(2); half.IsPositive() && r.rand.Intn(2) == 0 {
			partial := sdk.NewCoin(position.LpAsset.Denom, half)
			msg.LpAsset = &partial
		}
		_, err = r.app.Msgs.Incentive.ClosePosition(ctx, msg)
		return err
	})
}

func (r *Runner) emergencyUnlock(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		position, err := r.openPosition(ctx, sender)
		if err != nil {
			return err
		}
		_, err = r.app.Msgs.Incentive.WithdrawPosition(ctx, &incentivetypes.MsgWithdrawPosition{
			Sender:          sender,
			Identifier:      position.Identifier,
			EmergencyUnlock: true,
		})
		return err
	})
}

func (r *Runner) unbond(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		bonded, err := r.app.Queries.Bonding.Bonded(ctx, &bondingtypes.QueryBondedRequest{Address: sender})
		if err != nil {
			return err
		}
		amount := bonded.Bonded.AmountOf(r.scenario.BondDenom)
		if !amount.IsPositive() {
			return bondingtypes.ErrInsufficientBond.Wrapf("%s has nothing bonded", sender)
		}
		_, err = r.app.Msgs.Bonding.Unbond(ctx, &bondingtypes.MsgUnbond{
			Sender: sender,
			Amount: sdk.NewCoin(r.scenario.BondDenom, r.randomUpTo(amount)),
		})
		return err
	})
}

// flashLoan borrows from the simulation vault and repays from the borrower balance
func (r *Runner) flashLoan(sender string) error {
	return r.deliver(func(ctx sdk.Context) error {
		vault, err := r.app.VaultKeeper.GetVault(ctx, VaultIdentifier)
		if err != nil {
			return err
		}
		if !vault.Asset.Amount.IsPositive() {
			return vaulttypes.ErrInsufficientAssetBalance.Wrap("vault is empty")
		}
		loan := sdk.NewCoin(vault.Asset.Denom, r.randomUpTo(vault.Asset.Amount))
		_, err = r.app.VaultKeeper.FlashLoan(ctx, sender, VaultIdentifier, loan, func(sdk.Context, sdk.Coin) error {
			return nil
		})
		return err
	})
}
