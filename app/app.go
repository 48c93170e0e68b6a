// Package app wires the liquidity hub modules into a single state machine.
//
// The App owns a commit multistore with the auth and bank keepers plus the
// liquidity hub keepers (epochs, incentive, bonding, fee collector, vault).
// Blocks are driven with BeginBlock and Commit; state transitions are applied with
// Deliver, which runs a message handler against a cached context and commits it
// only on success. Read-only access goes through Query.
//
// Epoch hooks are notified in a fixed order: the fee collector sweeps protocol fees
// into the bonding rewards, bonding opens the reward bucket of the new epoch, and the
// incentive module snapshots the global weight and records flow emissions.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authcodec "github.com/cosmos/cosmos-sdk/x/auth/codec"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authsims "github.com/cosmos/cosmos-sdk/x/auth/simulation"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"

	"github.com/paw-chain/liquidityhub/app/telemetry"
	bondingmodule "github.com/paw-chain/liquidityhub/x/bonding"
	bondingkeeper "github.com/paw-chain/liquidityhub/x/bonding/keeper"
	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	epochsmodule "github.com/paw-chain/liquidityhub/x/epochs"
	epochskeeper "github.com/paw-chain/liquidityhub/x/epochs/keeper"
	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
	feecollectormodule "github.com/paw-chain/liquidityhub/x/feecollector"
	feecollectorkeeper "github.com/paw-chain/liquidityhub/x/feecollector/keeper"
	feecollectortypes "github.com/paw-chain/liquidityhub/x/feecollector/types"
	incentivemodule "github.com/paw-chain/liquidityhub/x/incentive"
	incentivekeeper "github.com/paw-chain/liquidityhub/x/incentive/keeper"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
	vaultmodule "github.com/paw-chain/liquidityhub/x/vault"
	vaultkeeper "github.com/paw-chain/liquidityhub/x/vault/keeper"
	vaulttypes "github.com/paw-chain/liquidityhub/x/vault/types"
)

const (
	Name = "liquidityhub"

	// DefaultChainID is used when no chain id option is given
	DefaultChainID = "liquidityhub-1"
)

// ErrInvariantBroken is returned by BeginBlock when a registered invariant fails
var ErrInvariantBroken = errorsmod.Register(Name, 2, "invariant broken")

// ModuleBasics defines the module BasicManager in charge of default genesis and
// genesis validation.
var ModuleBasics = module.NewBasicManager(
	auth.AppModuleBasic{},
	bank.AppModuleBasic{},
	epochsmodule.AppModuleBasic{},
	feecollectormodule.AppModuleBasic{},
	bondingmodule.AppModuleBasic{},
	incentivemodule.AppModuleBasic{},
	vaultmodule.AppModuleBasic{},
)

// hookOrder is the notification order of the epoch hooks
var hookOrder = []string{
	feecollectorkeeper.HookName,
	bondingkeeper.HookName,
	incentivekeeper.HookName,
}

// MsgServers groups the transaction surfaces of the liquidity hub modules
type MsgServers struct {
	Epochs       epochstypes.MsgServer
	Incentive    incentivetypes.MsgServer
	Bonding      bondingtypes.MsgServer
	FeeCollector feecollectortypes.MsgServer
	Vault        vaulttypes.MsgServer
}

// QueryServers groups the query surfaces of the liquidity hub modules
type QueryServers struct {
	Epochs       epochstypes.QueryServer
	Incentive    incentivetypes.QueryServer
	Bonding      bondingtypes.QueryServer
	FeeCollector feecollectortypes.QueryServer
	Vault        vaulttypes.QueryServer
}

// App is the liquidity hub state machine.
type App struct {
	logger   log.Logger
	cms      storetypes.CommitMultiStore
	appCodec codec.Codec
	txConfig client.TxConfig
	keys     map[string]*storetypes.KVStoreKey

	chainID           string
	invCheckPeriod    int64
	telemetryProvider *telemetry.Provider
	blockMetrics      *telemetry.BlockMetrics

	// keepers
	AccountKeeper      authkeeper.AccountKeeper
	BankKeeper         bankkeeper.BaseKeeper
	EpochsKeeper       *epochskeeper.Keeper
	IncentiveKeeper    *incentivekeeper.Keeper
	BondingKeeper      *bondingkeeper.Keeper
	FeeCollectorKeeper *feecollectorkeeper.Keeper
	VaultKeeper        *vaultkeeper.Keeper

	Msgs    MsgServers
	Queries QueryServers

	mm         *module.Manager
	epochs     epochsmodule.AppModule
	invariants invariantRegistry

	mu     sync.Mutex
	header cmtproto.Header
}

// Option configures an App
type Option func(*App)

// WithChainID sets the chain id stamped on block headers
func WithChainID(chainID string) Option {
	return func(a *App) { a.chainID = chainID }
}

// WithInvariantCheckPeriod asserts every invariant each period blocks. Zero disables the check.
func WithInvariantCheckPeriod(period int64) Option {
	return func(a *App) { a.invCheckPeriod = period }
}

// WithTelemetry sets the tracing and metrics provider
func WithTelemetry(p *telemetry.Provider) Option {
	return func(a *App) { a.telemetryProvider = p }
}

// New returns a liquidity hub application backed by db.
func New(logger log.Logger, db dbm.DB, opts ...Option) (*App, error) {
	SetConfig()

	app := &App{
		logger:  logger,
		chainID: DefaultChainID,
		keys: storetypes.NewKVStoreKeys(
			authtypes.StoreKey, banktypes.StoreKey,
			epochstypes.StoreKey, incentivetypes.StoreKey, bondingtypes.StoreKey,
			feecollectortypes.StoreKey, vaulttypes.StoreKey,
		),
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.telemetryProvider == nil {
		provider, err := telemetry.NewProvider(telemetry.Config{})
		if err != nil {
			return nil, err
		}
		app.telemetryProvider = provider
	}
	blockMetrics, err := telemetry.NewBlockMetrics(app.telemetryProvider.Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create block metrics: %w", err)
	}
	app.blockMetrics = blockMetrics

	encodingConfig := MakeEncodingConfig()
	app.appCodec = encodingConfig.Codec
	app.txConfig = encodingConfig.TxConfig

	app.cms = store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range app.keys {
		app.cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := app.cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}
	app.header = cmtproto.Header{
		ChainID: app.chainID,
		Height:  app.cms.LastCommitID().Version,
	}

	authority := authtypes.NewModuleAddress(govtypes.ModuleName).String()

	app.AccountKeeper = authkeeper.NewAccountKeeper(
		app.appCodec, runtime.NewKVStoreService(app.keys[authtypes.StoreKey]), authtypes.ProtoBaseAccount, maccPerms,
		authcodec.NewBech32Codec(AccountAddressPrefix), AccountAddressPrefix, authority,
	)
	app.BankKeeper = bankkeeper.NewBaseKeeper(
		app.appCodec, runtime.NewKVStoreService(app.keys[banktypes.StoreKey]), app.AccountKeeper,
		BlockedModuleAccountAddrs(), authority, logger,
	)

	app.EpochsKeeper = epochskeeper.NewKeeper(app.keys[epochstypes.StoreKey], authority)
	app.BondingKeeper = bondingkeeper.NewKeeper(app.keys[bondingtypes.StoreKey], authority, app.BankKeeper, app.EpochsKeeper)
	app.IncentiveKeeper = incentivekeeper.NewKeeper(
		app.keys[incentivetypes.StoreKey], authority, app.BankKeeper, app.EpochsKeeper, app.BondingKeeper,
	)
	app.VaultKeeper = vaultkeeper.NewKeeper(app.keys[vaulttypes.StoreKey], authority, app.BankKeeper)
	app.FeeCollectorKeeper = feecollectorkeeper.NewKeeper(
		app.keys[feecollectortypes.StoreKey], authority, app.BankKeeper, app.BondingKeeper,
	).
		RegisterFeeSource(app.IncentiveKeeper).
		RegisterFeeSource(app.VaultKeeper)

	hooks := map[string]epochstypes.EpochHooks{
		feecollectorkeeper.HookName: app.FeeCollectorKeeper.Hooks(),
		bondingkeeper.HookName:      app.BondingKeeper.Hooks(),
		incentivekeeper.HookName:    app.IncentiveKeeper.Hooks(),
	}
	for _, name := range hookOrder {
		app.EpochsKeeper.RegisterHook(name, tracedHooks{name: name, hooks: hooks[name], metrics: app.blockMetrics})
	}

	app.Msgs = MsgServers{
		Epochs:       epochskeeper.NewMsgServerImpl(app.EpochsKeeper),
		Incentive:    incentivekeeper.NewMsgServerImpl(app.IncentiveKeeper),
		Bonding:      bondingkeeper.NewMsgServerImpl(app.BondingKeeper),
		FeeCollector: feecollectorkeeper.NewMsgServerImpl(app.FeeCollectorKeeper),
		Vault:        vaultkeeper.NewMsgServerImpl(app.VaultKeeper),
	}
	app.Queries = QueryServers{
		Epochs:       epochskeeper.NewQueryServerImpl(app.EpochsKeeper),
		Incentive:    incentivekeeper.NewQueryServerImpl(app.IncentiveKeeper),
		Bonding:      bondingkeeper.NewQueryServerImpl(app.BondingKeeper),
		FeeCollector: feecollectorkeeper.NewQueryServerImpl(app.FeeCollectorKeeper),
		Vault:        vaultkeeper.NewQueryServerImpl(app.VaultKeeper),
	}

	app.epochs = epochsmodule.NewAppModule(app.EpochsKeeper)
	incentiveModule := incentivemodule.NewAppModule(app.IncentiveKeeper)
	bondingModule := bondingmodule.NewAppModule(app.BondingKeeper)
	vaultModule := vaultmodule.NewAppModule(app.VaultKeeper)

	app.mm = module.NewManager(
		auth.NewAppModule(app.appCodec, app.AccountKeeper, authsims.RandomGenesisAccounts, nil),
		bank.NewAppModule(app.appCodec, app.BankKeeper, app.AccountKeeper, nil),
		app.epochs,
		feecollectormodule.NewAppModule(app.FeeCollectorKeeper),
		bondingModule,
		incentiveModule,
		vaultModule,
	)
	app.mm.SetOrderInitGenesis(
		authtypes.ModuleName,
		banktypes.ModuleName,
		epochstypes.ModuleName,
		feecollectortypes.ModuleName,
		bondingtypes.ModuleName,
		incentivetypes.ModuleName,
		vaulttypes.ModuleName,
	)

	incentiveModule.RegisterInvariants(&app.invariants)
	bondingModule.RegisterInvariants(&app.invariants)
	vaultModule.RegisterInvariants(&app.invariants)

	return app, nil
}

// Logger returns the application logger
func (app *App) Logger() log.Logger {
	return app.logger
}

// AppCodec returns the application codec
func (app *App) AppCodec() codec.Codec {
	return app.appCodec
}

// ChainID returns the chain id of the application
func (app *App) ChainID() string {
	return app.chainID
}

// LastBlockHeight returns the height of the last committed block
func (app *App) LastBlockHeight() int64 {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cms.LastCommitID().Version
}

// LastBlockTime returns the time of the block in progress or last begun
func (app *App) LastBlockTime() time.Time {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.header.Time
}

// CurrentEpoch returns the epoch in progress and the configured epoch duration
func (app *App) CurrentEpoch() (epoch epochstypes.Epoch, duration time.Duration, err error) {
	err = app.Query(func(ctx sdk.Context) error {
		params, err := app.EpochsKeeper.GetParams(ctx)
		if err != nil {
			return err
		}
		duration = params.EpochDuration
		epoch, err = app.EpochsKeeper.GetCurrentEpoch(ctx)
		return err
	})
	return epoch, duration, err
}

// TelemetryHealth reports whether the telemetry exporters are initialized
func (app *App) TelemetryHealth() error {
	return app.telemetryProvider.HealthCheck()
}

// Telemetry returns the telemetry provider
func (app *App) Telemetry() *telemetry.Provider {
	return app.telemetryProvider
}

// InitChain validates and imports the genesis state. The imported state is persisted by
// the first Commit.
func (app *App) InitChain(genesis GenesisState, genesisTime time.Time) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if err := ModuleBasics.ValidateGenesis(app.appCodec, app.txConfig, genesis); err != nil {
		return fmt.Errorf("InitChain: %w", err)
	}

	app.header.Time = genesisTime.UTC()
	ctx := app.newContext(app.cms)
	app.initGenesis(ctx, genesis)
	for name := range maccPerms {
		app.AccountKeeper.GetModuleAccount(ctx, name)
	}

	app.logger.Info("chain initialized", "chain_id", app.chainID, "genesis_time", app.header.Time)
	return nil
}

// initGenesis imports every module state in init genesis order. The module manager's
// InitGenesis requires a validator set, which the liquidity hub does not have.
func (app *App) initGenesis(ctx sdk.Context, genesis GenesisState) {
	for _, name := range app.mm.OrderInitGenesis {
		mod, ok := app.mm.Modules[name].(module.HasGenesis)
		if !ok {
			continue
		}
		bz := genesis[name]
		if bz == nil {
			continue
		}
		mod.InitGenesis(ctx, app.appCodec, bz)
	}
}

// ExportGenesis exports the state of every module at the current height
func (app *App) ExportGenesis() (GenesisState, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := app.newContext(app.cms.CacheMultiStore())
	return app.mm.ExportGenesis(ctx, app.appCodec)
}

// BeginBlock opens a new block at blockTime and runs the epochs begin blocker, which
// creates the next epoch and notifies the hooks when the current one expired.
func (app *App) BeginBlock(blockTime time.Time) (sdk.Events, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	start := time.Now()
	app.header.Height++
	app.header.Time = blockTime.UTC()

	ctx := app.newContext(app.cms)
	spanCtx, span := telemetry.StartBlockSpan(ctx.Context(), app.header.Height, app.header.Time)
	defer span.End()
	ctx = ctx.WithContext(spanCtx)

	if err := app.epochs.BeginBlock(ctx); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("BeginBlock: %w", err)
	}

	if app.invCheckPeriod > 0 && app.header.Height%app.invCheckPeriod == 0 {
		if err := app.invariants.assert(ctx); err != nil {
			telemetry.RecordError(span, err)
			app.logger.Error("invariant broken", "height", app.header.Height, "error", err)
			return nil, err
		}
	}

	app.blockMetrics.RecordBlock(spanCtx, app.header.Height, time.Since(start))
	return ctx.EventManager().Events(), nil
}

// Commit persists the current block
func (app *App) Commit() storetypes.CommitID {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cms.Commit()
}

// Deliver runs fn against a cached context of the current block. The writes are kept
// only when fn succeeds; the emitted events are returned either way.
func (app *App) Deliver(fn func(ctx sdk.Context) error) (sdk.Events, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := app.newContext(app.cms)
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return cacheCtx.EventManager().Events(), err
	}
	write()
	return cacheCtx.EventManager().Events(), nil
}

// Query runs fn against a throwaway branch of the current state
func (app *App) Query(fn func(ctx sdk.Context) error) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	ctx := app.newContext(app.cms.CacheMultiStore())
	return fn(ctx)
}

// NewUncachedContext returns a context writing straight to the working state of the current
// block. Writes are persisted by the next Commit.
func (app *App) NewUncachedContext() sdk.Context {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.newContext(app.cms)
}

// AssertInvariants runs every registered invariant against the current state
func (app *App) AssertInvariants() error {
	return app.Query(app.invariants.assert)
}

func (app *App) newContext(ms storetypes.MultiStore) sdk.Context {
	return sdk.NewContext(ms, app.header, false, app.logger).WithContext(context.Background())
}

// tracedHooks runs an epoch hook inside a module span and records its duration
type tracedHooks struct {
	name    string
	hooks   epochstypes.EpochHooks
	metrics *telemetry.BlockMetrics
}

func (h tracedHooks) AfterEpochCreated(ctx context.Context, epoch epochstypes.Epoch) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	spanCtx, span := telemetry.StartModuleSpan(sdkCtx.Context(), h.name, "after_epoch_created")
	defer span.End()

	start := time.Now()
	err := h.hooks.AfterEpochCreated(sdkCtx.WithContext(spanCtx), epoch)
	h.metrics.RecordHook(spanCtx, h.name, time.Since(start), err)
	telemetry.RecordError(span, err)
	return err
}

// invariantRegistry collects the module invariants asserted by the app
type invariantRegistry struct {
	routes []invariantRoute
}

type invariantRoute struct {
	module string
	route  string
	inv    sdk.Invariant
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

// RegisterRoute implements sdk.InvariantRegistry
func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, inv: invar})
}

func (r *invariantRegistry) assert(ctx sdk.Context) error {
	for _, route := range r.routes {
		if msg, broken := route.inv(ctx); broken {
			return ErrInvariantBroken.Wrapf("%s/%s: %s", route.module, route.route, msg)
		}
	}
	return nil
}

// GetMaccPerms returns a copy of the module account permissions
func GetMaccPerms() map[string][]string {
	perms := make(map[string][]string, len(maccPerms))
	for k, v := range maccPerms {
		perms[k] = v
	}
	return perms
}

// BlockedModuleAccountAddrs returns all the app's blocked module account addresses.
func BlockedModuleAccountAddrs() map[string]bool {
	modAccAddrs := make(map[string]bool)
	for acc := range maccPerms {
		modAccAddrs[authtypes.NewModuleAddress(acc).String()] = true
	}
	return modAccAddrs
}

// module account permissions
var maccPerms = map[string][]string{
	minttypes.ModuleName:         {authtypes.Minter},
	incentivetypes.ModuleName:    nil,
	bondingtypes.ModuleName:      nil,
	feecollectortypes.ModuleName: nil,
	vaulttypes.ModuleName:        {authtypes.Minter, authtypes.Burner},
}
