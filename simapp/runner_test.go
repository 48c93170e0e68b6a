package simapp

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var testGenesis = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func smallScenario() Scenario {
	s := DefaultScenario()
	s.GenesisTime = testGenesis
	s.Accounts = 3
	s.Epochs = 3
	s.BlocksPerEpoch = 2
	s.OpsPerBlock = 6
	return s
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
	}{
		{name: "default", mutate: func(*Scenario) {}},
		{name: "no accounts", mutate: func(s *Scenario) { s.Accounts = 0 }, wantErr: true},
		{name: "no epochs", mutate: func(s *Scenario) { s.Epochs = 0 }, wantErr: true},
		{name: "no blocks", mutate: func(s *Scenario) { s.BlocksPerEpoch = 0 }, wantErr: true},
		{name: "zero duration", mutate: func(s *Scenario) { s.EpochDuration = 0 }, wantErr: true},
		{name: "more blocks than nanoseconds", mutate: func(s *Scenario) {
			s.EpochDuration = time.Nanosecond
			s.BlocksPerEpoch = 2
		}, wantErr: true},
		{name: "empty balance", mutate: func(s *Scenario) { s.InitialBalance = 0 }, wantErr: true},
		{name: "missing denom", mutate: func(s *Scenario) { s.LpDenom = "" }, wantErr: true},
		{name: "negative weight", mutate: func(s *Scenario) { s.Operations.Bond = -1 }, wantErr: true},
		{name: "no operations", mutate: func(s *Scenario) { s.Operations = OperationWeights{} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultScenario()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPickFollowsWeights(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	_, ok := OperationWeights{}.pick(r)
	require.False(t, ok)

	only := OperationWeights{Bond: 3}
	for i := 0; i < 50; i++ {
		op, ok := only.pick(r)
		require.True(t, ok)
		require.Equal(t, OpBond, op)
	}
}

func TestRunProducesEveryBlock(t *testing.T) {
	runner, err := NewRunner(log.NewNopLogger(), smallScenario())
	require.NoError(t, err)

	vault, err := runner.App().VaultKeeper.GetVault(runner.App().NewUncachedContext(), VaultIdentifier)
	require.NoError(t, err)
	require.Equal(t, "uusdc", vault.Asset.Denom)

	summary, err := runner.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, runner.RunID(), summary.RunID)
	require.Equal(t, int64(7), summary.Height)
	require.Equal(t, uint64(3), summary.Epoch)
	require.True(t, testGenesis.Add(72*time.Hour).Equal(summary.LastBlockTime))

	total := 0
	for _, stats := range summary.Operations {
		total += stats.OK + stats.Failed
	}
	require.Equal(t, 36, total)
	require.NoError(t, runner.App().AssertInvariants())
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() *Summary {
		runner, err := NewRunner(log.NewNopLogger(), smallScenario())
		require.NoError(t, err)
		summary, err := runner.Run(context.Background())
		require.NoError(t, err)
		return summary
	}

	first, second := run(), run()
	require.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, first.Operations, second.Operations)
	require.Equal(t, first.Flows, second.Flows)
	require.Equal(t, first.Treasury.String(), second.Treasury.String())
}

func TestStepRejectsPastBlocks(t *testing.T) {
	runner, err := NewRunner(log.NewNopLogger(), smallScenario())
	require.NoError(t, err)

	require.Error(t, runner.Step(testGenesis))
	require.NoError(t, runner.Step(testGenesis.Add(time.Hour)))
}

func TestRunHonorsCancellation(t *testing.T) {
	runner, err := NewRunner(log.NewNopLogger(), smallScenario())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRandomScenariosKeepInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := smallScenario()
		s.Seed = rapid.Int64().Draw(rt, "seed")
		s.Accounts = rapid.IntRange(1, 4).Draw(rt, "accounts")
		s.Epochs = rapid.Uint64Range(1, 3).Draw(rt, "epochs")
		s.BlocksPerEpoch = rapid.IntRange(1, 3).Draw(rt, "blocks")

		runner, err := NewRunner(log.NewNopLogger(), s)
		if err != nil {
			rt.Fatalf("new runner: %v", err)
		}
		if _, err := runner.Run(context.Background()); err != nil {
			rt.Fatalf("run: %v", err)
		}
		if err := runner.App().AssertInvariants(); err != nil {
			rt.Fatalf("invariants: %v", err)
		}
	})
}
