package types

// GenesisState defines the epochs module's genesis state.
type GenesisState struct {
	Params       Params   `json:"params"`
	CurrentEpoch Epoch    `json:"current_epoch"`
	Epochs       []Epoch  `json:"epochs"`
	EnabledHooks []string `json:"enabled_hooks"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	params := DefaultParams()
	return &GenesisState{
		Params:       params,
		CurrentEpoch: Epoch{ID: 0, StartTime: params.GenesisStartTime},
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(gs.EnabledHooks))
	for _, name := range gs.EnabledHooks {
		if name == "" {
			return ErrInvalidState.Wrap("empty hook name")
		}
		if _, ok := seen[name]; ok {
			return ErrHookAlreadyExists.Wrapf("duplicate hook %s in genesis", name)
		}
		seen[name] = struct{}{}
	}

	for _, e := range gs.Epochs {
		if e.ID > gs.CurrentEpoch.ID {
			return ErrInvalidState.Wrapf("epoch %d is after the current epoch %d", e.ID, gs.CurrentEpoch.ID)
		}
	}
	return nil
}
