package types

import (
	"fmt"
	"sort"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Curve is the emission curve of a flow
type Curve string

// CurveLinear releases the flow asset uniformly over the remaining epochs.
const CurveLinear Curve = "linear"

// Validate checks the curve is supported
func (c Curve) Validate() error {
	if c != CurveLinear {
		return ErrInvalidCurve.Wrap(string(c))
	}
	return nil
}

// ScheduleEntry is a point of a flow's asset history: from its epoch on, the flow
// distributes TotalAmount in total and ends at EndEpoch.
type ScheduleEntry struct {
	TotalAmount math.Int `json:"total_amount"`
	EndEpoch    uint64   `json:"end_epoch"`
}

// Flow is a time-bounded reward emission for the holders of an LP denom.
type Flow struct {
	ID            uint64                   `json:"id"`
	Label         string                   `json:"label,omitempty"`
	Creator       string                   `json:"creator"`
	LpDenom       string                   `json:"lp_denom"`
	Asset         sdk.Coin                 `json:"asset"`
	ClaimedAmount math.Int                 `json:"claimed_amount"`
	Curve         Curve                    `json:"curve"`
	StartEpoch    uint64                   `json:"start_epoch"`
	EndEpoch      uint64                   `json:"end_epoch"`
	EmittedTokens map[uint64]math.Int      `json:"emitted_tokens,omitempty"`
	AssetHistory  map[uint64]ScheduleEntry `json:"asset_history"`
}

// Identifier returns the label of the flow, or its id when unlabeled
func (f Flow) Identifier() string {
	if f.Label != "" {
		return f.Label
	}
	return strconv.FormatUint(f.ID, 10)
}

// Remaining is the part of the flow asset not claimed yet
func (f Flow) Remaining() math.Int {
	rem := f.Asset.Amount.Sub(f.ClaimedAmount)
	if rem.IsNegative() {
		return math.ZeroInt()
	}
	return rem
}

// IsExpired reports whether the flow can be closed by anyone opening a new flow.
// A flow expires once it is FlowExpirationGrace epochs past its end, or earlier, after its end,
// when its unclaimed remainder fell under MinFlowAmount.
func (f Flow) IsExpired(epoch uint64, params Params) bool {
	if epoch < f.EndEpoch {
		return false
	}
	return epoch >= f.EndEpoch+params.FlowExpirationGrace || f.Remaining().LT(params.MinFlowAmount)
}

// HasStarted reports whether the flow emits at or before the epoch
func (f Flow) HasStarted(epoch uint64) bool {
	return epoch >= f.StartEpoch
}

func (f Flow) historyEpochs() []uint64 {
	keys := make([]uint64, 0, len(f.AssetHistory))
	for k := range f.AssetHistory {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ScheduleAt returns the schedule in force at the epoch: the asset history entry with the
// greatest epoch not after it. Before the first entry the first entry applies.
func (f Flow) ScheduleAt(epoch uint64) ScheduleEntry {
	keys := f.historyEpochs()
	if len(keys) == 0 {
		return ScheduleEntry{TotalAmount: f.Asset.Amount, EndEpoch: f.EndEpoch}
	}

	entry := f.AssetHistory[keys[0]]
	for _, k := range keys[1:] {
		if k > epoch {
			break
		}
		entry = f.AssetHistory[k]
	}
	return entry
}

// Emissions returns the amount emitted at each epoch of [StartEpoch, upTo], indexed from
// StartEpoch. Every epoch releases what is left of the schedule's total divided by the epochs
// left until the schedule's end, truncated; the last epoch thus releases the exact remainder.
// Expansions are absorbed by recomputing from the new total and end, never by patching
// past emissions.
func (f Flow) Emissions(upTo uint64) []math.Int {
	if upTo < f.StartEpoch {
		return nil
	}

	keys := f.historyEpochs()
	emissions := make([]math.Int, 0, upTo-f.StartEpoch+1)
	emitted := math.ZeroInt()
	schedule := ScheduleEntry{TotalAmount: f.Asset.Amount, EndEpoch: f.EndEpoch}
	if len(keys) > 0 {
		schedule = f.AssetHistory[keys[0]]
	}
	next := 0

	for e := f.StartEpoch; e <= upTo; e++ {
		for next < len(keys) && keys[next] <= e {
			schedule = f.AssetHistory[keys[next]]
			next++
		}

		amount := math.ZeroInt()
		if e < schedule.EndEpoch {
			left := schedule.TotalAmount.Sub(emitted)
			if left.IsPositive() {
				amount = left.QuoRaw(int64(schedule.EndEpoch - e))
			}
		}
		emitted = emitted.Add(amount)
		emissions = append(emissions, amount)
	}
	return emissions
}

// EmissionAt returns the amount emitted at a single epoch
func (f Flow) EmissionAt(epoch uint64) math.Int {
	emissions := f.Emissions(epoch)
	if len(emissions) == 0 {
		return math.ZeroInt()
	}
	return emissions[len(emissions)-1]
}

// ScheduledTotal returns the sum of all emissions of the flow over its whole life
func (f Flow) ScheduledTotal() math.Int {
	if f.EndEpoch == 0 {
		return math.ZeroInt()
	}
	total := math.ZeroInt()
	for _, e := range f.Emissions(f.EndEpoch - 1) {
		total = total.Add(e)
	}
	return total
}

// Validate performs stateless checks on a flow
func (f Flow) Validate() error {
	if f.LpDenom == "" {
		return ErrInvalidState.Wrapf("flow %d has no lp denom", f.ID)
	}
	if err := f.Asset.Validate(); err != nil {
		return ErrInvalidState.Wrapf("flow %d asset: %v", f.ID, err)
	}
	if f.StartEpoch >= f.EndEpoch {
		return ErrFlowStartTimeAfterEndTime.Wrapf("flow %d: start %d end %d", f.ID, f.StartEpoch, f.EndEpoch)
	}
	if f.ClaimedAmount.IsNil() || f.ClaimedAmount.IsNegative() || f.ClaimedAmount.GT(f.Asset.Amount) {
		return ErrInvalidState.Wrapf("flow %d claimed %s of %s", f.ID, f.ClaimedAmount, f.Asset.Amount)
	}
	return f.Curve.Validate()
}

func (f Flow) String() string {
	return fmt.Sprintf("flow %s: %s for %s, epochs [%d, %d)", f.Identifier(), f.Asset, f.LpDenom, f.StartEpoch, f.EndEpoch)
}

// ValidateFlowLabel checks a user-provided flow label. Labels must not parse as a flow id.
func ValidateFlowLabel(label string) error {
	if label == "" {
		return nil
	}
	if len(label) > 64 {
		return ErrInvalidFlowLabel.Wrap("label longer than 64 characters")
	}
	if _, err := strconv.ParseUint(label, 10, 64); err == nil {
		return ErrInvalidFlowLabel.Wrap("label cannot be a number")
	}
	return nil
}
