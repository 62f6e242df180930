package model

// DefaultHardUnit is the penalty added for every violated hard constraint. NewPenaltyEvaluator raises it for inputs
// whose soft penalties could otherwise add up to a hard unit.
const DefaultHardUnit uint64 = 100000

const (
	gapTailPenalty      uint64 = 5   // Gaps of four or more slots
	comfortableWindow   uint64 = 4   // Longest active window (in slots) without a long-day penalty
	longDayFactor       uint64 = 50  // Multiplies the squared amount of slots beyond the comfortable window
	maxDailySoftPenalty uint64 = 240 // Two single-slot gaps within a six-slot window: 20 + 20 + (6-4)^2*50
)

// Penalty of a gap indexed by its length in slots
var gapPenalties = [...]uint64{0, 20, 15, 10}

// PenaltyEvaluator scores schedules against a normalized input; lower is better and zero means every constraint is
// satisfied and every owner's day is compact. Implementations are pure and can be shared across goroutines.
type PenaltyEvaluator interface {
	// Returns the schedule's total penalty
	Score(schedule Schedule) uint64

	// Returns the violations and soft points making up the schedule's penalty
	Breakdown(schedule Schedule) Breakdown

	// Returns the penalty added per violated hard constraint
	HardUnit() uint64
}

// Breakdown itemizes a schedule's penalty
type Breakdown struct {
	OverCapacity       uint64 `json:"over_capacity"`        // Courses whose students do not fit in their room
	RoomTypeMismatch   uint64 `json:"room_type_mismatch"`   // Courses requiring a laboratory placed elsewhere
	RoomDoubleBooking  uint64 `json:"room_double_booking"`  // Courses placed in an already occupied room
	OwnerDoubleBooking uint64 `json:"owner_double_booking"` // Courses overlapping another course of the same group or teacher
	Teleportations     uint64 `json:"teleportations"`       // Back-to-back courses of a group or teacher in different buildings
	GapPoints          uint64 `json:"gap_points"`
	LongDayPoints      uint64 `json:"long_day_points"`
}

func (breakdown Breakdown) HardViolations() uint64 {
	return breakdown.OverCapacity +
		breakdown.RoomTypeMismatch +
		breakdown.RoomDoubleBooking +
		breakdown.OwnerDoubleBooking +
		breakdown.Teleportations
}

func (breakdown Breakdown) SoftPoints() uint64 {
	return breakdown.GapPoints + breakdown.LongDayPoints
}

func (breakdown Breakdown) Total(hardUnit uint64) uint64 {
	return breakdown.HardViolations()*hardUnit + breakdown.SoftPoints()
}

// Score evaluates a single schedule. Callers scoring many schedules against the same input should build one
// PenaltyEvaluator instead.
func Score(schedule Schedule, input Input) uint64 {
	return NewPenaltyEvaluator(input).Score(schedule)
}

// Verify checks whether the schedule describes every course within range and violates no hard constraint
func Verify(schedule Schedule, input Input) bool {
	if ValidateSchedule(schedule, input) != nil {
		return false
	}
	return NewPenaltyEvaluator(input).Breakdown(schedule).HardViolations() == 0
}

func gapPenalty(length uint64) uint64 {
	if length < uint64(len(gapPenalties)) {
		return gapPenalties[length]
	}
	return gapTailPenalty
}

func hardUnitFor(input Input) uint64 {
	owners := uint64(len(input.Groups) + len(input.Teachers))
	maxSoft := owners * Days * maxDailySoftPenalty
	if maxSoft < DefaultHardUnit {
		return DefaultHardUnit
	}
	return maxSoft + 1
}
