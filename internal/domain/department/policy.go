package department

import "github.com/rpggio/hygrotrack/internal/domain/compliance"

const (
	// Print runs the stricter ambient policy.
	Print = "Print"
	// SewingRoom is the only department that records product checks.
	SewingRoom = "Sewing Room"
	// FabricWarehouse gets warehouse-specific inspection guidance.
	FabricWarehouse = "Fabric Warehouse"

	printDangerThreshold   = 50
	defaultDangerThreshold = 65
)

var (
	printTimeSlots   = []string{"AM1", "AM2", "PM1", "PM2", "OT1", "OT2"}
	defaultTimeSlots = []string{"AM", "PM", "OT"}
)

// Policy groups the department-specific parameters.
type Policy struct {
	Department            string   `json:"department"`
	DangerThreshold       float64  `json:"danger_threshold"`
	TimeSlots             []string `json:"time_slots"`
	SupportsProductChecks bool     `json:"supports_product_checks"`
	Guidance              string   `json:"guidance"`
}

// PolicyFor returns the full policy for dept.
func PolicyFor(dept string) Policy {
	return Policy{
		Department:            dept,
		DangerThreshold:       DangerThreshold(dept),
		TimeSlots:             TimeSlotOptions(dept),
		SupportsProductChecks: SupportsProductChecks(dept),
		Guidance:              Guidance(dept),
	}
}

// DangerThreshold returns the ambient humidity above which a reading needs action.
func DangerThreshold(dept string) float64 {
	if dept == Print {
		return printDangerThreshold
	}
	return defaultDangerThreshold
}

// TimeSlotOptions returns the shift vocabulary for dept.
func TimeSlotOptions(dept string) []string {
	src := defaultTimeSlots
	if dept == Print {
		src = printTimeSlots
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// DefaultTimeSlot returns the first time slot for dept.
func DefaultTimeSlot(dept string) string {
	return TimeSlotOptions(dept)[0]
}

// IsTimeSlot reports whether slot belongs to the vocabulary of dept.
func IsTimeSlot(dept, slot string) bool {
	for _, opt := range TimeSlotOptions(dept) {
		if opt == slot {
			return true
		}
	}
	return false
}

// IsHumidityDanger reports whether an ambient reading exceeds the department
// threshold. Missing or malformed readings are never dangerous.
func IsHumidityDanger(dept, humidity string) bool {
	h, ok := compliance.ParseHumidity(humidity)
	if !ok {
		return false
	}
	return h > DangerThreshold(dept)
}

// SupportsProductChecks reports whether dept may record Product inspections.
func SupportsProductChecks(dept string) bool {
	return dept == SewingRoom
}

// Guidance returns the spot-check instructions shown on records of dept.
func Guidance(dept string) string {
	if dept == FabricWarehouse {
		return "Spot-check the humidity of fabric stored on pallets: one point at the centre of the warehouse and one at each of the four corners."
	}
	return "Spot-check the humidity of fabric held in the room: one point at the centre of the room and one at each of the four corners."
}
