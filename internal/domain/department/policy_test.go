package department_test

import (
	"testing"

	"github.com/rpggio/hygrotrack/internal/domain/department"
	"github.com/stretchr/testify/require"
)

func TestDangerThreshold(t *testing.T) {
	require.Equal(t, float64(50), department.DangerThreshold("Print"))
	require.Equal(t, float64(65), department.DangerThreshold("Cutting Room"))
	require.Equal(t, float64(65), department.DangerThreshold("print"), "department names match exactly")
}

func TestTimeSlotOptions(t *testing.T) {
	require.Equal(t, []string{"AM1", "AM2", "PM1", "PM2", "OT1", "OT2"}, department.TimeSlotOptions("Print"))
	require.Equal(t, []string{"AM", "PM", "OT"}, department.TimeSlotOptions("Lab"))
	require.Equal(t, "AM1", department.DefaultTimeSlot("Print"))

	opts := department.TimeSlotOptions("Lab")
	opts[0] = "XX"
	require.Equal(t, "AM", department.DefaultTimeSlot("Lab"))

	require.True(t, department.IsTimeSlot("Print", "OT2"))
	require.False(t, department.IsTimeSlot("Lab", "OT2"))
}

func TestIsHumidityDanger(t *testing.T) {
	require.True(t, department.IsHumidityDanger("Cutting Room", "70"))
	require.False(t, department.IsHumidityDanger("Cutting Room", "65"))
	require.True(t, department.IsHumidityDanger("Print", "55"))
	require.False(t, department.IsHumidityDanger("Print", "48"))
	require.False(t, department.IsHumidityDanger("Print", ""))
	require.False(t, department.IsHumidityDanger("Print", "wet"))
}

func TestPolicyFor(t *testing.T) {
	p := department.PolicyFor("Sewing Room")
	require.True(t, p.SupportsProductChecks)
	require.Equal(t, float64(65), p.DangerThreshold)
	require.Contains(t, p.Guidance, "centre of the room")

	w := department.PolicyFor("Fabric Warehouse")
	require.False(t, w.SupportsProductChecks)
	require.Contains(t, w.Guidance, "pallets")
}

func TestCatalog(t *testing.T) {
	require.True(t, department.IsFactory("TM2"))
	require.False(t, department.IsFactory("XYZ"))
	require.True(t, department.IsDepartment("Sewing Room"))
	require.False(t, department.IsDepartment("Kitchen"))
	require.True(t, department.IsLine("B", "PD-SB03"))
	require.False(t, department.IsLine("B", "PD-SA03"))
	require.False(t, department.IsLine("Z", "PD-SA01"))
}
