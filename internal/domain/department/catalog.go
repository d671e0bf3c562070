package department

// Factories lists the sites that submit inspections.
var Factories = []string{"TTT", "TN", "TM2", "VAS"}

// Departments lists the inspected departments in display order.
var Departments = []string{
	FabricWarehouse,
	"Heat Transfer",
	"Cutting Room",
	"Store Acc(Heat Tranfer)",
	"Embroidery",
	"Sample Room",
	Print,
	"Pad Print",
	"Supermarket",
	"Lab",
	"Final Inspection",
	"Finished Goods WH",
	"Sublimation",
	SewingRoom,
}

// SewingLines maps sewing room identifiers to their production lines.
var SewingLines = map[string][]string{
	"A": {"PD-SA01", "PD-SA02", "PD-SA03", "PD-SA04", "PD-SA05"},
	"B": {"PD-SB01", "PD-SB02", "PD-SB03", "PD-SB04", "PD-SB05"},
	"H": {"PD-SH01", "PD-SH02", "PD-SH03", "PD-SH04", "PD-SH05"},
}

// IsFactory reports whether name is a known factory.
func IsFactory(name string) bool {
	return contains(Factories, name)
}

// IsDepartment reports whether name is a known department.
func IsDepartment(name string) bool {
	return contains(Departments, name)
}

// IsLine reports whether line belongs to sewing room.
func IsLine(room, line string) bool {
	lines, ok := SewingLines[room]
	if !ok {
		return false
	}
	return contains(lines, line)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
