package record

// ListOptions filters record listings. Status is matched against the
// resolved status, so it is applied after storage filtering.
type ListOptions struct {
	Factory    string
	Department string
	Type       Type
	Status     Status
	Limit      int
	Offset     int
}
