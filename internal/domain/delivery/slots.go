package delivery

import "fmt"

// Slots resolves the ordered list of required file labels for a delivery.
//
// count is the program default, labels the program's named slots and
// override the school-specific count (nil when none is configured). A single
// slot is unlabelled and is represented by one empty string.
func Slots(count int, labels []string, override *int) []string {
	n := count
	if override != nil {
		n = *override
	}
	if n <= 1 {
		return []string{""}
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(labels) && labels[i] != "" {
			out[i] = labels[i]
			continue
		}
		out[i] = fmt.Sprintf("Archivo %d", i+1)
	}
	return out
}

// CheckSlot validates the label a director attaches to an upload.
func CheckSlot(slots []string, label string) error {
	if len(slots) == 1 && slots[0] == "" {
		return nil
	}
	for _, s := range slots {
		if s == label {
			return nil
		}
	}
	return ErrUnknownSlot
}

// MissingSlots returns the slots that have no uploaded file yet. For a
// single unlabelled slot any uploaded file fills it.
func MissingSlots(slots []string, uploaded []string) []string {
	if len(slots) == 1 && slots[0] == "" {
		if len(uploaded) > 0 {
			return nil
		}
		return []string{""}
	}
	have := make(map[string]bool, len(uploaded))
	for _, u := range uploaded {
		have[u] = true
	}
	var missing []string
	for _, s := range slots {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	return missing
}
