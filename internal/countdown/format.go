package countdown

import "fmt"

// Format renders seconds as MM:SS, each field zero-padded to two digits.
// Minutes are not capped, so 3661 renders as "61:01".
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
