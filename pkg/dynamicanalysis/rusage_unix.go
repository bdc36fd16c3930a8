//go:build unix

package dynamicanalysis

import "golang.org/x/sys/unix"

// residentMemory reports the process max resident set size in bytes, or -1
// when the measurement primitive is unavailable.
func residentMemory() int64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return -1
	}
	// ru_maxrss is kilobytes on Linux.
	return int64(ru.Maxrss) * 1024
}
