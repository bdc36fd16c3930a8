//go:build !unix

package dynamicanalysis

// residentMemory is unavailable on this platform; analyses report 0.
func residentMemory() int64 {
	return -1
}
