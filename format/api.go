// Package format renders traffic rates and volumes for people.
package format

// Bps formats a rate in bits per second using the largest of bps, Kbps,
// Mbps, Gbps and Tbps that keeps the magnitude below 1000. Units are
// powers of 1000.
func Bps(bps float64) string {
	return formatBps(bps)
}

// Bytes formats a byte count as GB, or as TB from 1024 GB on. Units are
// powers of 1024.
func Bytes(numBytes float64) string {
	return formatBytes(numBytes)
}

// CleanItemName strips the direction suffix that monitoring templates add to
// traffic item names so that the remainder names the interface.
// For instance "Interface ae2(Core): Bits received" becomes
// "Interface ae2(Core)".
func CleanItemName(name string) string {
	return cleanItemName(name)
}
