package format

import (
	"fmt"
	"strings"
)

var (
	kRateUnits = []string{"bps", "Kbps", "Mbps", "Gbps", "Tbps"}

	kItemNameSuffixes = []string{
		": Bits",
		": Inbound",
		": Outbound",
		": Receive",
		": Transmit",
		" - In",
		" - Out",
	}
)

const (
	kGiB = 1024.0 * 1024.0 * 1024.0
)

func formatBps(bps float64) string {
	v := bps
	i := 0
	for v >= 1000 && i < len(kRateUnits)-1 {
		v /= 1000.0
		i++
	}
	return fmt.Sprintf("%.2f %s", v, kRateUnits[i])
}

func formatBytes(numBytes float64) string {
	gb := numBytes / kGiB
	if gb >= 1024 {
		return fmt.Sprintf("%.2f TB", gb/1024)
	}
	return fmt.Sprintf("%.2f GB", gb)
}

func cleanItemName(name string) string {
	for _, sep := range kItemNameSuffixes {
		if idx := strings.Index(name, sep); idx != -1 {
			return name[:idx]
		}
	}
	return name
}
