package tool

import (
	"fmt"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/moyoez/progress-uploader/types"
)

// ProbeCount is the number of echo requests sent by ProbeHost.
var ProbeCount = 3

// ProbeHost pings host and reports whether any reply came back. It uses
// unprivileged (UDP) ICMP so it works without root on Linux and macOS.
func ProbeHost(host string) (types.ProbeResult, error) {
	result := types.ProbeResult{Host: host}
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return result, fmt.Errorf("failed to create pinger for %s: %w", host, err)
	}
	pinger.Count = ProbeCount
	pinger.Timeout = ProbeTimeout
	pinger.SetPrivileged(false)
	if err := pinger.Run(); err != nil {
		return result, fmt.Errorf("failed to ping %s: %w", host, err)
	}
	stats := pinger.Statistics()
	result.PacketsSent = stats.PacketsSent
	result.PacketsRecv = stats.PacketsRecv
	result.Reachable = stats.PacketsRecv > 0
	result.AvgRttMs = float64(stats.AvgRtt.Microseconds()) / 1000
	DefaultLogger.Debugf("[Probe] %s: sent=%d recv=%d avg=%s", host, stats.PacketsSent, stats.PacketsRecv, stats.AvgRtt)
	return result, nil
}
