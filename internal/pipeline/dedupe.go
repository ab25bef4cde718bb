package pipeline

import (
	"net"
	"strings"

	"github.com/yl2chen/cidranger"
)

// dedupe drops exact duplicate lines and IP-CIDR/IP-CIDR6 rules whose network
// is already covered by an earlier CIDR in the same group. Two CIDRs either
// nest or are disjoint, so an earlier network containing this network's base
// address with a shorter or equal prefix covers it entirely.
func dedupe(lines []string) ([]string, int) {
	seen := make(map[string]struct{}, len(lines))
	ranger := cidranger.NewPCTrieRanger()
	out := make([]string, 0, len(lines))
	dropped := 0

	for _, line := range lines {
		if _, dup := seen[line]; dup {
			dropped++
			continue
		}
		seen[line] = struct{}{}

		network := cidrOf(line)
		if network == nil {
			out = append(out, line)
			continue
		}
		if coveredBy(ranger, network) {
			dropped++
			continue
		}
		ranger.Insert(cidranger.NewBasicRangerEntry(*network))
		out = append(out, line)
	}
	return out, dropped
}

func cidrOf(line string) *net.IPNet {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return nil
	}
	if parts[0] != "IP-CIDR" && parts[0] != "IP-CIDR6" {
		return nil
	}
	_, network, err := net.ParseCIDR(parts[1])
	if err != nil {
		return nil
	}
	return network
}

func coveredBy(ranger cidranger.Ranger, network *net.IPNet) bool {
	entries, err := ranger.ContainingNetworks(network.IP)
	if err != nil {
		return false
	}
	ones, _ := network.Mask.Size()
	for _, entry := range entries {
		existing := entry.Network()
		existingOnes, _ := existing.Mask.Size()
		if existingOnes <= ones {
			return true
		}
	}
	return false
}
