package ipaddresses

// specialPurposeCIDRs are the IPv4 special-purpose address ranges from the
// IANA registry: private, loopback, link-local, documentation, multicast
// and reserved space. Registration attempts claiming such a source address
// did not come from a routable client.
var specialPurposeCIDRs = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"192.88.99.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"224.0.0.0/4",
	"240.0.0.0/4",
}

// IsSpecialPurposeAddress checks if an IPv4 address falls within any of the
// IANA special-purpose address ranges.
func IsSpecialPurposeAddress(ipAddr string) (result bool, err error) {
	for _, cidr := range specialPurposeCIDRs {
		result, err = InAddressSpace(ipAddr, cidr)
		if err != nil || result {
			return
		}
	}

	return
}
