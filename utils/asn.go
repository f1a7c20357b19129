package utils

import "strconv"

// UnknownLabel is shown for any missing infrastructure value
const UnknownLabel = "Unknown"

// ASNProviders maps well-known autonomous system numbers to hosting providers
var ASNProviders = map[int]string{
	24940:  "Hetzner",
	16276:  "OVH",
	14061:  "DigitalOcean",
	20473:  "Vultr",
	396356: "Latitude.sh",
	13335:  "Cloudflare",
	15169:  "Google",
	16509:  "Amazon",
	8075:   "Microsoft",
	36352:  "ColoCrossing",
	55720:  "Gigabit Hosting",
}

// AsnProviderName returns the provider for asn, or "Unknown".
func AsnProviderName(asn *int) string {
	if asn == nil {
		return UnknownLabel
	}
	if name, ok := ASNProviders[*asn]; ok {
		return name
	}
	return UnknownLabel
}

// AsnDisplay renders "Hetzner (24940)", the bare number, or "Unknown".
func AsnDisplay(asn *int) string {
	if asn == nil {
		return UnknownLabel
	}
	if name, ok := ASNProviders[*asn]; ok {
		return name + " (" + strconv.Itoa(*asn) + ")"
	}
	return strconv.Itoa(*asn)
}
