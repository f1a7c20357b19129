package utils

import (
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// InfraLocation is what a local GeoIP lookup can tell about a validator host
type InfraLocation struct {
	ASN           *int
	DataCenterKey *string
}

// InfraResolver fills in ASN and data center keys from MaxMind databases when
// the infrastructure registry has nothing for a validator.
type InfraResolver struct {
	asnDB  *geoip2.Reader
	cityDB *geoip2.Reader
	cache  sync.Map // map[string]InfraLocation
}

// NewInfraResolver never fails: databases that cannot be opened are skipped
// and lookups for them return nothing.
func NewInfraResolver(asnPath, cityPath string) *InfraResolver {
	r := &InfraResolver{}

	if asnPath != "" {
		db, err := geoip2.Open(asnPath)
		if err != nil {
			log.Printf("⚠️  Could not open GeoIP ASN database at %s: %v", asnPath, err)
		} else {
			r.asnDB = db
		}
	}
	if cityPath != "" {
		db, err := geoip2.Open(cityPath)
		if err != nil {
			log.Printf("⚠️  Could not open GeoIP city database at %s: %v", cityPath, err)
		} else {
			r.cityDB = db
		}
	}

	return r
}

func (r *InfraResolver) Enabled() bool {
	return r != nil && r.asnDB != nil
}

func (r *InfraResolver) Close() {
	if r == nil {
		return
	}
	if r.asnDB != nil {
		r.asnDB.Close()
	}
	if r.cityDB != nil {
		r.cityDB.Close()
	}
}

// Lookup is safe on a nil resolver. The data center key follows the
// registry's "{asn}-{country}-{city}" layout.
func (r *InfraResolver) Lookup(ipStr string) InfraLocation {
	if !r.Enabled() {
		return InfraLocation{}
	}

	host := ipStr
	if h, _, err := net.SplitHostPort(ipStr); err == nil {
		host = h
	}

	if val, ok := r.cache.Load(host); ok {
		return val.(InfraLocation)
	}

	var loc InfraLocation
	ip := net.ParseIP(host)
	if ip == nil {
		return loc
	}

	asnRecord, err := r.asnDB.ASN(ip)
	if err == nil && asnRecord.AutonomousSystemNumber > 0 {
		asn := int(asnRecord.AutonomousSystemNumber)
		loc.ASN = &asn

		if r.cityDB != nil {
			if city, err := r.cityDB.City(ip); err == nil && city.Country.IsoCode != "" {
				key := fmt.Sprintf("%d-%s-%s", asn, city.Country.IsoCode,
					strings.ReplaceAll(city.City.Names["en"], " ", ""))
				key = strings.TrimSuffix(key, "-")
				loc.DataCenterKey = &key
			}
		}
	}

	r.cache.Store(host, loc)
	return loc
}
