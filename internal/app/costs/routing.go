package costs

import "strings"

type SupplierType int

const (
	SupplierBulkFeed SupplierType = iota
	SupplierRemoteCatalog
)

func (s SupplierType) String() string {
	if s == SupplierRemoteCatalog {
		return "remote"
	}
	return "feed"
}

// ParseSupplierType maps a configured vendor map value to a SupplierType.
func ParseSupplierType(value string) (SupplierType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "remote", "printify", "remote_catalog":
		return SupplierRemoteCatalog, true
	case "feed", "csv", "bulk", "bulk_feed":
		return SupplierBulkFeed, true
	}
	return SupplierBulkFeed, false
}

// Router decides which supplier prices a variant. The explicit vendor map wins;
// otherwise a vendor or product title containing a remote marker goes remote.
type Router struct {
	vendors map[string]SupplierType
	markers []string
}

func NewRouter(vendorMap map[string]string, markers []string) (*Router, []string) {
	r := &Router{vendors: make(map[string]SupplierType, len(vendorMap))}
	var rejected []string
	for vendor, value := range vendorMap {
		supplier, ok := ParseSupplierType(value)
		if !ok {
			rejected = append(rejected, vendor+"="+value)
			continue
		}
		r.vendors[strings.ToLower(strings.TrimSpace(vendor))] = supplier
	}
	for _, marker := range markers {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker != "" {
			r.markers = append(r.markers, marker)
		}
	}
	return r, rejected
}

func (r *Router) Classify(vendor, title string) SupplierType {
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	if supplier, ok := r.vendors[vendor]; ok {
		return supplier
	}
	title = strings.ToLower(title)
	for _, marker := range r.markers {
		if strings.Contains(vendor, marker) || strings.Contains(title, marker) {
			return SupplierRemoteCatalog
		}
	}
	return SupplierBulkFeed
}
