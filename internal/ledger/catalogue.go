package ledger

import "strings"

// BillService is a payable bill category and the providers that can be paid under it.
type BillService struct {
	Type      string
	Title     string
	Providers []string
}

var billServices = []BillService{
	{Type: "electricity", Title: "Electricity", Providers: []string{"BESCOM", "MSEDCL", "TNEB", "KESCO"}},
	{Type: "water", Title: "Water", Providers: []string{"BWSSB", "Mumbai Water", "Delhi Jal Board", "Kolkata Water"}},
	{Type: "mobile", Title: "Mobile Recharge", Providers: []string{"Airtel", "Jio", "VI", "BSNL"}},
	{Type: "internet", Title: "Internet", Providers: []string{"ACT Fibernet", "Airtel Xstream", "Jio Fiber", "BSNL Broadband"}},
}

// Services returns the bill catalogue.
func Services() []BillService {
	out := make([]BillService, len(billServices))
	for i, s := range billServices {
		s.Providers = append([]string(nil), s.Providers...)
		out[i] = s
	}
	return out
}

// findService matches a service by type or title, ignoring case.
func findService(name string) (BillService, bool) {
	name = strings.TrimSpace(name)
	for _, s := range billServices {
		if strings.EqualFold(s.Type, name) || strings.EqualFold(s.Title, name) {
			return s, true
		}
	}
	return BillService{}, false
}

// provider returns the canonical spelling of name if it belongs to the service.
func (s BillService) provider(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, p := range s.Providers {
		if strings.EqualFold(p, name) {
			return p, true
		}
	}
	return "", false
}
