package banks

import (
	"sort"
	"strings"
)

type Bank struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

var registry = map[string]Bank{
	"KCB":      {Code: "KCB", Name: "Kenya Commercial Bank", Value: "01"},
	"EQUITY":   {Code: "EQUITY", Name: "Equity Bank", Value: "68"},
	"COOP":     {Code: "COOP", Name: "Co-operative Bank", Value: "31"},
	"ABSA":     {Code: "ABSA", Name: "Absa Bank Kenya", Value: "03"},
	"STANDARD": {Code: "STANDARD", Name: "Standard Chartered Bank", Value: "02"},
	"DTBK":     {Code: "DTBK", Name: "Diamond Trust Bank", Value: "49"},
	"FAMILY":   {Code: "FAMILY", Name: "Family Bank", Value: "70"},
	"NCBA":     {Code: "NCBA", Name: "NCBA Bank", Value: "07"},
	"PRIME":    {Code: "PRIME", Name: "Prime Bank", Value: "10"},
	"HOUSING":  {Code: "HOUSING", Name: "Housing Finance", Value: "61"},
}

// Lookup resolves a bank code, ignoring case and surrounding space.
func Lookup(code string) (Bank, bool) {
	b, ok := registry[strings.ToUpper(strings.TrimSpace(code))]
	return b, ok
}

// List returns every registered bank ordered by code.
func List() []Bank {
	out := make([]Bank, 0, len(registry))
	for _, b := range registry {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
