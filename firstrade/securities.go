package firstrade

import "fmt"

type securityKind int

const (
	kindStock securityKind = iota
	// kindInterest marks the pseudo-security the broker attaches to idle
	// cash interest payments.
	kindInterest
)

type security struct {
	kind   securityKind
	symbol string
	name   string
}

// securities maps the document's internal security identifiers to the
// instruments they denote.
type securities map[string]security

// parseSecurities reads the instrument list record.
func parseSecurities(n *node) (securities, error) {
	list := newRec(n)
	stocks := list.Each("STOCKINFO")
	others := list.Each("OTHERINFO")
	if err := list.Err(); err != nil {
		return nil, err
	}

	secs := make(securities)
	for _, stock := range stocks {
		id, sec, err := parseSecurityInfo(newRec(stock).Group("SECINFO"), kindStock)
		if err != nil {
			return nil, err
		}
		secs[id] = sec
	}
	for _, other := range others {
		id, sec, err := parseSecurityInfo(newRec(other).Group("SECINFO"), kindInterest)
		if err != nil {
			return nil, err
		}
		secs[id] = sec
	}
	return secs, nil
}

func parseSecurityInfo(n *node, kind securityKind) (string, security, error) {
	r := newRec(n)
	id := parseSecurityID(r.Group("SECID"))
	name := r.String("SECNAME")
	sec := security{kind: kind, name: name}
	if kind == kindStock {
		sec.symbol = r.String("TICKER")
	}
	r.Skip("UNITPRICE")
	r.Skip("DTASOF")
	if err := r.Err(); err != nil {
		return "", security{}, err
	}
	return id, sec, nil
}

// parseSecurityID extracts the internal identifier of a security reference.
func parseSecurityID(n *node) string {
	r := newRec(n)
	id := r.String("UNIQUEID")
	r.Skip("UNIQUEIDTYPE")
	if r.Err() != nil {
		return ""
	}
	return id
}

// stock resolves a security reference that must denote a listed stock.
func (s securities) stock(n *node) (symbol string, err error) {
	id := parseSecurityID(n)
	sec, ok := s[id]
	if !ok {
		return "", fmt.Errorf("unknown security id %q", id)
	}
	if sec.kind != kindStock {
		return "", fmt.Errorf("security %q is not a stock", sec.name)
	}
	return sec.symbol, nil
}

// names collects the symbol to description mapping of all listed stocks.
func (s securities) names() map[string]string {
	names := make(map[string]string)
	for _, sec := range s {
		if sec.kind == kindStock {
			names[sec.symbol] = sec.name
		}
	}
	return names
}

// validateSubAccount checks the sub-account discriminator fields that every
// transaction carries.
func validateSubAccount(name, value string) error {
	if value != "CASH" {
		return fmt.Errorf("unsupported sub-account %q in field <%s>", value, name)
	}
	return nil
}
