package ledger

import "strings"

// paymentGroups are checked in order; a descriptor counts for the first
// group it matches only.
var paymentGroups = []struct {
	method  PaymentMethod
	markers []string
}{
	{PaymentCash, []string{"現金"}},
	{PaymentOnAccount, []string{OnAccountMarker}},
	{PaymentCreditCard, []string{"visa", "master", "ae", "jcb", "銀聯"}},
	{PaymentTransfer, []string{"匯款", "訂金"}},
}

// MethodSet is the set of payment groups seen in one sheet.
type MethodSet map[PaymentMethod]bool

// Has reports whether m was detected.
func (s MethodSet) Has(m PaymentMethod) bool {
	return s[m]
}

// classifyDescriptor returns the payment group a single descriptor belongs to.
func classifyDescriptor(value string) (PaymentMethod, bool) {
	lowered := lowerCase(value)
	for _, g := range paymentGroups {
		for _, marker := range g.markers {
			if strings.Contains(lowered, marker) {
				return g.method, true
			}
		}
	}
	return "", false
}

// DetectPaymentMethods collects the distinct payment groups across all
// descriptor values of a sheet.
func DetectPaymentMethods(values []string) MethodSet {
	set := make(MethodSet)
	for _, v := range values {
		if m, ok := classifyDescriptor(v); ok {
			set[m] = true
		}
	}
	return set
}

// ClassifyPayment collapses the detected set into the sheet payment method.
// A single group is that method; no group or several groups are mixed.
func ClassifyPayment(set MethodSet) PaymentMethod {
	if len(set) != 1 {
		return PaymentMixed
	}
	for m := range set {
		return m
	}
	return PaymentMixed
}
