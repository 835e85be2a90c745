package view

import (
	"html/template"
	"strings"
	"time"

	"managerpanel/internal/model"
	"managerpanel/internal/service"
	"managerpanel/internal/session"

	"github.com/shopspring/decimal"
)

// ColorTriple styles an invoice status badge.
type ColorTriple struct {
	Background string
	Text       string
	Border     string
}

// OrderColorPair styles an order status badge.
type OrderColorPair struct {
	Background string
	Text       string
}

var statusColors = map[string]ColorTriple{
	model.StatusPending:  {Background: "#FEF3C7", Text: "#92400E", Border: "#FCD34D"},
	model.StatusApproved: {Background: "#D1FAE5", Text: "#065F46", Border: "#34D399"},
	model.StatusRejected: {Background: "#FEE2E2", Text: "#991B1B", Border: "#F87171"},
}

var statusColorFallback = ColorTriple{Background: "#F3F4F6", Text: "#374151", Border: "#D1D5DB"}

var orderColors = map[string]OrderColorPair{
	model.OrderPending:    {Background: "#F3F4F6", Text: "#6B7280"},
	model.OrderConfirmed:  {Background: "#DBEAFE", Text: "#1E40AF"},
	model.OrderProcessing: {Background: "#E0E7FF", Text: "#4338CA"},
	model.OrderDispatched: {Background: "#FEF3C7", Text: "#92400E"},
	model.OrderDelivered:  {Background: "#D1FAE5", Text: "#065F46"},
	model.OrderCancelled:  {Background: "#FEE2E2", Text: "#991B1B"},
}

var orderColorFallback = OrderColorPair{Background: "#F3F4F6", Text: "#6B7280"}

// StatusColor maps an invoice status to its badge colors. Any unknown status
// gets the neutral gray triple.
func StatusColor(status string) ColorTriple {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return statusColorFallback
}

// OrderColor maps an order status to its badge colors, same fallback policy.
func OrderColor(status string) OrderColorPair {
	if c, ok := orderColors[status]; ok {
		return c
	}
	return orderColorFallback
}

// Money renders an amount as "PKR 5,000": thousands-grouped, fractional
// digits kept only when present.
func Money(amount decimal.Decimal) string {
	return "PKR " + groupThousands(amount.String())
}

// MoneyFixed renders an amount with exactly two decimals, "PKR 150.50".
// Used for commission confirmations.
func MoneyFixed(amount decimal.Decimal) string {
	return "PKR " + amount.StringFixed(2)
}

// RevenueShort compresses total revenue to "PKR 48K".
func RevenueShort(amount decimal.Decimal) string {
	thousands := amount.Div(decimal.NewFromInt(1000)).Round(0)
	return "PKR " + thousands.String() + "K"
}

// FormatDate renders en-GB day/month/year; blank for a missing date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

// NormalizeTab clamps the active tab to a known status, defaulting to pending.
func NormalizeTab(tab string) string {
	switch tab {
	case model.StatusPending, model.StatusApproved, model.StatusRejected:
		return tab
	}
	return model.StatusPending
}

// Tab is one entry of the status tab bar.
type Tab struct {
	Key    string
	Label  string
	Count  int
	Active bool
}

// Dashboard is the full render model for the dashboard page. Building it is
// a pure function of the fetched data and the request parameters.
type Dashboard struct {
	UserName      string
	ActiveTab     string
	Stats         *model.Stats
	Tabs          []Tab
	Invoices      []model.Invoice
	Selected      *model.Invoice
	Flash         *session.Flash
	OrderStatuses []string
}

// BuildDashboard assembles the dashboard render model. The selected invoice
// is looked up in the fetched list; an id not on the active tab simply leaves
// the modal closed.
func BuildDashboard(userName, tab, selectedID string, data *service.DashboardData, flash *session.Flash) *Dashboard {
	active := NormalizeTab(tab)

	d := &Dashboard{
		UserName:      userName,
		ActiveTab:     active,
		Stats:         data.Stats,
		Invoices:      data.Invoices,
		Flash:         flash,
		OrderStatuses: model.RequestableOrderStatuses(),
	}

	counts := map[string]int{}
	if data.Stats != nil {
		counts[model.StatusPending] = data.Stats.PendingInvoices
		counts[model.StatusApproved] = data.Stats.ApprovedInvoices
		counts[model.StatusRejected] = data.Stats.RejectedInvoices
	}
	for _, key := range []string{model.StatusPending, model.StatusApproved, model.StatusRejected} {
		d.Tabs = append(d.Tabs, Tab{
			Key:    key,
			Label:  strings.ToUpper(key[:1]) + key[1:],
			Count:  counts[key],
			Active: key == active,
		})
	}

	if selectedID != "" {
		for i := range data.Invoices {
			if data.Invoices[i].ID == selectedID {
				d.Selected = &data.Invoices[i]
				break
			}
		}
	}
	return d
}

// FuncMap exposes the formatting helpers to the templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":        Money,
		"moneyFixed":   MoneyFixed,
		"revenueShort": RevenueShort,
		"formatDate":   FormatDate,
		"statusColor":  StatusColor,
		"orderColor":   OrderColor,
		"upper":        strings.ToUpper,
	}
}
