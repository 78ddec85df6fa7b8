// Package economy provides the per-tick financial breakdown: income routed
// by building category, upkeep split by infrastructure and services, and
// emergency spending.
package economy

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/nairobi-skylines/citysim/internal/catalog"
)

// Category routes a building's revenue into one income line.
type Category string

const (
	Residential  Category = "residential"
	Commercial   Category = "commercial"
	Industrial   Category = "industrial"
	Agricultural Category = "agricultural"
	Tolls        Category = "tolls"
)

// CategoryFor returns the income line a kind's revenue is booked under.
func CategoryFor(k catalog.Kind) Category {
	switch {
	case catalog.IsResidential(k):
		return Residential
	case k == catalog.Factory:
		return Industrial
	case k == catalog.Plantation:
		return Agricultural
	case k == catalog.ExpresswayPillar:
		return Tolls
	default:
		return Commercial
	}
}

// Taxed reports whether revenue in this category is multiplied by the tax rate.
func (c Category) Taxed() bool {
	return c != Tolls
}

// Income is the income side of a FinancialReport.
type Income struct {
	Residential  float64 `json:"residential"`
	Commercial   float64 `json:"commercial"`
	Industrial   float64 `json:"industrial"`
	Agricultural float64 `json:"agricultural"`
	Tolls        float64 `json:"tolls"`
	Kickbacks    float64 `json:"kickbacks"`
	Total        float64 `json:"total"`
}

// Expenses is the spending side of a FinancialReport.
type Expenses struct {
	Infrastructure float64 `json:"infrastructure"`
	Services       float64 `json:"services"`
	Emergency      float64 `json:"emergency"`
	Total          float64 `json:"total"`
}

// FinancialReport is the read-only breakdown produced by one tick.
type FinancialReport struct {
	Income   Income   `json:"income"`
	Expenses Expenses `json:"expenses"`
	Net      float64  `json:"net"`
}

// Ledger accumulates one tick's money flows.
type Ledger struct {
	TaxRate float64

	income   Income
	expenses Expenses
}

// NewLedger creates a ledger applying the given tax rate to taxed revenue.
func NewLedger(taxRate float64) *Ledger {
	return &Ledger{TaxRate: taxRate}
}

// AddRevenue books a functioning building's base revenue.
func (l *Ledger) AddRevenue(k catalog.Kind, base float64) {
	if base == 0 {
		return
	}
	cat := CategoryFor(k)
	amount := base
	if cat.Taxed() {
		amount *= l.TaxRate
	}
	switch cat {
	case Residential:
		l.income.Residential += amount
	case Industrial:
		l.income.Industrial += amount
	case Agricultural:
		l.income.Agricultural += amount
	case Tolls:
		l.income.Tolls += amount
	default:
		l.income.Commercial += amount
	}
}

// AddUpkeep books a building's upkeep. Plain roads are infrastructure,
// everything else is services.
func (l *Ledger) AddUpkeep(k catalog.Kind, upkeep float64) {
	if upkeep == 0 {
		return
	}
	if k == catalog.Road {
		l.expenses.Infrastructure += upkeep
		return
	}
	l.expenses.Services += upkeep
}

// AddEmergency books emergency spending such as fire response.
func (l *Ledger) AddEmergency(amount float64) {
	l.expenses.Emergency += amount
}

// AddKickbacks books sticky kickback income.
func (l *Ledger) AddKickbacks(amount float64) {
	l.income.Kickbacks += amount
}

// Report totals the ledger.
func (l *Ledger) Report() FinancialReport {
	in := l.income
	in.Total = in.Residential + in.Commercial + in.Industrial + in.Agricultural + in.Tolls + in.Kickbacks
	ex := l.expenses
	ex.Total = ex.Infrastructure + ex.Services + ex.Emergency
	return FinancialReport{Income: in, Expenses: ex, Net: in.Total - ex.Total}
}

// String returns a one-line summary for logs.
func (r FinancialReport) String() string {
	return fmt.Sprintf("income=%s expenses=%s net=%s",
		humanize.Commaf(r.Income.Total), humanize.Commaf(r.Expenses.Total), humanize.Commaf(r.Net))
}
