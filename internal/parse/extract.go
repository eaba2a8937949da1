package parse

import (
	"regexp"

	"invoicepipe/internal/entity"
)

// Labeled amount patterns, in caller priority order. Totals prefer the
// explicit document-total labels and fall back to the bare "Totale" row.
var (
	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Totale\s*documento`),
		regexp.MustCompile(`(?i)Totale\s*fattura`),
		regexp.MustCompile(`(?i)Totale\s*a\s*pagare`),
	}
	// professional-invoice layout: the honoraria total row lists the net
	// figure first, so this one picks the leftmost amount
	honorariaTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Totale\s*onorari`),
	}
	bareTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bTotale\b`),
	}
	taxablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Imponibile`),
	}
	feesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Compensi\s*dovuti`),
		regexp.MustCompile(`(?i)Onorari`),
		regexp.MustCompile(`(?i)Attività\s*di\s*assistenza`),
	}
	expensePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Spese\s*generali`),
		regexp.MustCompile(`(?i)15\s*%`),
		regexp.MustCompile(`(?i)ex\s*D\.M\.`),
	}
)

// ExtractFindings runs every heuristic extractor over one document's text
// and collects the best candidates. Pure pattern matching: nothing here ever
// sees model output.
func ExtractFindings(text string) entity.RegexFindings {
	var f entity.RegexFindings
	if text == "" {
		return f
	}
	lines := NormalizeLines(text)

	f.Date = ExtractDate(text)
	f.InvoiceNumber = ExtractInvoiceNumber(lines)

	block := ExtractCustomerBlock(lines)
	f.Customer = block.Name
	f.CustomerAddress = block.Address

	f.Supplier = ExtractSupplier(lines)

	if total, ok := FindAmount(lines, totalPatterns, StrategyLast); ok {
		f.Total = total
	} else if total, ok := FindAmount(lines, honorariaTotalPatterns, StrategyFirst); ok {
		f.Total = total
	} else if total, ok := FindAmount(lines, bareTotalPatterns, StrategyLast); ok {
		f.Total = total
	} else if total, ok := LastAmount(text); ok {
		f.Total = total
	}
	if base, ok := FindAmount(lines, taxablePatterns, StrategyFirst); ok {
		f.TaxableBase = base
	}
	if fees, ok := FindAmount(lines, feesPatterns, StrategyMax); ok {
		f.Fees = fees
	}
	if exp, ok := FindAmount(lines, expensePatterns, StrategyMax); ok {
		f.GeneralExpenses = exp
	}

	f.VATRate = ExtractVATRate(text)
	f.EuroDetected = DetectEuro(text)
	f.LineItems = ExtractLineItems(lines)
	return f
}
