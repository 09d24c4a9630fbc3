package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	billingdomain "github.com/contaflow/facturel/internal/billing/domain"
	"github.com/contaflow/facturel/internal/config"
	"github.com/contaflow/facturel/internal/dian"
	einvoicedomain "github.com/contaflow/facturel/internal/einvoice/domain"
	"github.com/contaflow/facturel/internal/money"
)

const (
	// Generic final consumer, used when the counterparty is unknown.
	genericConsumerName = "CONSUMIDOR FINAL"
	genericConsumerID   = "222222222222"

	// Defaults for an incomplete company row.
	defaultLocationCode   = "11001"
	defaultCompanyAddress = "SIN DIRECCION"

	minPhoneDigits = 7

	// Credit notes issued within this many days of the original invoice
	// reference it; later ones substitute it.
	correctionReferenceWindowDays = 5
)

const dateLayout = "2006-01-02"

// assembleInput carries everything one transformation call needs. Company is
// an explicit request-scoped value; the assembler never caches it.
type assembleInput struct {
	Invoice    *billingdomain.Invoice
	Details    []billingdomain.InvoiceDetail
	Customer   *billingdomain.Customer
	Company    *billingdomain.Company
	Resolution *billingdomain.Resolution

	Environment int

	// Credit notes only.
	Original          *billingdomain.Invoice
	OriginalReference string
}

// assembleDocument builds the complete gateway document: normalized lines,
// reconciled totals, normalized identities, payment forms and, for credit
// notes, the billing reference and discrepancy blocks.
func assembleDocument(in assembleInput, cfg config.EngineConfig, now time.Time) (*einvoicedomain.Document, reconcileOutcome, error) {
	var outcome reconcileOutcome

	isCreditNote := in.Invoice.Kind == billingdomain.KindCreditNote
	if isCreditNote {
		if strings.TrimSpace(in.OriginalReference) == "" || in.Original == nil {
			return nil, outcome, fmt.Errorf("%w: credit note %d", einvoicedomain.ErrMissingReference, in.Invoice.Number)
		}
	}

	brackets := rateBrackets(cfg)

	lines := make([]einvoicedomain.Line, 0, len(in.Details))
	for i, detail := range in.Details {
		lines = append(lines, buildLine(detail, i, cfg.LineTaxTolerance, brackets))
	}

	header := headerTotals{
		TaxableAmount: money.Round(in.Invoice.TaxableAmount),
		TaxAmount:     money.Round(in.Invoice.TaxAmount),
		Total:         money.Round(in.Invoice.Total),
	}
	outcome, err := reconcile(lines, &header, cfg.ReconcileTolerance)
	if err != nil {
		return nil, outcome, err
	}
	header.Total = money.Round(header.TaxableAmount + header.TaxAmount)

	company, err := normalizeCompany(in.Company)
	if err != nil {
		return nil, outcome, err
	}
	customer, err := normalizeCustomer(in.Customer)
	if err != nil {
		return nil, outcome, err
	}

	terms := dian.ResolvePayment(dian.PaymentInput{
		Card:      in.Invoice.CardBalance,
		Transfer:  in.Invoice.TransferBalance,
		Credit:    in.Invoice.CreditBalance,
		Cash:      in.Invoice.CashBalance,
		TermDays:  in.Invoice.CreditTermDays,
		IssueDate: in.Invoice.IssueDate,
	})

	doc := &einvoicedomain.Document{
		Number:               in.Invoice.Number,
		TypeDocumentID:       in.Environment,
		IdentificationNumber: company.IdentificationNumber,
		ResolutionID:         int64(in.Resolution.ID),
		Sync:                 true,
		Company:              company,
		Customer:             customer,
		TaxTotals: []einvoicedomain.TaxTotal{
			{
				TaxID:         einvoicedomain.TaxIDVAT,
				TaxAmount:     header.TaxAmount,
				TaxableAmount: header.TaxableAmount,
				Percent:       dian.ClassifyRateWith(header.TaxableAmount, header.TaxAmount, brackets),
			},
		},
		LegalMonetaryTotals: einvoicedomain.MonetaryTotals{
			LineExtensionAmount:  header.TaxableAmount,
			TaxExclusiveAmount:   header.TaxableAmount,
			TaxInclusiveAmount:   header.Total,
			PayableAmount:        header.Total,
			AllowanceTotalAmount: money.Round(in.Invoice.DiscountAmount),
			ChargeTotalAmount:    0,
		},
		InvoiceLines: lines,
		PaymentForms: []einvoicedomain.PaymentForm{
			{
				PaymentFormID:   terms.FormID,
				PaymentMethodID: terms.MethodID,
				PaymentDueDate:  terms.DueDate.Format(dateLayout),
				DurationMeasure: terms.TermDays,
			},
		},
	}

	if isCreditNote {
		doc.BillingReference = &einvoicedomain.BillingReference{
			Number:    fmt.Sprintf("%s%d", in.Resolution.Prefix, in.Original.Number),
			UUID:      in.OriginalReference,
			IssueDate: in.Original.IssueDate.Format(dateLayout),
		}
		doc.DiscrepancyResponse = &einvoicedomain.DiscrepancyResponse{
			CorrectionConceptID: correctionConcept(in.Invoice, in.Original),
			CorrectionType:      correctionType(in.Original.IssueDate, now),
		}
	}

	return doc, outcome, nil
}

// correctionConcept distinguishes a full annulment from a partial return by
// comparing the credit note's total against the original invoice's.
func correctionConcept(note, original *billingdomain.Invoice) int {
	if money.Equal(money.Round(note.Total), money.Round(original.Total), 0.01) {
		return einvoicedomain.CorrectionConceptAnnulment
	}
	return einvoicedomain.CorrectionConceptPartialReturn
}

func correctionType(originalIssue, now time.Time) string {
	elapsed := int(now.Sub(originalIssue).Hours() / 24)
	if elapsed <= correctionReferenceWindowDays {
		return einvoicedomain.CorrectionTypeReferenced
	}
	return einvoicedomain.CorrectionTypeSubstitution
}

func normalizeCompany(company *billingdomain.Company) (einvoicedomain.Party, error) {
	number, _, err := identification(company.Identification)
	if err != nil {
		return einvoicedomain.Party{}, err
	}

	location := strings.TrimSpace(company.LocationCode)
	if location == "" {
		location = defaultLocationCode
	}
	address := strings.TrimSpace(company.Address)
	if address == "" {
		address = defaultCompanyAddress
	}

	return einvoicedomain.Party{
		IdentificationNumber: number,
		Name:                 strings.ToUpper(strings.TrimSpace(company.Name)),
		TypeOrganizationID:   company.OrganizationTypeID,
		TypeDocumentID:       company.DocumentTypeID,
		IDLocation:           location,
		Address:              address,
		Phone:                normalizePhone(company.Phone),
		Email:                strings.TrimSpace(company.Email),
	}, nil
}

func normalizeCustomer(customer *billingdomain.Customer) (einvoicedomain.CustomerParty, error) {
	// Unknown counterparty collapses to the generic final consumer.
	if customer == nil || strings.TrimSpace(customer.Identification) == "" {
		return genericConsumer()
	}

	number, dv, err := identification(customer.Identification)
	if err != nil {
		return einvoicedomain.CustomerParty{}, err
	}

	name := strings.ToUpper(strings.TrimSpace(customer.Name))
	if name == "" {
		name = genericConsumerName
	}
	location := strings.TrimSpace(customer.LocationCode)
	if location == "" {
		location = defaultLocationCode
	}

	return einvoicedomain.CustomerParty{
		IdentificationNumber: number,
		DV:                   dv,
		Name:                 name,
		TypeOrganizationID:   customer.OrganizationTypeID,
		TypeDocumentID:       customer.DocumentTypeID,
		IDLocation:           location,
		Address:              strings.TrimSpace(customer.Address),
		Phone:                normalizePhone(customer.Phone),
		Email:                strings.TrimSpace(customer.Email),
	}, nil
}

func genericConsumer() (einvoicedomain.CustomerParty, error) {
	number, dv, err := identification(genericConsumerID)
	if err != nil {
		return einvoicedomain.CustomerParty{}, err
	}
	return einvoicedomain.CustomerParty{
		IdentificationNumber: number,
		DV:                   dv,
		Name:                 genericConsumerName,
		TypeOrganizationID:   2,
		TypeDocumentID:       3,
		IDLocation:           defaultLocationCode,
	}, nil
}

// identification splits an identification string into its numeric value and
// check digit. An embedded "-<digit>" suffix wins; otherwise the digit is
// computed.
func identification(raw string) (int64, int, error) {
	digits, dv, err := dian.SplitCheckDigit(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", einvoicedomain.ErrInvalidIdentification, raw, err)
	}
	number, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", einvoicedomain.ErrInvalidIdentification, raw)
	}
	return number, dv, nil
}

// normalizePhone strips non-digit characters and left-pads short numbers to
// the minimum length the gateway schema accepts.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return strings.Repeat("0", minPhoneDigits)
	}
	for len(digits) < minPhoneDigits {
		digits = "0" + digits
	}
	return digits
}

func rateBrackets(cfg config.EngineConfig) []dian.RateBracket {
	brackets := make([]dian.RateBracket, 0, len(cfg.TaxBrackets))
	for _, b := range cfg.TaxBrackets {
		brackets = append(brackets, dian.RateBracket{Rate: b.Rate, Window: b.Window})
	}
	return brackets
}
