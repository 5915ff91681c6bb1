package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// ReportUseCase derives balance sheets, income statements, per-account
// ledgers and chart-wide journals from the aggregation engine.
type ReportUseCase struct {
	chartRepo   ChartRepository
	accountRepo AccountRepository
	txRepo      TransactionRepository
	balances    *BalanceUseCase
	cache       Cache
	metrics     *metrics.Metrics
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	chartRepo ChartRepository,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	balances *BalanceUseCase,
	cache Cache,
	metrics *metrics.Metrics,
) *ReportUseCase {
	return &ReportUseCase{
		chartRepo:   chartRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		balances:    balances,
		cache:       cache,
		metrics:     metrics,
	}
}

func (uc *ReportUseCase) observe(kind string, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ReportsServed.WithLabelValues(kind).Inc()
	uc.metrics.ReportDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// BalanceSheet reports balance-sheet account balances at a point in time.
func (uc *ReportUseCase) BalanceSheet(ctx context.Context, chartID string, at time.Time) ([]AccountBalance, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	defer uc.observe("balance_sheet", time.Now())
	return uc.balances.Balances(ctx, chartID, EpochStart, at, BalanceFilter{BalanceSheet: true})
}

// Bucket is one line of the income statement: a total plus the analytic
// account balances that contributed to it. Derived lines carry no details.
type Bucket struct {
	Balance decimal.Decimal
	Details []AccountBalance
}

func (b *Bucket) add(balance AccountBalance) *Bucket {
	if !balance.Account.Analytic || !balance.Value.IsPositive() {
		return b
	}
	if b == nil {
		b = &Bucket{}
	}
	b.Balance = b.Balance.Add(balance.Value)
	b.Details = append(b.Details, balance)
	return b
}

func bucketBalance(b *Bucket) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b.Balance
}

// IncomeStatement is the fixed P&L taxonomy. Buckets with zero balance and
// no contributing detail are omitted, except NetIncome which is always
// present.
type IncomeStatement struct {
	GrossRevenue          *Bucket
	Deduction             *Bucket
	SalesTax              *Bucket
	NetRevenue            *Bucket
	Cost                  *Bucket
	GrossProfit           *Bucket
	OperatingExpense      *Bucket
	NetOperatingIncome    *Bucket
	NonOperatingRevenue   *Bucket
	NonOperatingExpense   *Bucket
	NonOperatingTax       *Bucket
	IncomeBeforeIncomeTax *Bucket
	IncomeTax             *Bucket
	Dividends             *Bucket
	NetIncome             *Bucket
}

// IncomeStatementReport classifies income-statement balances over [from, to]
// into the P&L taxonomy and computes the derived totals.
func (uc *ReportUseCase) IncomeStatementReport(ctx context.Context, chartID string, from, to time.Time) (*IncomeStatement, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	defer uc.observe("income_statement", time.Now())

	balances, err := uc.balances.Balances(ctx, chartID, from, to, BalanceFilter{IncomeStatement: true})
	if err != nil {
		return nil, err
	}

	revenueRoots, expenseRoots := classificationRoots(balances)

	descendsFrom := func(account *domain.Account, roots []*domain.Account) bool {
		for _, r := range roots {
			if strings.HasPrefix(account.Number, r.Number) {
				return true
			}
		}
		return false
	}

	var st IncomeStatement
	for _, b := range balances {
		account := b.Account
		switch {
		case account.Attribute == domain.AttrOperating && descendsFrom(account, revenueRoots):
			st.GrossRevenue = st.GrossRevenue.add(b)
		case account.Attribute == domain.AttrDeduction:
			st.Deduction = st.Deduction.add(b)
		case account.Attribute == domain.AttrSalesTax:
			st.SalesTax = st.SalesTax.add(b)
		case account.Attribute == domain.AttrCost:
			st.Cost = st.Cost.add(b)
		case account.Attribute == domain.AttrOperating && descendsFrom(account, expenseRoots):
			st.OperatingExpense = st.OperatingExpense.add(b)
		case account.Attribute == domain.AttrNonOperatingTax:
			st.NonOperatingTax = st.NonOperatingTax.add(b)
		case account.Attribute == domain.AttrIncomeTax:
			st.IncomeTax = st.IncomeTax.add(b)
		case account.Attribute == domain.AttrDividends:
			st.Dividends = st.Dividends.add(b)
		case descendsFrom(account, revenueRoots):
			st.NonOperatingRevenue = st.NonOperatingRevenue.add(b)
		default:
			st.NonOperatingExpense = st.NonOperatingExpense.add(b)
		}
	}

	st.NetRevenue = &Bucket{Balance: bucketBalance(st.GrossRevenue).
		Sub(bucketBalance(st.Deduction)).
		Sub(bucketBalance(st.SalesTax))}
	st.GrossProfit = &Bucket{Balance: st.NetRevenue.Balance.
		Sub(bucketBalance(st.Cost))}
	st.NetOperatingIncome = &Bucket{Balance: st.GrossProfit.Balance.
		Sub(bucketBalance(st.OperatingExpense))}
	st.IncomeBeforeIncomeTax = &Bucket{Balance: st.NetOperatingIncome.Balance.
		Add(bucketBalance(st.NonOperatingRevenue)).
		Sub(bucketBalance(st.NonOperatingExpense)).
		Sub(bucketBalance(st.NonOperatingTax))}
	st.NetIncome = &Bucket{Balance: st.IncomeBeforeIncomeTax.Balance.
		Sub(bucketBalance(st.IncomeTax)).
		Sub(bucketBalance(st.Dividends))}

	st.omitEmpty()

	return &st, nil
}

// omitEmpty drops buckets with zero balance and no contributing detail.
// NetIncome always stays.
func (st *IncomeStatement) omitEmpty() {
	omit := func(b **Bucket) {
		if *b != nil && (*b).Balance.IsZero() && len((*b).Details) == 0 {
			*b = nil
		}
	}
	omit(&st.GrossRevenue)
	omit(&st.Deduction)
	omit(&st.SalesTax)
	omit(&st.NetRevenue)
	omit(&st.Cost)
	omit(&st.GrossProfit)
	omit(&st.OperatingExpense)
	omit(&st.NetOperatingIncome)
	omit(&st.NonOperatingRevenue)
	omit(&st.NonOperatingExpense)
	omit(&st.NonOperatingTax)
	omit(&st.IncomeBeforeIncomeTax)
	omit(&st.IncomeTax)
	omit(&st.Dividends)
}

// classificationRoots splits the filtered accounts' roots into revenue roots
// (credit-normal) and expense roots (debit-normal). When the whole statement
// hangs off a single root, its direct children take over as roots.
func classificationRoots(balances []AccountBalance) (revenue, expense []*domain.Account) {
	inSet := make(map[string]bool, len(balances))
	for _, b := range balances {
		inSet[b.Account.ID] = true
	}

	split := func(match func(*domain.Account) bool) (rev, exp []*domain.Account) {
		for _, b := range balances {
			a := b.Account
			if !match(a) {
				continue
			}
			if a.CreditBalance {
				rev = append(rev, a)
			} else {
				exp = append(exp, a)
			}
		}
		return rev, exp
	}

	// A root of the filtered set is an account whose parent is outside it;
	// that covers both chart roots and filtered subtrees hanging below one.
	revenue, expense = split(func(a *domain.Account) bool {
		return a.ParentID == "" || !inSet[a.ParentID]
	})
	if len(revenue)+len(expense) == 1 {
		root := append(revenue, expense...)[0]
		revenue, expense = split(func(a *domain.Account) bool {
			return a.ParentID == root.ID
		})
	}
	return revenue, expense
}

// Counterpart describes the opposite side of a ledger entry: the single
// opposing account, or "many" when the other side has several entries.
type Counterpart struct {
	Number string
	Name   string
	Many   bool
}

// LedgerEntry is one emitted row of a per-account ledger.
type LedgerEntry struct {
	TransactionID string
	Date          time.Time
	Memo          string
	Side          domain.EntrySide
	Amount        decimal.Decimal
	Balance       decimal.Decimal
	Counterpart   Counterpart
}

// Ledger is the ordered list of entries touching one account in a period,
// with the running balance and the balance carried in from before the
// period.
type Ledger struct {
	Account        *domain.Account
	OpeningBalance decimal.Decimal
	Entries        []LedgerEntry
}

// LedgerReport replays the transactions touching one account: entries dated
// before from fold into the opening balance, entries within [from, to] are
// emitted with a running balance and a counterpart descriptor.
func (uc *ReportUseCase) LedgerReport(ctx context.Context, chartID, accountRef string, from, to time.Time) (*Ledger, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	defer uc.observe("ledger", time.Now())

	accounts, err := loadAccountSet(ctx, uc.accountRepo, uc.cache, uc.metrics, chartID)
	if err != nil {
		return nil, err
	}
	account := accounts.resolve(accountRef)
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	opening := decimal.Zero
	openingBalances, err := uc.balances.Balances(ctx, chartID, EpochStart, from.AddDate(0, 0, -1),
		BalanceFilter{Number: account.Number})
	if err != nil {
		return nil, err
	}
	if len(openingBalances) > 0 {
		opening = openingBalances[0].Value
	}

	transactions, err := uc.txRepo.ListByAccount(ctx, chartID, account.ID, from, to)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{Account: account, OpeningBalance: opening, Entries: []LedgerEntry{}}
	running := opening

	emit := func(t *domain.Transaction, entries []domain.Entry, counterpart []domain.Entry, side domain.EntrySide) {
		amount := decimal.Zero
		found := false
		for _, e := range entries {
			if e.AccountID == account.ID {
				amount = amount.Add(domain.BalanceIncrement(account, e.Value, side))
				found = true
			}
		}
		if !found {
			return
		}
		running = running.Add(amount)

		cp := Counterpart{Many: true, Name: "many"}
		if len(counterpart) == 1 {
			if other := accounts.byID[counterpart[0].AccountID]; other != nil {
				cp = Counterpart{Number: other.Number, Name: other.Name}
			}
		}

		ledger.Entries = append(ledger.Entries, LedgerEntry{
			TransactionID: t.ID,
			Date:          t.Date,
			Memo:          t.Memo,
			Side:          side,
			Amount:        amount.Abs(),
			Balance:       running,
			Counterpart:   cp,
		})
	}

	for _, t := range transactions {
		emit(t, t.Debits, t.Credits, domain.DebitSide)
		emit(t, t.Credits, t.Debits, domain.CreditSide)
	}

	return ledger, nil
}

// JournalLine is an entry of a journal transaction with its account resolved.
type JournalLine struct {
	AccountID string
	Number    string
	Name      string
	Value     decimal.Decimal
}

// JournalEntry is one transaction of the chart-wide journal.
type JournalEntry struct {
	TransactionID string
	Date          time.Time
	Memo          string
	Debits        []JournalLine
	Credits       []JournalLine
}

// JournalReport lists the chart's transactions within [from, to] in (date,
// recording timestamp) order, with account names resolved per entry.
func (uc *ReportUseCase) JournalReport(ctx context.Context, chartID string, from, to time.Time) ([]JournalEntry, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	defer uc.observe("journal", time.Now())

	accounts, err := loadAccountSet(ctx, uc.accountRepo, uc.cache, uc.metrics, chartID)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.txRepo.ListByDateRange(ctx, chartID, from, to)
	if err != nil {
		return nil, err
	}

	annotate := func(entries []domain.Entry) []JournalLine {
		lines := make([]JournalLine, len(entries))
		for i, e := range entries {
			lines[i] = JournalLine{AccountID: e.AccountID, Value: e.Value}
			if a := accounts.byID[e.AccountID]; a != nil {
				lines[i].Number = a.Number
				lines[i].Name = a.Name
			}
		}
		return lines
	}

	journal := make([]JournalEntry, len(transactions))
	for i, t := range transactions {
		journal[i] = JournalEntry{
			TransactionID: t.ID,
			Date:          t.Date,
			Memo:          t.Memo,
			Debits:        annotate(t.Debits),
			Credits:       annotate(t.Credits),
		}
	}

	return journal, nil
}
