package ib

import "github.com/etnz/brokerage"

// interestParser reads interest paid on the idle cash balance.
type interestParser struct{ baseParser }

func (interestParser) skipTotals() bool { return true }

func (interestParser) parse(p *statementParser, r *record) error {
	currency, err := r.get("Currency")
	if err != nil {
		return err
	}
	date, err := r.parseDate("Date")
	if err != nil {
		return err
	}
	amount, err := r.parseAmount("Amount", currency)
	if err != nil {
		return err
	}
	if amount, err = brokerage.CheckAmount("idle cash interest amount", amount, brokerage.NonZero); err != nil {
		return err
	}
	p.statement.IdleCashInterest = append(p.statement.IdleCashInterest,
		brokerage.IdleCashInterest{Date: date, Amount: amount})
	return nil
}
