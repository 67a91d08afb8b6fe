package parser

import (
	"fmt"
	"strings"
)

func padRight(s string, n int) string {
	return s + strings.Repeat(" ", n-len(s))
}

func padLeft(s string, n int) string {
	return strings.Repeat(" ", n-len(s)) + s
}

func descriptiveLine(reel, bank, preferredSpec, userID, description, date string) string {
	return "0" + strings.Repeat(" ", 17) + reel + bank + strings.Repeat(" ", 7) +
		padRight(preferredSpec, 26) + userID + padRight(description, 12) + date + strings.Repeat(" ", 40)
}

type detailFields struct {
	bsb, account, indicator, code string
	amount                        int64
	name, reference, traceBSB     string
	traceAccount, remitter        string
	withheld                      int64
}

func defaultDetail() detailFields {
	return detailFields{
		bsb:          "062-000",
		account:      "12223123",
		indicator:    " ",
		code:         "53",
		amount:       12345,
		name:         "Jane Citizen",
		reference:    "Invoice 42",
		traceBSB:     "062-000",
		traceAccount: "98765432",
		remitter:     "ACME PTY LTD",
		withheld:     0,
	}
}

func (d detailFields) line() string {
	return "1" + d.bsb + padLeft(d.account, 9) + d.indicator + d.code +
		fmt.Sprintf("%010d", d.amount) + padRight(d.name, 32) + padRight(d.reference, 18) +
		d.traceBSB + padLeft(d.traceAccount, 9) + padRight(d.remitter, 16) + fmt.Sprintf("%08d", d.withheld)
}

func fileTotalLine(net, credit, debit int64, count int) string {
	return "7999-999" + strings.Repeat(" ", 12) +
		fmt.Sprintf("%010d%010d%010d", net, credit, debit) + strings.Repeat(" ", 24) +
		fmt.Sprintf("%06d", count) + strings.Repeat(" ", 40)
}
