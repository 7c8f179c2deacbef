// Package brokerage ingests broker-issued account statements and normalizes
// them into a single reconciled ledger of cash flows, trades and
// dividend/interest events suitable for tax computation.
//
// The core functionalities include:
//   - Format Parsers: one subpackage per broker export format (tagged
//     transaction documents, header-keyed delimited tables, spreadsheet
//     workbooks), each producing a PartialStatement.
//   - Statement Merging: stitching several time-disjoint partial statements
//     for one account into a single continuous Statement, enforcing exact
//     period continuity and backfilling withholding-tax information that may
//     arrive in a later file than the dividend it belongs to.
//   - Trade Matching: pairing sell transactions against prior buy lots
//     (FIFO) to compute realized cost basis and proportional commissions,
//     cross-checked against the statement's declared open positions.
//   - Tax Rules: per-jurisdiction withholding computation and gross-up of
//     net-only dividend amounts.
//
// Processing is batch-oriented: read N statement files, produce one
// immutable Statement. This package serves as the foundational logic for
// the `brokerstat` command-line tool.
package brokerage
