// Package finance contains the Finance bounded context: tax profiles,
// product costs, logistics cost rules, sale transactions and the net margin
// calculator that ties them together.
//
// All monetary values are BRL, held as shopspring decimals and rounded to
// two places only at the edge of a calculation.
package finance
