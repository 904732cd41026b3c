// Package hclutil holds small helpers shared by the HCL-facing packages:
// reading bare keywords as symbols, converting between Go and cty values,
// and the function table available to script expressions.
package hclutil
